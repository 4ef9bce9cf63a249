package models

import "github.com/shopspring/decimal"

// StandingRow is the per-user aggregate of a competition's matches.
type StandingRow struct {
	UserID      int64           `json:"user_id"`
	Name        string          `json:"name"`
	Wins        int             `json:"wins"`
	Draws       int             `json:"draws"`
	Losses      int             `json:"losses"`
	TotalPoints decimal.Decimal `json:"total_points"`
}
