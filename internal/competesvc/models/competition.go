package models

import "time"

type Competition struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rules       string    `json:"rules,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	GameID      *int64    `json:"game_id,omitempty"`
	GameName    string    `json:"game,omitempty"` // joined from games
	CreatorID   *int64    `json:"creator_id,omitempty"`
	Active      bool      `json:"active"`
}

// IsAvailable reports whether the competition accepts entries at t:
// active and t within [StartDate, EndDate).
func (c *Competition) IsAvailable(t time.Time) bool {
	return c.Active && !t.Before(c.StartDate) && t.Before(c.EndDate)
}
