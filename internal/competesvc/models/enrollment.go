package models

import "time"

type Enrollment struct {
	UserID        int64     `json:"user_id"`
	CompetitionID int64     `json:"competition_id"`
	CreatedAt     time.Time `json:"created_at"`
}
