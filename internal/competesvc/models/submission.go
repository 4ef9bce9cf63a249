package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmissionStatus string

// The store only ever writes StatusAwaitingExecution; the other states are
// reported by the external executor.
const (
	StatusAwaitingExecution SubmissionStatus = "AWAITING_EXECUTION"
	StatusRunning           SubmissionStatus = "RUNNING"
	StatusScored            SubmissionStatus = "SCORED"
	StatusFailed            SubmissionStatus = "FAILED"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusAwaitingExecution, StatusRunning, StatusScored, StatusFailed:
		return true
	}
	return false
}

type Submission struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	CompetitionID int64            `json:"competition_id"`
	Code          string           `json:"code,omitempty"`
	Language      string           `json:"language"`
	Status        SubmissionStatus `json:"status"`
	SubmittedAt   time.Time        `json:"submitted_at"`
}

// SubmissionView is a submission projected with the points of the matches
// it took part in. Code is left out.
type SubmissionView struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	CompetitionID int64            `json:"competition_id"`
	Language      string           `json:"language"`
	Status        SubmissionStatus `json:"status"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	Score         decimal.Decimal  `json:"score"`
}
