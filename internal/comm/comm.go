package comm

import (
	"encoding/json"
	"time"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/shopspring/decimal"
)

// message types carried in Message.Type
const (
	TypeSubmissionReceived = "submission-received"
	TypeCompetitionExecute = "competition-execute"
	TypeSubmissionStatus   = "submission-status"
	TypeMatchResult        = "match-result"
	TypeStandings          = "standings"
	TypeError              = "error"
)

// NATS subjects
const (
	SubjectSubmissionReceived = "submission.received"
	SubjectCompetitionExecute = "competition.execute"
	SubjectExecutorStatus     = "executor.status"
	SubjectExecutorMatch      = "executor.match"
)

type Message struct {
	Type string          `json:"type"` // e.g. "submission-received", "match-result"
	Data json.RawMessage `json:"data"`
	Id   string          `json:"id,omitempty"`
}

type SubmissionReceived struct {
	SubmissionID  int64     `json:"submission_id"`
	UserID        int64     `json:"user_id"`
	CompetitionID int64     `json:"competition_id"`
	Language      string    `json:"language"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type CompetitionExecute struct {
	CompetitionID int64  `json:"competition_id"`
	RunID         string `json:"run_id"`
}

// StatusReport is sent by the executor when a submission changes state.
type StatusReport struct {
	SubmissionID int64                   `json:"submission_id"`
	Status       models.SubmissionStatus `json:"status"`
}

// MatchReport is sent by the executor for every finished match.
type MatchReport struct {
	CompetitionID int64           `json:"competition_id"`
	Outcome       models.Outcome  `json:"outcome"`
	Points        decimal.Decimal `json:"points"`
	SubmissionIDs []int64         `json:"submission_ids"`
}

type StandingsUpdate struct {
	CompetitionID int64                `json:"competition_id"`
	Standings     []models.StandingRow `json:"standings"`
}

// Encode wraps v in a Message of the given type.
func Encode(msgType, id string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Data: data, Id: id})
}
