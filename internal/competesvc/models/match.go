package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OutcomeKind string

const (
	OutcomeWinner  OutcomeKind = "winner"
	OutcomeDraw    OutcomeKind = "draw"
	OutcomePending OutcomeKind = "pending"
)

// Outcome is the result of a match: a winner, a draw, or not decided yet.
// WinnerID is only meaningful when Kind is OutcomeWinner.
type Outcome struct {
	Kind     OutcomeKind `json:"kind"`
	WinnerID int64       `json:"winner_id,omitempty"`
}

func Winner(userID int64) Outcome { return Outcome{Kind: OutcomeWinner, WinnerID: userID} }
func Draw() Outcome               { return Outcome{Kind: OutcomeDraw} }
func Pending() Outcome            { return Outcome{Kind: OutcomePending} }

// NewOutcome rebuilds an outcome from its stored columns.
func NewOutcome(kind string, winnerID *int64) (Outcome, error) {
	switch OutcomeKind(kind) {
	case OutcomeWinner:
		if winnerID == nil || *winnerID <= 0 {
			return Outcome{}, fmt.Errorf("winner outcome without winner id")
		}
		return Winner(*winnerID), nil
	case OutcomeDraw:
		return Draw(), nil
	case OutcomePending:
		return Pending(), nil
	}
	return Outcome{}, fmt.Errorf("unknown outcome kind %q", kind)
}

func (o Outcome) Validate() error {
	_, err := NewOutcome(string(o.Kind), o.winnerPtr())
	return err
}

// WinnerColumn returns the nullable winner_id value for storage.
func (o Outcome) WinnerColumn() *int64 {
	if o.Kind != OutcomeWinner {
		return nil
	}
	return o.winnerPtr()
}

func (o Outcome) winnerPtr() *int64 {
	if o.WinnerID == 0 {
		return nil
	}
	id := o.WinnerID
	return &id
}

type Result string

const (
	ResultWin  Result = "win"
	ResultDraw Result = "draw"
	ResultLoss Result = "loss"
	ResultNone Result = "none"
)

// ResultFor reports the outcome from the point of view of a participant.
// A pending match is ResultNone for everyone.
func (o Outcome) ResultFor(userID int64) Result {
	switch o.Kind {
	case OutcomeWinner:
		if o.WinnerID == userID {
			return ResultWin
		}
		return ResultLoss
	case OutcomeDraw:
		return ResultDraw
	}
	return ResultNone
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	if o.Kind != OutcomeWinner {
		o.WinnerID = 0
	}
	return json.Marshal(plain(o))
}

// Match is a scored contest between submissions.
type Match struct {
	ID            int64           `json:"id"`
	CompetitionID int64           `json:"competition_id"`
	Outcome       Outcome         `json:"outcome"`
	Points        decimal.Decimal `json:"points"`
	SubmissionIDs []int64         `json:"submission_ids"`
	CreatedAt     time.Time       `json:"created_at"`
}
