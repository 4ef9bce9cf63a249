package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_ResultFor(t *testing.T) {
	win := Winner(1)
	assert.Equal(t, ResultWin, win.ResultFor(1))
	assert.Equal(t, ResultLoss, win.ResultFor(2))

	assert.Equal(t, ResultDraw, Draw().ResultFor(1))
	assert.Equal(t, ResultNone, Pending().ResultFor(1))
}

func TestNewOutcome(t *testing.T) {
	id := int64(4)

	o, err := NewOutcome("winner", &id)
	require.NoError(t, err)
	assert.Equal(t, Winner(4), o)

	o, err = NewOutcome("draw", nil)
	require.NoError(t, err)
	assert.Equal(t, Draw(), o)

	_, err = NewOutcome("winner", nil)
	assert.Error(t, err)

	_, err = NewOutcome("-1", nil)
	assert.Error(t, err)
}

func TestOutcome_WinnerColumn(t *testing.T) {
	assert.Equal(t, int64(8), *Winner(8).WinnerColumn())
	assert.Nil(t, Draw().WinnerColumn())

	// a stray winner id on a draw is not stored
	assert.Nil(t, Outcome{Kind: OutcomeDraw, WinnerID: 8}.WinnerColumn())
}

func TestOutcome_JSON(t *testing.T) {
	data, err := json.Marshal(Outcome{Kind: OutcomeDraw, WinnerID: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"draw"}`, string(data))

	data, err = json.Marshal(Winner(3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"winner","winner_id":3}`, string(data))

	var o Outcome
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"pending"}`), &o))
	assert.NoError(t, o.Validate())
	assert.Equal(t, OutcomePending, o.Kind)
}

func TestCompetition_IsAvailable(t *testing.T) {
	c := Competition{Active: true}
	c.StartDate = mustTime(t, "2024-05-01T00:00:00Z")
	c.EndDate = mustTime(t, "2024-05-10T00:00:00Z")

	assert.True(t, c.IsAvailable(c.StartDate))
	assert.False(t, c.IsAvailable(c.EndDate))

	c.Active = false
	assert.False(t, c.IsAvailable(mustTime(t, "2024-05-05T00:00:00Z")))
}

func TestSubmissionStatus_Valid(t *testing.T) {
	assert.True(t, StatusAwaitingExecution.Valid())
	assert.True(t, StatusFailed.Valid())
	assert.False(t, SubmissionStatus("awaiting execution").Valid())
}

func mustTime(t *testing.T, v string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, v)
	require.NoError(t, err)
	return ts
}
