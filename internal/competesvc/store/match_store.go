package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrSubmissionMismatch = errors.New("submissions do not all belong to the competition")

type MatchStore struct {
	db *pgxpool.Pool
}

func NewMatchStore(db *pgxpool.Pool) *MatchStore {
	return &MatchStore{db: db}
}

// RecordMatch stores a match and links it to the submissions that played
// it, in one transaction. Every submission must belong to the competition.
func (s *MatchStore) RecordMatch(ctx context.Context, competitionID int64, outcome models.Outcome, points decimal.Decimal, submissionIDs []int64) (*models.Match, error) {
	if err := outcome.Validate(); err != nil {
		return nil, fmt.Errorf("record match: %w", err)
	}
	ids := uniqueIDs(submissionIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("record match: no submissions")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, dataAccessError("MatchStore.RecordMatch begin tx", err)
	}
	defer tx.Rollback(ctx)

	m := &models.Match{
		CompetitionID: competitionID,
		Outcome:       outcome,
		Points:        points,
		SubmissionIDs: ids,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO matches (competition_id, outcome, winner_id, points)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		competitionID, string(outcome.Kind), outcome.WinnerColumn(), points,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, dataAccessError("MatchStore.RecordMatch insert match", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO match_submissions (submission_id, match_id)
		SELECT s.id, $1
		FROM submissions s
		WHERE s.id = ANY($2) AND s.competition_id = $3`,
		m.ID, ids, competitionID)
	if err != nil {
		return nil, dataAccessError("MatchStore.RecordMatch link submissions", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return nil, ErrSubmissionMismatch
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, dataAccessError("MatchStore.RecordMatch commit tx", err)
	}
	return m, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
