package store

import (
	"context"
	"errors"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubmissionStore struct {
	db *pgxpool.Pool
}

func NewSubmissionStore(db *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// UpsertSubmission keeps exactly one submission per (user, competition).
// A new upload overwrites code and language, resets the status to
// AWAITING_EXECUTION and the timestamp to now, and keeps the id.
// The unique_user_competition constraint makes the write atomic.
func (s *SubmissionStore) UpsertSubmission(ctx context.Context, userID, competitionID int64, code, language string) (int64, error) {
	const query = `
INSERT INTO submissions (user_id, competition_id, code, language, status, submitted_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT ON CONSTRAINT unique_user_competition DO UPDATE
SET code = EXCLUDED.code,
    language = EXCLUDED.language,
    status = EXCLUDED.status,
    submitted_at = EXCLUDED.submitted_at
RETURNING id;
`
	var id int64
	err := s.db.QueryRow(ctx, query, userID, competitionID, code, language, models.StatusAwaitingExecution).Scan(&id)
	if err != nil {
		return 0, dataAccessError("SubmissionStore.UpsertSubmission", err)
	}
	return id, nil
}

// FindSubmission returns nil, nil when the user has no submission for the
// competition.
func (s *SubmissionStore) FindSubmission(ctx context.Context, userID, competitionID int64) (*models.Submission, error) {
	query := `
		SELECT id, user_id, competition_id, code, language, status, submitted_at
		FROM submissions
		WHERE user_id = $1 AND competition_id = $2`

	sub := &models.Submission{}
	err := s.db.QueryRow(ctx, query, userID, competitionID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.CompetitionID,
		&sub.Code,
		&sub.Language,
		&sub.Status,
		&sub.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dataAccessError("SubmissionStore.FindSubmission", err)
	}
	return sub, nil
}

// GetLatest returns the user's submission with the summed points of its
// decided matches, or nil, nil.
func (s *SubmissionStore) GetLatest(ctx context.Context, userID, competitionID int64) (*models.SubmissionView, error) {
	query := `
		SELECT s.id, s.user_id, s.competition_id, s.language, s.status, s.submitted_at,
		       COALESCE(SUM(m.points) FILTER (WHERE m.outcome <> 'pending'), 0) AS score
		FROM submissions s
		LEFT JOIN match_submissions ms ON ms.submission_id = s.id
		LEFT JOIN matches m ON m.id = ms.match_id
		WHERE s.user_id = $1 AND s.competition_id = $2
		GROUP BY s.id
		ORDER BY s.submitted_at DESC
		LIMIT 1`

	v := &models.SubmissionView{}
	err := s.db.QueryRow(ctx, query, userID, competitionID).Scan(
		&v.ID,
		&v.UserID,
		&v.CompetitionID,
		&v.Language,
		&v.Status,
		&v.SubmittedAt,
		&v.Score,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dataAccessError("SubmissionStore.GetLatest", err)
	}
	return v, nil
}

// UpdateSubmissionStatus records a state reported by the executor.
// found is false when no submission has the id.
func (s *SubmissionStore) UpdateSubmissionStatus(ctx context.Context, id int64, status models.SubmissionStatus) (found bool, err error) {
	tag, err := s.db.Exec(ctx, `UPDATE submissions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return false, dataAccessError("SubmissionStore.UpdateSubmissionStatus", err)
	}
	return tag.RowsAffected() == 1, nil
}
