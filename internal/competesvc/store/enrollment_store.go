package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentStore struct {
	db *pgxpool.Pool
}

func NewEnrollmentStore(db *pgxpool.Pool) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

// Enroll relates the user to the competition once. created is false when
// the enrollment already existed.
func (s *EnrollmentStore) Enroll(ctx context.Context, userID, competitionID int64) (created bool, err error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO enrollments (user_id, competition_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, competition_id) DO NOTHING`, userID, competitionID)
	if err != nil {
		return false, dataAccessError("EnrollmentStore.Enroll", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *EnrollmentStore) IsEnrolled(ctx context.Context, userID, competitionID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM enrollments WHERE user_id = $1 AND competition_id = $2
		)`, userID, competitionID).Scan(&exists)
	if err != nil {
		return false, dataAccessError("EnrollmentStore.IsEnrolled", err)
	}
	return exists, nil
}
