package service

import (
	"context"
	"time"

	"github.com/avvvet/arena-services/internal/comm"
	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/shopspring/decimal"
)

// The interfaces below are satisfied by the pgx stores in package store.

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type CompetitionRepository interface {
	ListAvailable(ctx context.Context, now time.Time) ([]*models.Competition, error)
	ListAll(ctx context.Context) ([]*models.Competition, error)
	GetByID(ctx context.Context, id int64) (*models.Competition, error)
}

type EnrollmentRepository interface {
	Enroll(ctx context.Context, userID, competitionID int64) (bool, error)
	IsEnrolled(ctx context.Context, userID, competitionID int64) (bool, error)
}

type SubmissionRepository interface {
	UpsertSubmission(ctx context.Context, userID, competitionID int64, code, language string) (int64, error)
	FindSubmission(ctx context.Context, userID, competitionID int64) (*models.Submission, error)
	GetLatest(ctx context.Context, userID, competitionID int64) (*models.SubmissionView, error)
	UpdateSubmissionStatus(ctx context.Context, id int64, status models.SubmissionStatus) (bool, error)
}

type ResultsRepository interface {
	QueryMatchStatsByCompetition(ctx context.Context, competitionID int64) ([]models.StandingRow, error)
}

type MatchRepository interface {
	RecordMatch(ctx context.Context, competitionID int64, outcome models.Outcome, points decimal.Decimal, submissionIDs []int64) (*models.Match, error)
}

// StandingsCache is a best-effort cache; implementations log their own
// failures. Get reports the competition's current version even on a miss;
// Set stores rows only while that version is still current, so rows read
// before an Invalidate are never cached after it. A negative version
// disables the write.
type StandingsCache interface {
	Get(ctx context.Context, competitionID int64) (rows []models.StandingRow, version int64, ok bool)
	Set(ctx context.Context, competitionID int64, version int64, rows []models.StandingRow)
	Invalidate(ctx context.Context, competitionID int64)
}

type EventPublisher interface {
	PublishSubmissionReceived(ev comm.SubmissionReceived) error
}

// StandingsListener receives fresh standings after a match is recorded.
type StandingsListener interface {
	Broadcast(competitionID int64, rows []models.StandingRow)
}
