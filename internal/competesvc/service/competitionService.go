package service

import (
	"context"
	"time"

	"github.com/avvvet/arena-services/internal/competesvc/models"
)

type CompetitionService struct {
	competitions CompetitionRepository
	enrollments  EnrollmentRepository
	now          func() time.Time
}

func NewCompetitionService(competitions CompetitionRepository, enrollments EnrollmentRepository) *CompetitionService {
	return &CompetitionService{competitions: competitions, enrollments: enrollments, now: time.Now}
}

// ListAvailable returns the competitions open right now.
func (s *CompetitionService) ListAvailable(ctx context.Context) ([]*models.Competition, error) {
	return s.competitions.ListAvailable(ctx, s.now())
}

func (s *CompetitionService) ListAll(ctx context.Context) ([]*models.Competition, error) {
	return s.competitions.ListAll(ctx)
}

// GetCompetition returns nil, nil when the competition does not exist.
func (s *CompetitionService) GetCompetition(ctx context.Context, id int64) (*models.Competition, error) {
	if err := checkID("competition id", id); err != nil {
		return nil, err
	}
	return s.competitions.GetByID(ctx, id)
}

// Enroll registers the user once. created is false if they already were.
// Competitions that have ended do not take new enrollments.
func (s *CompetitionService) Enroll(ctx context.Context, userID, competitionID int64) (created bool, err error) {
	if err := checkID("user id", userID); err != nil {
		return false, err
	}
	c, err := s.GetCompetition(ctx, competitionID)
	if err != nil {
		return false, err
	}
	if c == nil {
		return false, ErrNotFound
	}
	if !s.now().Before(c.EndDate) {
		return false, ErrCompetitionClosed
	}
	return s.enrollments.Enroll(ctx, userID, competitionID)
}

func (s *CompetitionService) IsEnrolled(ctx context.Context, userID, competitionID int64) (bool, error) {
	if err := checkID("user id", userID); err != nil {
		return false, err
	}
	if err := checkID("competition id", competitionID); err != nil {
		return false, err
	}
	return s.enrollments.IsEnrolled(ctx, userID, competitionID)
}
