package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/avvvet/arena-services/internal/comm"
	"github.com/avvvet/arena-services/internal/competesvc/models"
	log "github.com/sirupsen/logrus"
)

var languageRe = regexp.MustCompile(`^[a-z][a-z0-9+#._-]{0,31}$`)

type SubmissionService struct {
	store     SubmissionRepository
	cache     StandingsCache
	publisher EventPublisher
}

// NewSubmissionService wires the store. cache and publisher may be nil.
func NewSubmissionService(store SubmissionRepository, cache StandingsCache, publisher EventPublisher) *SubmissionService {
	return &SubmissionService{store: store, cache: cache, publisher: publisher}
}

// Submit stores the user's code as their single submission for the
// competition and returns its id. The id is stable across resubmissions.
func (s *SubmissionService) Submit(ctx context.Context, userID, competitionID int64, code, language string) (int64, error) {
	if err := checkID("user id", userID); err != nil {
		return 0, err
	}
	if err := checkID("competition id", competitionID); err != nil {
		return 0, err
	}
	if strings.TrimSpace(code) == "" {
		return 0, &ValidationError{Field: "code", Reason: "empty"}
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if !languageRe.MatchString(language) {
		return 0, &ValidationError{Field: "language", Reason: "must be a short identifier"}
	}

	id, err := s.store.UpsertSubmission(ctx, userID, competitionID, code, language)
	if err != nil {
		return 0, err
	}

	// a first submission adds a standings row
	if s.cache != nil {
		s.cache.Invalidate(ctx, competitionID)
	}

	if s.publisher != nil {
		ev := comm.SubmissionReceived{
			SubmissionID:  id,
			UserID:        userID,
			CompetitionID: competitionID,
			Language:      language,
			SubmittedAt:   time.Now().UTC(),
		}
		if err := s.publisher.PublishSubmissionReceived(ev); err != nil {
			log.Errorf("error [SubmissionService.Submit] publish submission %d: %v", id, err)
		}
	}

	return id, nil
}

// GetLatest returns nil, nil when the user has not submitted.
func (s *SubmissionService) GetLatest(ctx context.Context, userID, competitionID int64) (*models.SubmissionView, error) {
	if err := checkID("user id", userID); err != nil {
		return nil, err
	}
	if err := checkID("competition id", competitionID); err != nil {
		return nil, err
	}
	return s.store.GetLatest(ctx, userID, competitionID)
}

// ApplyStatus records a status reported by the executor.
func (s *SubmissionService) ApplyStatus(ctx context.Context, report comm.StatusReport) error {
	if err := checkID("submission id", report.SubmissionID); err != nil {
		return err
	}
	if !report.Status.Valid() {
		return &ValidationError{Field: "status", Reason: string(report.Status) + " is not a submission status"}
	}

	found, err := s.store.UpdateSubmissionStatus(ctx, report.SubmissionID, report.Status)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
