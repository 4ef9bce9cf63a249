package service

import (
	"context"

	"github.com/avvvet/arena-services/internal/comm"
	"github.com/avvvet/arena-services/internal/competesvc/models"
	log "github.com/sirupsen/logrus"
)

type ResultsService struct {
	results  ResultsRepository
	matches  MatchRepository
	cache    StandingsCache
	listener StandingsListener
}

// NewResultsService wires the stores. cache and listener may be nil.
func NewResultsService(results ResultsRepository, matches MatchRepository, cache StandingsCache, listener StandingsListener) *ResultsService {
	return &ResultsService{results: results, matches: matches, cache: cache, listener: listener}
}

// ComputeStandings returns the competition's standings, best first.
// A competition without submissions yields an empty, non-nil slice.
func (s *ResultsService) ComputeStandings(ctx context.Context, competitionID int64) ([]models.StandingRow, error) {
	if err := checkID("competition id", competitionID); err != nil {
		return nil, err
	}

	version := int64(-1)
	if s.cache != nil {
		rows, v, ok := s.cache.Get(ctx, competitionID)
		if ok {
			return rows, nil
		}
		version = v
	}

	rows, err := s.results.QueryMatchStatsByCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.StandingRow{}
	}

	if s.cache != nil {
		s.cache.Set(ctx, competitionID, version, rows)
	}
	return rows, nil
}

// RecordMatch stores a finished match and pushes the new standings to
// live listeners.
func (s *ResultsService) RecordMatch(ctx context.Context, report comm.MatchReport) (*models.Match, error) {
	if err := checkID("competition id", report.CompetitionID); err != nil {
		return nil, err
	}
	if err := report.Outcome.Validate(); err != nil {
		return nil, &ValidationError{Field: "outcome", Reason: err.Error()}
	}
	if len(report.SubmissionIDs) == 0 {
		return nil, &ValidationError{Field: "submission ids", Reason: "missing"}
	}

	m, err := s.matches.RecordMatch(ctx, report.CompetitionID, report.Outcome, report.Points, report.SubmissionIDs)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, report.CompetitionID)
	}

	if s.listener != nil {
		rows, err := s.ComputeStandings(ctx, report.CompetitionID)
		if err != nil {
			log.Errorf("error [ResultsService.RecordMatch] refresh standings for competition %d: %v", report.CompetitionID, err)
			return m, nil
		}
		s.listener.Broadcast(report.CompetitionID, rows)
	}

	return m, nil
}
