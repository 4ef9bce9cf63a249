package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avvvet/arena-services/internal/comm"
	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/shopspring/decimal"
)

type fakeUsers struct {
	createFn     func(user models.User) (*models.User, error)
	getByIDFn    func(id int64) (*models.User, error)
	getByEmailFn func(email string) (*models.User, error)
}

func (f *fakeUsers) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	if f.createFn == nil {
		return nil, errors.New("CreateUser not implemented")
	}
	return f.createFn(user)
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if f.getByIDFn == nil {
		return nil, errors.New("GetByID not implemented")
	}
	return f.getByIDFn(id)
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getByEmailFn == nil {
		return nil, errors.New("GetByEmail not implemented")
	}
	return f.getByEmailFn(email)
}

type fakeCompetitions struct {
	byID map[int64]*models.Competition
	err  error
}

func (f *fakeCompetitions) ListAvailable(_ context.Context, now time.Time) ([]*models.Competition, error) {
	var out []*models.Competition
	for _, c := range f.byID {
		if c.IsAvailable(now) {
			out = append(out, c)
		}
	}
	return out, f.err
}

func (f *fakeCompetitions) ListAll(_ context.Context) ([]*models.Competition, error) {
	var out []*models.Competition
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, f.err
}

func (f *fakeCompetitions) GetByID(_ context.Context, id int64) (*models.Competition, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

type fakeEnrollments struct {
	enrolled map[[2]int64]bool
}

func (f *fakeEnrollments) Enroll(_ context.Context, userID, competitionID int64) (bool, error) {
	key := [2]int64{userID, competitionID}
	if f.enrolled[key] {
		return false, nil
	}
	f.enrolled[key] = true
	return true, nil
}

func (f *fakeEnrollments) IsEnrolled(_ context.Context, userID, competitionID int64) (bool, error) {
	return f.enrolled[[2]int64{userID, competitionID}], nil
}

type fakeSubmissions struct {
	upsertFn       func(userID, competitionID int64, code, language string) (int64, error)
	getLatestFn    func(userID, competitionID int64) (*models.SubmissionView, error)
	updateStatusFn func(id int64, status models.SubmissionStatus) (bool, error)
}

func (f *fakeSubmissions) UpsertSubmission(_ context.Context, userID, competitionID int64, code, language string) (int64, error) {
	if f.upsertFn == nil {
		return 0, errors.New("UpsertSubmission not implemented")
	}
	return f.upsertFn(userID, competitionID, code, language)
}

func (f *fakeSubmissions) FindSubmission(_ context.Context, userID, competitionID int64) (*models.Submission, error) {
	return nil, errors.New("FindSubmission not implemented")
}

func (f *fakeSubmissions) GetLatest(_ context.Context, userID, competitionID int64) (*models.SubmissionView, error) {
	if f.getLatestFn == nil {
		return nil, errors.New("GetLatest not implemented")
	}
	return f.getLatestFn(userID, competitionID)
}

func (f *fakeSubmissions) UpdateSubmissionStatus(_ context.Context, id int64, status models.SubmissionStatus) (bool, error) {
	if f.updateStatusFn == nil {
		return false, errors.New("UpdateSubmissionStatus not implemented")
	}
	return f.updateStatusFn(id, status)
}

type fakeResults struct {
	calls int
	rows  []models.StandingRow
	err   error
}

func (f *fakeResults) QueryMatchStatsByCompetition(_ context.Context, competitionID int64) ([]models.StandingRow, error) {
	f.calls++
	return f.rows, f.err
}

type fakeMatches struct {
	recordFn func(competitionID int64, outcome models.Outcome, points decimal.Decimal, ids []int64) (*models.Match, error)
}

func (f *fakeMatches) RecordMatch(_ context.Context, competitionID int64, outcome models.Outcome, points decimal.Decimal, ids []int64) (*models.Match, error) {
	if f.recordFn == nil {
		return nil, errors.New("RecordMatch not implemented")
	}
	return f.recordFn(competitionID, outcome, points, ids)
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[int64][]models.StandingRow
	versions    map[int64]int64
	invalidated []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[int64][]models.StandingRow{}, versions: map[int64]int64{}}
}

func (f *fakeCache) Get(_ context.Context, competitionID int64) ([]models.StandingRow, int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.entries[competitionID]
	return rows, f.versions[competitionID], ok
}

func (f *fakeCache) Set(_ context.Context, competitionID int64, version int64, rows []models.StandingRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if version < 0 || f.versions[competitionID] != version {
		return
	}
	f.entries[competitionID] = rows
}

func (f *fakeCache) Invalidate(_ context.Context, competitionID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions[competitionID]++
	delete(f.entries, competitionID)
	f.invalidated = append(f.invalidated, competitionID)
}

type fakePublisher struct {
	events []comm.SubmissionReceived
	err    error
}

func (f *fakePublisher) PublishSubmissionReceived(ev comm.SubmissionReceived) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeListener struct {
	competitionID int64
	rows          []models.StandingRow
	calls         int
}

func (f *fakeListener) Broadcast(competitionID int64, rows []models.StandingRow) {
	f.calls++
	f.competitionID = competitionID
	f.rows = rows
}
