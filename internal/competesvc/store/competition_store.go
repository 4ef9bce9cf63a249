package store

import (
	"context"
	"errors"
	"time"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CompetitionStore struct {
	db *pgxpool.Pool
}

func NewCompetitionStore(db *pgxpool.Pool) *CompetitionStore {
	return &CompetitionStore{db: db}
}

const competitionColumns = `
	c.id, c.name, c.description, c.rules, c.start_date, c.end_date,
	c.game_id, COALESCE(g.name, ''), c.creator_id, c.active`

func scanCompetition(row pgx.Row) (*models.Competition, error) {
	c := &models.Competition{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Rules,
		&c.StartDate,
		&c.EndDate,
		&c.GameID,
		&c.GameName,
		&c.CreatorID,
		&c.Active,
	)
	return c, err
}

func (s *CompetitionStore) list(ctx context.Context, op, query string, args ...any) ([]*models.Competition, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dataAccessError(op, err)
	}
	defer rows.Close()

	competitions := []*models.Competition{}
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, dataAccessError(op, err)
		}
		competitions = append(competitions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dataAccessError(op, err)
	}

	return competitions, nil
}

// ListAvailable returns active competitions whose window contains now.
func (s *CompetitionStore) ListAvailable(ctx context.Context, now time.Time) ([]*models.Competition, error) {
	query := `
		SELECT ` + competitionColumns + `
		FROM competitions c
		LEFT JOIN games g ON c.game_id = g.id
		WHERE c.active AND c.start_date <= $1 AND c.end_date > $1
		ORDER BY c.end_date, c.id`
	return s.list(ctx, "CompetitionStore.ListAvailable", query, now)
}

func (s *CompetitionStore) ListAll(ctx context.Context) ([]*models.Competition, error) {
	query := `
		SELECT ` + competitionColumns + `
		FROM competitions c
		LEFT JOIN games g ON c.game_id = g.id
		ORDER BY c.start_date DESC, c.id`
	return s.list(ctx, "CompetitionStore.ListAll", query)
}

// ListEndedOn returns competitions whose end date falls on the calendar
// day of day, in day's location.
func (s *CompetitionStore) ListEndedOn(ctx context.Context, day time.Time) ([]*models.Competition, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	query := `
		SELECT ` + competitionColumns + `
		FROM competitions c
		LEFT JOIN games g ON c.game_id = g.id
		WHERE c.end_date >= $1 AND c.end_date < $2
		ORDER BY c.id`
	return s.list(ctx, "CompetitionStore.ListEndedOn", query, from, to)
}

// GetByID returns nil, nil when the competition does not exist.
func (s *CompetitionStore) GetByID(ctx context.Context, id int64) (*models.Competition, error) {
	query := `
		SELECT ` + competitionColumns + `
		FROM competitions c
		LEFT JOIN games g ON c.game_id = g.id
		WHERE c.id = $1`

	c, err := scanCompetition(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dataAccessError("CompetitionStore.GetByID", err)
	}
	return c, nil
}
