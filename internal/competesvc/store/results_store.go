package store

import (
	"context"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResultsStore struct {
	db *pgxpool.Pool
}

func NewResultsStore(db *pgxpool.Pool) *ResultsStore {
	return &ResultsStore{db: db}
}

// QueryMatchStatsByCompetition aggregates the matches of every user with a
// submission in the competition. Users enrolled without a submission do not
// get a row. Pending matches count for nothing.
// Ordered by total points, then wins, then user id.
func (s *ResultsStore) QueryMatchStatsByCompetition(ctx context.Context, competitionID int64) ([]models.StandingRow, error) {
	query := `
		SELECT
		    u.id,
		    u.name,
		    COUNT(m.id) FILTER (WHERE m.outcome = 'winner' AND m.winner_id = u.id) AS wins,
		    COUNT(m.id) FILTER (WHERE m.outcome = 'draw') AS draws,
		    COUNT(m.id) FILTER (WHERE m.outcome = 'winner' AND m.winner_id <> u.id) AS losses,
		    COALESCE(SUM(m.points) FILTER (WHERE m.outcome <> 'pending'), 0) AS total_points
		FROM submissions s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN match_submissions ms ON ms.submission_id = s.id
		LEFT JOIN matches m ON m.id = ms.match_id
		WHERE s.competition_id = $1
		GROUP BY u.id, u.name
		ORDER BY total_points DESC, wins DESC, u.id ASC`

	rows, err := s.db.Query(ctx, query, competitionID)
	if err != nil {
		return nil, dataAccessError("ResultsStore.QueryMatchStatsByCompetition", err)
	}
	defer rows.Close()

	standings := []models.StandingRow{}
	for rows.Next() {
		var r models.StandingRow
		if err := rows.Scan(&r.UserID, &r.Name, &r.Wins, &r.Draws, &r.Losses, &r.TotalPoints); err != nil {
			return nil, dataAccessError("ResultsStore.QueryMatchStatsByCompetition", err)
		}
		standings = append(standings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, dataAccessError("ResultsStore.QueryMatchStatsByCompetition", err)
	}

	return standings, nil
}
