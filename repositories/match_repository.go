package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Aidyn07/esports-arena/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	SetResult(ctx context.Context, id int, state models.MatchState, winnerID, loserID *int) error
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	CountByTournamentAndState(ctx context.Context, tournamentID int, state models.MatchState) (int, error)
	ListCompletedByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches (tournament_id, state, home_id, away_id, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		m.TournamentID, m.State, m.HomeID, m.AwayID, m.ScheduledAt,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, state, home_id, away_id, winner_id, loser_id, scheduled_at, created_at
		FROM matches WHERE id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.State, &m.HomeID, &m.AwayID,
		&m.WinnerID, &m.LoserID, &m.ScheduledAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) SetResult(ctx context.Context, id int, state models.MatchState, winnerID, loserID *int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matches SET state = $1, winner_id = $2, loser_id = $3 WHERE id = $4`,
		state, winnerID, loserID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set match result: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE tournament_id = $1`, tournamentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CountByTournamentAndState(ctx context.Context, tournamentID int, state models.MatchState) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND state = $2`,
		tournamentID, state).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches by state: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) ListCompletedByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `
		SELECT id, tournament_id, state, home_id, away_id, winner_id, loser_id, scheduled_at, created_at
		FROM matches
		WHERE tournament_id = $1 AND state = $2
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, models.MatchCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed matches: %w", err)
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		var m models.Match
		err := rows.Scan(
			&m.ID, &m.TournamentID, &m.State, &m.HomeID, &m.AwayID,
			&m.WinnerID, &m.LoserID, &m.ScheduledAt, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
