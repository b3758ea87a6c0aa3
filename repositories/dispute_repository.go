package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Aidyn07/esports-arena/models"
	"github.com/lib/pq"
)

var ErrDisputeNotFound = errors.New("dispute not found")

type DisputeRepository interface {
	Create(ctx context.Context, dispute *models.Dispute) error
	UpdateStatus(ctx context.Context, id int, status models.DisputeStatus) error
	CountByTournamentAndStatuses(ctx context.Context, tournamentID int, statuses []models.DisputeStatus) (int, error)
	CountByOrganizerAndStatuses(ctx context.Context, organizerID int, statuses []models.DisputeStatus) (int, error)
}

type postgresDisputeRepository struct {
	db *sql.DB
}

func NewPostgresDisputeRepository(db *sql.DB) DisputeRepository {
	return &postgresDisputeRepository{db: db}
}

func (r *postgresDisputeRepository) Create(ctx context.Context, d *models.Dispute) error {
	query := `
		INSERT INTO disputes (match_id, status)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, d.MatchID, d.Status).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dispute: %w", err)
	}
	return nil
}

func (r *postgresDisputeRepository) UpdateStatus(ctx context.Context, id int, status models.DisputeStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE disputes SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update dispute status: %w", err)
	}
	return checkAffectedRows(result, ErrDisputeNotFound)
}

func disputeStatusesToStrings(statuses []models.DisputeStatus) []string {
	strs := make([]string, len(statuses))
	for i, s := range statuses {
		strs[i] = string(s)
	}
	return strs
}

func (r *postgresDisputeRepository) CountByTournamentAndStatuses(ctx context.Context, tournamentID int, statuses []models.DisputeStatus) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM disputes d
		JOIN matches m ON m.id = d.match_id
		WHERE m.tournament_id = $1 AND d.status = ANY($2)`

	var count int
	err := r.db.QueryRowContext(ctx, query, tournamentID, pq.Array(disputeStatusesToStrings(statuses))).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tournament disputes: %w", err)
	}
	return count, nil
}

func (r *postgresDisputeRepository) CountByOrganizerAndStatuses(ctx context.Context, organizerID int, statuses []models.DisputeStatus) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM disputes d
		JOIN matches m ON m.id = d.match_id
		JOIN tournaments t ON t.id = m.tournament_id
		WHERE t.organizer_id = $1 AND t.deleted_at IS NULL AND d.status = ANY($2)`

	var count int
	err := r.db.QueryRowContext(ctx, query, organizerID, pq.Array(disputeStatusesToStrings(statuses))).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count organizer disputes: %w", err)
	}
	return count, nil
}
