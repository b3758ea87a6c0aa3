package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Aidyn07/esports-arena/models"
	"github.com/lib/pq"
)

var (
	ErrPaymentNotFound            = errors.New("payment not found")
	ErrPaymentRegistrationInvalid = errors.New("invalid registration reference for payment")
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id int) (*models.Payment, error)
	GetByRegistrationID(ctx context.Context, registrationID int) (*models.Payment, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PaymentStatus) error
	CountByTournamentAndStatuses(ctx context.Context, tournamentID int, statuses []models.PaymentStatus) (int, error)
	CountByOrganizerAndStatuses(ctx context.Context, organizerID int, statuses []models.PaymentStatus) (int, error)
	SumVerifiedByOrganizer(ctx context.Context, organizerID int) (float64, error)
}

type postgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

func (r *postgresPaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (registration_id, amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, p.RegistrationID, p.Amount, p.Status).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrPaymentRegistrationInvalid
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *postgresPaymentRepository) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, registration_id, amount, status, created_at FROM payments WHERE id = $1`, id))
}

func (r *postgresPaymentRepository) GetByRegistrationID(ctx context.Context, registrationID int) (*models.Payment, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, registration_id, amount, status, created_at FROM payments WHERE registration_id = $1`, registrationID))
}

func (r *postgresPaymentRepository) scanOne(row *sql.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(&p.ID, &p.RegistrationID, &p.Amount, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPaymentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PaymentStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE payments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return checkAffectedRows(result, ErrPaymentNotFound)
}

func statusesToStrings(statuses []models.PaymentStatus) []string {
	strs := make([]string, len(statuses))
	for i, s := range statuses {
		strs[i] = string(s)
	}
	return strs
}

func (r *postgresPaymentRepository) CountByTournamentAndStatuses(ctx context.Context, tournamentID int, statuses []models.PaymentStatus) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM payments p
		JOIN registrations r ON r.id = p.registration_id
		WHERE r.tournament_id = $1 AND p.status = ANY($2)`

	var count int
	err := r.db.QueryRowContext(ctx, query, tournamentID, pq.Array(statusesToStrings(statuses))).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tournament payments: %w", err)
	}
	return count, nil
}

func (r *postgresPaymentRepository) CountByOrganizerAndStatuses(ctx context.Context, organizerID int, statuses []models.PaymentStatus) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM payments p
		JOIN registrations r ON r.id = p.registration_id
		JOIN tournaments t ON t.id = r.tournament_id
		WHERE t.organizer_id = $1 AND t.deleted_at IS NULL AND p.status = ANY($2)`

	var count int
	err := r.db.QueryRowContext(ctx, query, organizerID, pq.Array(statusesToStrings(statuses))).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count organizer payments: %w", err)
	}
	return count, nil
}

// SumVerifiedByOrganizer возвращает подтверждённую выручку организатора.
// COALESCE гарантирует 0 вместо NULL при отсутствии платежей.
func (r *postgresPaymentRepository) SumVerifiedByOrganizer(ctx context.Context, organizerID int) (float64, error) {
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN registrations r ON r.id = p.registration_id
		JOIN tournaments t ON t.id = r.tournament_id
		WHERE t.organizer_id = $1 AND t.deleted_at IS NULL AND p.status = $2`

	var sum float64
	err := r.db.QueryRowContext(ctx, query, organizerID, models.PaymentVerified).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum organizer revenue: %w", err)
	}
	return sum, nil
}
