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
	ErrRegistrationNotFound      = errors.New("registration not found")
	ErrRegistrationConflict      = errors.New("registration conflict: user or team already registered for this tournament")
	ErrRegistrationActorInvalid  = errors.New("registration actor conflict or invalid")
	ErrRegistrationTypeViolation = errors.New("registration type violation: either user_id or team_id must be set, but not both")
)

// ParticipantListFilter — фильтры и пагинация для выборки заявок турнира.
// Отбираются только confirmed-заявки: разбивка участников — это список тех,
// кто реально участвует.
type ParticipantListFilter struct {
	PaymentStatus *models.PaymentStatus
	CheckedIn     *bool
	OrderDesc     bool
	Limit         int
	Offset        int
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	FindByUserAndTournament(ctx context.Context, userID, tournamentID int) (*models.Registration, error)
	FindByTeamAndTournament(ctx context.Context, teamID, tournamentID int) (*models.Registration, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RegistrationStatus) error
	SetCheckedIn(ctx context.Context, id int) error
	CountByTournamentAndStatus(ctx context.Context, tournamentID int, status models.RegistrationStatus) (int, error)
	CountConfirmedByOrganizer(ctx context.Context, organizerID int) (int, error)
	ListConfirmedWithPayments(ctx context.Context, tournamentID int, filter ParticipantListFilter) ([]models.RegistrationWithPayment, error)
	CountConfirmedWithPayments(ctx context.Context, tournamentID int, filter ParticipantListFilter) (int, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (tournament_id, user_id, team_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.TournamentID, reg.UserID, reg.TeamID, reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrRegistrationConflict
			case "23503": // foreign_key_violation
				return ErrRegistrationActorInvalid
			case "23514": // check_violation
				if pqErr.Constraint == "chk_registration_actor" {
					return ErrRegistrationTypeViolation
				}
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	query := `
		SELECT id, tournament_id, user_id, team_id, status, checked_in_at, created_at
		FROM registrations
		WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRegistrationRepository) FindByUserAndTournament(ctx context.Context, userID, tournamentID int) (*models.Registration, error) {
	query := `
		SELECT id, tournament_id, user_id, team_id, status, checked_in_at, created_at
		FROM registrations
		WHERE user_id = $1 AND tournament_id = $2 AND status != $3`

	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, tournamentID, models.RegistrationCancelled))
}

func (r *postgresRegistrationRepository) FindByTeamAndTournament(ctx context.Context, teamID, tournamentID int) (*models.Registration, error) {
	query := `
		SELECT id, tournament_id, user_id, team_id, status, checked_in_at, created_at
		FROM registrations
		WHERE team_id = $1 AND tournament_id = $2 AND status != $3`

	return r.scanOne(r.db.QueryRowContext(ctx, query, teamID, tournamentID, models.RegistrationCancelled))
}

func (r *postgresRegistrationRepository) scanOne(row *sql.Row) (*models.Registration, error) {
	reg := &models.Registration{}
	err := row.Scan(
		&reg.ID, &reg.TournamentID, &reg.UserID, &reg.TeamID,
		&reg.Status, &reg.CheckedInAt, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RegistrationStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE registrations SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) SetCheckedIn(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET checked_in_at = NOW() WHERE id = $1 AND checked_in_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to set registration check-in: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) CountByTournamentAndStatus(ctx context.Context, tournamentID int, status models.RegistrationStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE tournament_id = $1 AND status = $2`,
		tournamentID, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (r *postgresRegistrationRepository) CountConfirmedByOrganizer(ctx context.Context, organizerID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations r
		JOIN tournaments t ON t.id = r.tournament_id
		WHERE t.organizer_id = $1 AND t.deleted_at IS NULL AND r.status = $2`

	var count int
	err := r.db.QueryRowContext(ctx, query, organizerID, models.RegistrationConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count organizer participants: %w", err)
	}
	return count, nil
}

func participantFilterClauses(tournamentID int, filter ParticipantListFilter) (string, []interface{}) {
	where := ` WHERE r.tournament_id = $1 AND r.status = $2`
	args := []interface{}{tournamentID, models.RegistrationConfirmed}
	argID := 3

	if filter.PaymentStatus != nil {
		where += fmt.Sprintf(" AND p.status = $%d", argID)
		args = append(args, *filter.PaymentStatus)
		argID++
	}
	if filter.CheckedIn != nil {
		if *filter.CheckedIn {
			where += " AND r.checked_in_at IS NOT NULL"
		} else {
			where += " AND r.checked_in_at IS NULL"
		}
	}
	return where, args
}

func (r *postgresRegistrationRepository) ListConfirmedWithPayments(ctx context.Context, tournamentID int, filter ParticipantListFilter) ([]models.RegistrationWithPayment, error) {
	query := `
		SELECT r.id, r.tournament_id, r.user_id, r.team_id, r.status, r.checked_in_at, r.created_at, p.status
		FROM registrations r
		LEFT JOIN payments p ON p.registration_id = r.id`

	where, args := participantFilterClauses(tournamentID, filter)
	query += where

	if filter.OrderDesc {
		query += " ORDER BY r.created_at DESC, r.id DESC"
	} else {
		query += " ORDER BY r.created_at ASC, r.id ASC"
	}

	argID := len(args) + 1
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	results := []models.RegistrationWithPayment{}
	for rows.Next() {
		var row models.RegistrationWithPayment
		err := rows.Scan(
			&row.ID, &row.TournamentID, &row.UserID, &row.TeamID,
			&row.Status, &row.CheckedInAt, &row.CreatedAt, &row.PaymentStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// CountConfirmedWithPayments считает строки под теми же фильтрами, что и
// ListConfirmedWithPayments, но без пагинации — для корректного пейджера.
func (r *postgresRegistrationRepository) CountConfirmedWithPayments(ctx context.Context, tournamentID int, filter ParticipantListFilter) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations r
		LEFT JOIN payments p ON p.registration_id = r.id`

	where, args := participantFilterClauses(tournamentID, filter)
	query += where

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}
