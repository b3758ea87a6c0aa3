package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Aidyn07/esports-arena/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
	ErrTournamentInvalidGame  = errors.New("invalid game reference")
	ErrTournamentInvalidOrg   = errors.New("invalid organizer reference")
)

type ListTournamentsFilter struct {
	GameID      *int
	OrganizerID *int
	Status      *models.TournamentStatus
	Limit       int
	Offset      int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateBannerKey(ctx context.Context, id int, bannerKey *string) error
	SoftDelete(ctx context.Context, id int) error
	CountByOrganizer(ctx context.Context, organizerID int, statuses []models.TournamentStatus) (int, error)
	GetDueForStatusUpdate(ctx context.Context, now time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `
	id, name, description, game_id, organizer_id, status,
	start_at, registration_opens_at, registration_closes_at,
	capacity_limit, participation_mode, min_team_size, max_team_size,
	require_verified_email, allowed_regions, entry_fee,
	banner_key, created_at, deleted_at`

func scanTournament(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.GameID, &t.OrganizerID, &t.Status,
		&t.StartAt, &t.RegistrationOpensAt, &t.RegistrationClosesAt,
		&t.CapacityLimit, &t.ParticipationMode, &t.MinTeamSize, &t.MaxTeamSize,
		&t.RequireVerifiedEmail, pq.Array(&t.AllowedRegions), &t.EntryFee,
		&t.BannerKey, &t.CreatedAt, &t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, description, game_id, organizer_id, status,
			start_at, registration_opens_at, registration_closes_at,
			capacity_limit, participation_mode, min_team_size, max_team_size,
			require_verified_email, allowed_regions, entry_fee, banner_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.GameID, t.OrganizerID, t.Status,
		t.StartAt, t.RegistrationOpensAt, t.RegistrationClosesAt,
		t.CapacityLimit, t.ParticipationMode, t.MinTeamSize, t.MaxTeamSize,
		t.RequireVerifiedEmail, pq.Array(t.AllowedRegions), t.EntryFee, t.BannerKey,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + `
		FROM tournaments
		WHERE id = $1 AND deleted_at IS NULL`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT` + tournamentColumns + `
		FROM tournaments
		WHERE deleted_at IS NULL`

	args := []interface{}{}
	argID := 1

	if filter.GameID != nil {
		query += fmt.Sprintf(" AND game_id = $%d", argID)
		args = append(args, *filter.GameID)
		argID++
	}
	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY start_at DESC NULLS LAST, created_at DESC"

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
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := []models.Tournament{}
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1, description = $2, game_id = $3, status = $4,
			start_at = $5, registration_opens_at = $6, registration_closes_at = $7,
			capacity_limit = $8, participation_mode = $9, min_team_size = $10,
			max_team_size = $11, require_verified_email = $12, allowed_regions = $13,
			entry_fee = $14
		WHERE id = $15 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.GameID, t.Status,
		t.StartAt, t.RegistrationOpensAt, t.RegistrationClosesAt,
		t.CapacityLimit, t.ParticipationMode, t.MinTeamSize,
		t.MaxTeamSize, t.RequireVerifiedEmail, pq.Array(t.AllowedRegions),
		t.EntryFee, t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE tournaments SET status = $1 WHERE id = $2 AND deleted_at IS NULL`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateBannerKey(ctx context.Context, id int, bannerKey *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET banner_key = $1 WHERE id = $2 AND deleted_at IS NULL`,
		bannerKey, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament banner: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SoftDelete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// CountByOrganizer считает неудалённые турниры организатора; statuses == nil
// означает «все статусы».
func (r *postgresTournamentRepository) CountByOrganizer(ctx context.Context, organizerID int, statuses []models.TournamentStatus) (int, error) {
	query := `SELECT COUNT(*) FROM tournaments WHERE organizer_id = $1 AND deleted_at IS NULL`
	args := []interface{}{organizerID}

	if len(statuses) > 0 {
		strs := make([]string, len(statuses))
		for i, s := range statuses {
			strs[i] = string(s)
		}
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(strs))
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return count, nil
}

// GetDueForStatusUpdate выбирает турниры, чей статус пора продвинуть по
// датам: опубликованные с наступившим открытием окна, открытые с прошедшим
// закрытием, и любые достигшие даты старта.
func (r *postgresTournamentRepository) GetDueForStatusUpdate(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + `
		FROM tournaments
		WHERE deleted_at IS NULL AND (
			(status = $1 AND registration_opens_at IS NOT NULL AND registration_opens_at <= $4) OR
			(status = $2 AND registration_closes_at IS NOT NULL AND registration_closes_at <= $4) OR
			(status IN ($1, $2, $3) AND start_at IS NOT NULL AND start_at <= $4)
		)
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query,
		models.StatusPublished, models.StatusRegistrationOpen, models.StatusRegistrationClosed, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments due for status update: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "tournaments_organizer_id_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "tournaments_game_id_fkey":
				return ErrTournamentInvalidGame
			case "tournaments_organizer_id_fkey":
				return ErrTournamentInvalidOrg
			}
		}
	}
	return fmt.Errorf("tournament repository error: %w", err)
}
