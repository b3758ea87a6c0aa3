package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Aidyn07/esports-arena/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

// GetByID читает команду вместе с актуальным числом участников. Ростер
// ведёт отдельная подсистема, здесь он только подсчитывается.
func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT t.id, t.name, t.captain_id, t.region, COUNT(m.user_id), t.created_at
		FROM teams t
		LEFT JOIN team_members m ON m.team_id = t.id
		WHERE t.id = $1
		GROUP BY t.id`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.CaptainID, &team.Region, &team.MemberCount, &team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}
