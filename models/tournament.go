package models

import "time"

// TournamentStatus представляет статусы жизненного цикла турнира, соответствующие ENUM в БД.
// Статус выставляется внешним workflow (организатор/планировщик), ядро его только читает.
type TournamentStatus string

const (
	StatusDraft              TournamentStatus = "draft"
	StatusPublished          TournamentStatus = "published"
	StatusRegistrationOpen   TournamentStatus = "registration_open"
	StatusRegistrationClosed TournamentStatus = "registration_closed"
	StatusLive               TournamentStatus = "live"
	StatusCompleted          TournamentStatus = "completed"
	StatusCancelled          TournamentStatus = "cancelled"
	StatusArchived           TournamentStatus = "archived"
)

// ParticipationMode определяет, кто регистрируется: отдельный игрок или команда.
type ParticipationMode string

const (
	ModeSolo ParticipationMode = "solo"
	ModeTeam ParticipationMode = "team"
)

// Tournament представляет турнир.
type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description *string          `json:"description,omitempty" db:"description"`
	GameID      int              `json:"game_id" db:"game_id"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	Status      TournamentStatus `json:"status" db:"status"`

	// Все три даты опциональны: турнир может существовать без явного окна
	// регистрации и даже без даты старта.
	StartAt              *time.Time `json:"start_at,omitempty" db:"start_at"`
	RegistrationOpensAt  *time.Time `json:"registration_opens_at,omitempty" db:"registration_opens_at"`
	RegistrationClosesAt *time.Time `json:"registration_closes_at,omitempty" db:"registration_closes_at"`

	// CapacityLimit <= 0 означает отсутствие лимита участников.
	CapacityLimit     int               `json:"capacity_limit" db:"capacity_limit"`
	ParticipationMode ParticipationMode `json:"participation_mode" db:"participation_mode"`
	MinTeamSize       int               `json:"min_team_size" db:"min_team_size"`
	MaxTeamSize       int               `json:"max_team_size" db:"max_team_size"`

	RequireVerifiedEmail bool     `json:"require_verified_email" db:"require_verified_email"`
	AllowedRegions       []string `json:"allowed_regions,omitempty" db:"allowed_regions"`

	EntryFee  float64    `json:"entry_fee" db:"entry_fee"`
	BannerKey *string    `json:"-" db:"banner_key"`
	BannerURL *string    `json:"banner_url,omitempty" db:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// IsDeleted сообщает, удалён ли турнир мягким удалением.
func (t *Tournament) IsDeleted() bool {
	return t.DeletedAt != nil
}
