package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Aidyn07/esports-arena/lifecycle"
	"github.com/Aidyn07/esports-arena/live"
	"github.com/Aidyn07/esports-arena/models"
	"github.com/Aidyn07/esports-arena/repositories"
	"github.com/Aidyn07/esports-arena/storage"
)

// TournamentService управляет турнирами и отдаёт проекцию состояния
// регистрации для публичных страниц.
type TournamentService struct {
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	userRepo         repositories.UserRepository
	uploader         storage.FileUploader
	hub              *live.Hub
	logger           *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		uploader:         uploader,
		hub:              hub,
		logger:           logger,
	}
}

type CreateTournamentInput struct {
	Name                 string
	Description          *string
	GameID               int
	StartAt              *time.Time
	RegistrationOpensAt  *time.Time
	RegistrationClosesAt *time.Time
	CapacityLimit        int
	ParticipationMode    models.ParticipationMode
	MinTeamSize          int
	MaxTeamSize          int
	RequireVerifiedEmail bool
	AllowedRegions       []string
	EntryFee             float64
}

// Create создаёт турнир в статусе draft. Инвертированное окно отклоняется
// на входе: ядро его переживёт, но организатору такая конфигурация не нужна.
func (s *TournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.CapacityLimit < 0 {
		return nil, ErrTournamentInvalidCapacity
	}
	if input.RegistrationOpensAt != nil && input.RegistrationClosesAt != nil &&
		input.RegistrationOpensAt.After(*input.RegistrationClosesAt) {
		return nil, ErrTournamentInvalidWindow
	}

	mode := input.ParticipationMode
	if mode == "" {
		mode = models.ModeSolo
	}

	tournament := &models.Tournament{
		Name:                 input.Name,
		Description:          input.Description,
		GameID:               input.GameID,
		OrganizerID:          organizerID,
		Status:               models.StatusDraft,
		StartAt:              input.StartAt,
		RegistrationOpensAt:  input.RegistrationOpensAt,
		RegistrationClosesAt: input.RegistrationClosesAt,
		CapacityLimit:        input.CapacityLimit,
		ParticipationMode:    mode,
		MinTeamSize:          input.MinTeamSize,
		MaxTeamSize:          input.MaxTeamSize,
		RequireVerifiedEmail: input.RequireVerifiedEmail,
		AllowedRegions:       input.AllowedRegions,
		EntryFee:             input.EntryFee,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *TournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	s.populateBannerURL(tournament)
	return tournament, nil
}

func (s *TournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		s.populateBannerURL(&tournaments[i])
	}
	return tournaments, nil
}

// UpdateStatus меняет статус по запросу организатора, с проверкой допустимых
// переходов.
func (s *TournamentService) UpdateStatus(ctx context.Context, tournamentID, actorID int, next models.TournamentStatus) error {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if err := s.authorizeOrganizer(ctx, tournament, actorID); err != nil {
		return err
	}
	if !isValidStatusTransition(tournament.Status, next) {
		return ErrTournamentInvalidStatus
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, nil, tournamentID, next); err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}
	s.broadcastStatus(ctx, tournamentID)
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusDraft:              {models.StatusPublished, models.StatusCancelled},
		models.StatusPublished:          {models.StatusRegistrationOpen, models.StatusCancelled},
		models.StatusRegistrationOpen:   {models.StatusRegistrationClosed, models.StatusLive, models.StatusCancelled},
		models.StatusRegistrationClosed: {models.StatusLive, models.StatusCancelled},
		models.StatusLive:               {models.StatusCompleted, models.StatusCancelled},
		models.StatusCompleted:          {models.StatusArchived},
		models.StatusCancelled:          {models.StatusArchived},
		models.StatusArchived:           {},
	}
	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

// GetRegistrationStatus возвращает проекцию состояния регистрации.
// Счётчик confirmed-заявок запрашивается один раз; фаза, состояние,
// слоты и решение о допуске считаются от одного снимка.
func (s *TournamentService) GetRegistrationStatus(ctx context.Context, tournamentID int, actor lifecycle.Actor) (lifecycle.StatusProjection, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return lifecycle.StatusProjection{}, ErrTournamentNotFound
		}
		return lifecycle.StatusProjection{}, fmt.Errorf("failed to load tournament: %w", err)
	}

	confirmedCount, err := s.registrationRepo.CountByTournamentAndStatus(ctx, tournamentID, models.RegistrationConfirmed)
	if err != nil {
		return lifecycle.StatusProjection{}, fmt.Errorf("failed to count confirmed registrations: %w", err)
	}

	return lifecycle.Project(tournament, time.Now().UTC(), confirmedCount, actor), nil
}

// UploadBanner загружает баннер турнира в объектное хранилище и обновляет
// ключ. Старый баннер удаляется по возможности; ошибка удаления не фатальна.
func (s *TournamentService) UploadBanner(ctx context.Context, tournamentID, actorID int, file io.Reader, contentType string) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrganizer(ctx, tournament, actorID); err != nil {
		return nil, err
	}

	ext, err := storage.ExtensionForContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("tournaments/%d/banner%s", tournamentID, ext)
	if _, err := s.uploader.Upload(ctx, key, file, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload banner: %w", err)
	}

	oldKey := tournament.BannerKey
	if err := s.tournamentRepo.UpdateBannerKey(ctx, tournamentID, &key); err != nil {
		return nil, fmt.Errorf("failed to store banner key: %w", err)
	}
	if oldKey != nil && *oldKey != key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous banner",
				slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	tournament.BannerKey = &key
	s.populateBannerURL(tournament)
	return tournament, nil
}

// AutoUpdateStatusesByDates продвигает статусы турниров по наступившим
// датам: published → registration_open, registration_open →
// registration_closed, и любой допускающий статус → live на дате старта.
// Вызывается планировщиком из main.
func (s *TournamentService) AutoUpdateStatusesByDates(ctx context.Context) error {
	now := time.Now().UTC()
	due, err := s.tournamentRepo.GetDueForStatusUpdate(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to query tournaments due for update: %w", err)
	}

	for _, t := range due {
		next := nextStatusByDates(t, now)
		if next == t.Status {
			continue
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, next); err != nil {
			s.logger.ErrorContext(ctx, "failed to auto-update tournament status",
				slog.Int("tournament_id", t.ID),
				slog.String("next_status", string(next)),
				slog.Any("error", err))
			continue
		}
		s.logger.InfoContext(ctx, "tournament status auto-updated",
			slog.Int("tournament_id", t.ID),
			slog.String("from", string(t.Status)),
			slog.String("to", string(next)))
		s.broadcastStatus(ctx, t.ID)
	}
	return nil
}

func nextStatusByDates(t *models.Tournament, now time.Time) models.TournamentStatus {
	// Старт имеет приоритет: турнир, чья дата старта прошла, становится
	// live независимо от окна регистрации.
	if t.StartAt != nil && !now.Before(*t.StartAt) {
		return models.StatusLive
	}
	switch t.Status {
	case models.StatusPublished:
		if t.RegistrationOpensAt != nil && !now.Before(*t.RegistrationOpensAt) {
			return models.StatusRegistrationOpen
		}
	case models.StatusRegistrationOpen:
		if t.RegistrationClosesAt != nil && now.After(*t.RegistrationClosesAt) {
			return models.StatusRegistrationClosed
		}
	}
	return t.Status
}

func (s *TournamentService) authorizeOrganizer(ctx context.Context, tournament *models.Tournament, actorID int) error {
	if tournament.OrganizerID == actorID {
		return nil
	}
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err == nil && actor.IsStaff() {
		return nil
	}
	return ErrForbiddenOperation
}

func (s *TournamentService) populateBannerURL(t *models.Tournament) {
	if t.BannerKey == nil || *t.BannerKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*t.BannerKey); url != "" {
		t.BannerURL = &url
	}
}

func (s *TournamentService) broadcastStatus(ctx context.Context, tournamentID int) {
	if s.hub == nil {
		return
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return
	}
	confirmedCount, err := s.registrationRepo.CountByTournamentAndStatus(ctx, tournamentID, models.RegistrationConfirmed)
	if err != nil {
		return
	}
	projection := lifecycle.Project(tournament, time.Now().UTC(), confirmedCount, lifecycle.Actor{})
	s.hub.BroadcastToTournament(tournamentID, live.EventStatusChanged, projection)
}
