package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aidyn07/esports-arena/lifecycle"
	"github.com/Aidyn07/esports-arena/live"
	"github.com/Aidyn07/esports-arena/models"
	"github.com/Aidyn07/esports-arena/repositories"
)

// RegistrationService инкапсулирует workflow заявок: создание pending-заявки
// после проверки допуска, подтверждение по верифицированному платежу или
// решению организатора, отмену и check-in.
type RegistrationService struct {
	registrationRepo repositories.RegistrationRepository
	tournamentRepo   repositories.TournamentRepository
	paymentRepo      repositories.PaymentRepository
	userRepo         repositories.UserRepository
	teamRepo         repositories.TeamRepository
	hub              *live.Hub
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	hub *live.Hub,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
		paymentRepo:      paymentRepo,
		userRepo:         userRepo,
		teamRepo:         teamRepo,
		hub:              hub,
		logger:           logger,
	}
}

// RegisterInput — заявка на участие. TeamID обязателен для командных
// турниров и запрещён для solo.
type RegisterInput struct {
	TournamentID int
	UserID       int
	TeamID       *int
}

// Register проверяет допуск актёра и создаёт pending-заявку.
// Число confirmed-заявок запрашивается один раз и используется для всех
// производных значений этой проверки.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*models.Registration, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}

	actor := lifecycle.Actor{
		Authenticated: true,
		UserID:        user.ID,
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
		Region:        user.Region,
	}

	reg := &models.Registration{
		TournamentID: tournament.ID,
		Status:       models.RegistrationPending,
	}

	switch tournament.ParticipationMode {
	case models.ModeTeam:
		if input.TeamID == nil {
			return nil, ErrTeamRequired
		}
		team, err := s.teamRepo.GetByID(ctx, *input.TeamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to load team: %w", err)
		}
		if team.CaptainID != user.ID {
			return nil, ErrCaptainActionForbidden
		}
		actor.TeamID = &team.ID
		actor.TeamSize = team.MemberCount
		actor.Region = team.Region
		reg.TeamID = &team.ID
	default:
		if input.TeamID != nil {
			return nil, ErrSoloRequired
		}
		reg.UserID = &user.ID
	}

	confirmedCount, err := s.registrationRepo.CountByTournamentAndStatus(ctx, tournament.ID, models.RegistrationConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed registrations: %w", err)
	}

	decision := lifecycle.CanRegister(tournament, time.Now().UTC(), confirmedCount, actor)
	if !decision.Allowed {
		return nil, registerRefusalError(decision.Reason)
	}

	if err := s.ensureNotRegistered(ctx, tournament, actor); err != nil {
		return nil, err
	}

	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.logger.InfoContext(ctx, "registration created",
		slog.Int("registration_id", reg.ID),
		slog.Int("tournament_id", tournament.ID),
	)
	return reg, nil
}

func (s *RegistrationService) ensureNotRegistered(ctx context.Context, tournament *models.Tournament, actor lifecycle.Actor) error {
	var err error
	if actor.TeamID != nil {
		_, err = s.registrationRepo.FindByTeamAndTournament(ctx, *actor.TeamID, tournament.ID)
	} else {
		_, err = s.registrationRepo.FindByUserAndTournament(ctx, actor.UserID, tournament.ID)
	}
	if err == nil {
		return ErrRegistrationConflict
	}
	if errors.Is(err, repositories.ErrRegistrationNotFound) {
		return nil
	}
	return fmt.Errorf("failed to check existing registration: %w", err)
}

// registerRefusalError переводит причину отказа в сервисную ошибку
// для HTTP-маппинга.
func registerRefusalError(reason lifecycle.ReasonCode) error {
	switch reason {
	case lifecycle.ReasonNotOpen:
		return ErrRegistrationNotOpen
	case lifecycle.ReasonClosed:
		return ErrRegistrationClosed
	case lifecycle.ReasonFull:
		return ErrTournamentFull
	case lifecycle.ReasonStarted:
		return ErrTournamentStarted
	case lifecycle.ReasonCompleted:
		return ErrTournamentCompleted
	case lifecycle.ReasonTeamTooSmall, lifecycle.ReasonTeamTooLarge:
		return ErrTeamSizeOutOfBounds
	case lifecycle.ReasonEmailUnverified, lifecycle.ReasonPhoneUnverified:
		return ErrVerificationRequired
	case lifecycle.ReasonRegionRestricted:
		return ErrRegionRestricted
	default:
		return ErrForbiddenOperation
	}
}

// SubmitPayment создаёт платёж по заявке и переводит её в payment_submitted.
func (s *RegistrationService) SubmitPayment(ctx context.Context, registrationID int, amount float64) (*models.Payment, error) {
	reg, err := s.getRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status != models.RegistrationPending {
		return nil, ErrRegistrationConflict
	}

	payment := &models.Payment{
		RegistrationID: reg.ID,
		Amount:         amount,
		Status:         models.PaymentSubmitted,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	if err := s.registrationRepo.UpdateStatus(ctx, nil, reg.ID, models.RegistrationPaymentSubmitted); err != nil {
		return nil, fmt.Errorf("failed to mark payment submitted: %w", err)
	}
	return payment, nil
}

// VerifyPayment подтверждает платёж и заявку. Вызывается организатором или
// staff; после подтверждения в комнату турнира уходит live-обновление,
// потому что заполненность изменилась.
func (s *RegistrationService) VerifyPayment(ctx context.Context, paymentID, actorID int) error {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	reg, err := s.getRegistration(ctx, payment.RegistrationID)
	if err != nil {
		return err
	}
	if err := s.authorizeOrganizer(ctx, reg.TournamentID, actorID); err != nil {
		return err
	}
	if payment.Status != models.PaymentSubmitted && payment.Status != models.PaymentPending {
		return ErrPaymentNotSubmitted
	}

	if err := s.paymentRepo.UpdateStatus(ctx, nil, payment.ID, models.PaymentVerified); err != nil {
		return fmt.Errorf("failed to verify payment: %w", err)
	}
	if err := s.registrationRepo.UpdateStatus(ctx, nil, reg.ID, models.RegistrationConfirmed); err != nil {
		return fmt.Errorf("failed to confirm registration: %w", err)
	}

	s.broadcastCapacityChange(ctx, reg.TournamentID)
	return nil
}

// ApproveRegistration подтверждает заявку решением организатора, без платежа.
func (s *RegistrationService) ApproveRegistration(ctx context.Context, registrationID, actorID int) error {
	reg, err := s.getRegistration(ctx, registrationID)
	if err != nil {
		return err
	}
	if err := s.authorizeOrganizer(ctx, reg.TournamentID, actorID); err != nil {
		return err
	}
	if reg.Status == models.RegistrationCancelled {
		return ErrRegistrationNotCancelable
	}

	if err := s.registrationRepo.UpdateStatus(ctx, nil, reg.ID, models.RegistrationConfirmed); err != nil {
		return fmt.Errorf("failed to approve registration: %w", err)
	}
	s.broadcastCapacityChange(ctx, reg.TournamentID)
	return nil
}

// Cancel отменяет заявку. Разрешено самому актёру до финализации и
// организатору/staff всегда.
func (s *RegistrationService) Cancel(ctx context.Context, registrationID, actorID int) error {
	reg, err := s.getRegistration(ctx, registrationID)
	if err != nil {
		return err
	}

	if !s.isOwnRegistration(ctx, reg, actorID) {
		if err := s.authorizeOrganizer(ctx, reg.TournamentID, actorID); err != nil {
			return err
		}
	}
	if reg.Status == models.RegistrationCancelled {
		return ErrRegistrationNotCancelable
	}

	wasConfirmed := reg.Status == models.RegistrationConfirmed
	if err := s.registrationRepo.UpdateStatus(ctx, nil, reg.ID, models.RegistrationCancelled); err != nil {
		return fmt.Errorf("failed to cancel registration: %w", err)
	}
	if wasConfirmed {
		s.broadcastCapacityChange(ctx, reg.TournamentID)
	}
	return nil
}

// CheckIn отмечает явку участника. Только по собственной confirmed-заявке.
func (s *RegistrationService) CheckIn(ctx context.Context, registrationID, actorID int) error {
	reg, err := s.getRegistration(ctx, registrationID)
	if err != nil {
		return err
	}
	if !s.isOwnRegistration(ctx, reg, actorID) {
		return ErrForbiddenOperation
	}
	if reg.Status != models.RegistrationConfirmed {
		return ErrRegistrationNotConfirmed
	}
	if err := s.registrationRepo.SetCheckedIn(ctx, reg.ID); err != nil {
		return fmt.Errorf("failed to check in: %w", err)
	}
	return nil
}

func (s *RegistrationService) getRegistration(ctx context.Context, id int) (*models.Registration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}
	return reg, nil
}

func (s *RegistrationService) isOwnRegistration(ctx context.Context, reg *models.Registration, actorID int) bool {
	if reg.UserID != nil && *reg.UserID == actorID {
		return true
	}
	if reg.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *reg.TeamID)
		if err == nil && team.CaptainID == actorID {
			return true
		}
	}
	return false
}

func (s *RegistrationService) authorizeOrganizer(ctx context.Context, tournamentID, actorID int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load tournament: %w", err)
	}
	if tournament.OrganizerID == actorID {
		return nil
	}
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err == nil && actor.IsStaff() {
		return nil
	}
	return ErrForbiddenOperation
}

func (s *RegistrationService) broadcastCapacityChange(ctx context.Context, tournamentID int) {
	if s.hub == nil {
		return
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load tournament for live update", slog.Any("error", err))
		return
	}
	confirmedCount, err := s.registrationRepo.CountByTournamentAndStatus(ctx, tournamentID, models.RegistrationConfirmed)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count registrations for live update", slog.Any("error", err))
		return
	}
	projection := lifecycle.Project(tournament, time.Now().UTC(), confirmedCount, lifecycle.Actor{})
	s.hub.BroadcastToTournament(tournamentID, live.EventRegistrationUpdated, projection)
}
