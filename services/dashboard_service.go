package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Aidyn07/esports-arena/lifecycle"
	"github.com/Aidyn07/esports-arena/models"
	"github.com/Aidyn07/esports-arena/repositories"
	"golang.org/x/sync/errgroup"
)

// DashboardService — read-model для организаторов и staff. Все запросы
// пересчитывают результат из текущих персистентных фактов на момент вызова;
// никакого состояния между вызовами сервис не держит.
type DashboardService interface {
	GetOrganizerStats(ctx context.Context, organizerID int) (models.OrganizerStats, error)
	GetTournamentHealth(ctx context.Context, tournamentID, actorID int) (models.TournamentHealth, error)
	GetParticipantBreakdown(ctx context.Context, tournamentID, actorID int, filter ParticipantBreakdownFilter) (models.ParticipantBreakdown, error)
}

// ParticipantBreakdownFilter — фильтры и пагинация разбивки участников.
type ParticipantBreakdownFilter struct {
	PaymentStatus *models.PaymentStatus
	CheckedIn     *bool
	OrderDesc     bool
	Limit         int
	Offset        int
}

type dashboardService struct {
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	paymentRepo      repositories.PaymentRepository
	matchRepo        repositories.MatchRepository
	disputeRepo      repositories.DisputeRepository
	userRepo         repositories.UserRepository
}

func NewDashboardService(
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	paymentRepo repositories.PaymentRepository,
	matchRepo repositories.MatchRepository,
	disputeRepo repositories.DisputeRepository,
	userRepo repositories.UserRepository,
) DashboardService {
	return &dashboardService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		paymentRepo:      paymentRepo,
		matchRepo:        matchRepo,
		disputeRepo:      disputeRepo,
		userRepo:         userRepo,
	}
}

// GetOrganizerStats собирает сводку по всем неудалённым турнирам
// организатора. Для организатора без турниров возвращается нулевая
// структура, не ошибка. Независимые агрегаты выполняются параллельно.
func (s *dashboardService) GetOrganizerStats(ctx context.Context, organizerID int) (models.OrganizerStats, error) {
	var stats models.OrganizerStats

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.tournamentRepo.CountByOrganizer(gctx, organizerID, nil)
		if err != nil {
			return fmt.Errorf("total tournaments: %w", err)
		}
		stats.TotalTournaments = count
		return nil
	})
	g.Go(func() error {
		count, err := s.tournamentRepo.CountByOrganizer(gctx, organizerID, []models.TournamentStatus{
			models.StatusRegistrationOpen, models.StatusLive,
		})
		if err != nil {
			return fmt.Errorf("active tournaments: %w", err)
		}
		stats.ActiveTournaments = count
		return nil
	})
	g.Go(func() error {
		count, err := s.registrationRepo.CountConfirmedByOrganizer(gctx, organizerID)
		if err != nil {
			return fmt.Errorf("total participants: %w", err)
		}
		stats.TotalParticipants = count
		return nil
	})
	g.Go(func() error {
		sum, err := s.paymentRepo.SumVerifiedByOrganizer(gctx, organizerID)
		if err != nil {
			return fmt.Errorf("total revenue: %w", err)
		}
		stats.TotalRevenue = sum
		return nil
	})
	g.Go(func() error {
		count, err := s.paymentRepo.CountByOrganizerAndStatuses(gctx, organizerID, []models.PaymentStatus{
			models.PaymentPending, models.PaymentSubmitted,
		})
		if err != nil {
			return fmt.Errorf("pending payments: %w", err)
		}
		stats.PendingActions.PendingPayments = count
		return nil
	})
	g.Go(func() error {
		count, err := s.disputeRepo.CountByOrganizerAndStatuses(gctx, organizerID, []models.DisputeStatus{
			models.DisputeOpen, models.DisputeUnderReview,
		})
		if err != nil {
			return fmt.Errorf("open disputes: %w", err)
		}
		stats.PendingActions.OpenDisputes = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.OrganizerStats{}, fmt.Errorf("organizer stats for %d: %w", organizerID, err)
	}
	return stats, nil
}

// GetTournamentHealth возвращает состояние турнира для организатора.
// Существование проверяется раньше прав: несуществующий id всегда даёт
// ErrTournamentNotFound независимо от того, кто спрашивает.
func (s *dashboardService) GetTournamentHealth(ctx context.Context, tournamentID, actorID int) (models.TournamentHealth, error) {
	tournament, err := s.authorizeTournamentAccess(ctx, tournamentID, actorID)
	if err != nil {
		return models.TournamentHealth{}, err
	}

	health := models.TournamentHealth{TournamentID: tournamentID}
	var totalMatches, completedMatches, confirmedCount int

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.paymentRepo.CountByTournamentAndStatuses(gctx, tournamentID, []models.PaymentStatus{
			models.PaymentPending, models.PaymentSubmitted,
		})
		if err != nil {
			return fmt.Errorf("pending payments: %w", err)
		}
		health.Payments.Pending = count
		return nil
	})
	g.Go(func() error {
		count, err := s.paymentRepo.CountByTournamentAndStatuses(gctx, tournamentID, []models.PaymentStatus{models.PaymentVerified})
		if err != nil {
			return fmt.Errorf("verified payments: %w", err)
		}
		health.Payments.Verified = count
		return nil
	})
	g.Go(func() error {
		count, err := s.paymentRepo.CountByTournamentAndStatuses(gctx, tournamentID, []models.PaymentStatus{models.PaymentRejected})
		if err != nil {
			return fmt.Errorf("rejected payments: %w", err)
		}
		health.Payments.Rejected = count
		return nil
	})
	g.Go(func() error {
		count, err := s.disputeRepo.CountByTournamentAndStatuses(gctx, tournamentID, []models.DisputeStatus{
			models.DisputeOpen, models.DisputeUnderReview,
		})
		if err != nil {
			return fmt.Errorf("open disputes: %w", err)
		}
		health.Disputes.Open = count
		return nil
	})
	g.Go(func() error {
		count, err := s.disputeRepo.CountByTournamentAndStatuses(gctx, tournamentID, []models.DisputeStatus{models.DisputeResolved})
		if err != nil {
			return fmt.Errorf("resolved disputes: %w", err)
		}
		health.Disputes.Resolved = count
		return nil
	})
	g.Go(func() error {
		count, err := s.matchRepo.CountByTournament(gctx, tournamentID)
		if err != nil {
			return fmt.Errorf("total matches: %w", err)
		}
		totalMatches = count
		return nil
	})
	g.Go(func() error {
		count, err := s.matchRepo.CountByTournamentAndState(gctx, tournamentID, models.MatchCompleted)
		if err != nil {
			return fmt.Errorf("completed matches: %w", err)
		}
		completedMatches = count
		return nil
	})
	g.Go(func() error {
		count, err := s.registrationRepo.CountByTournamentAndStatus(gctx, tournamentID, models.RegistrationConfirmed)
		if err != nil {
			return fmt.Errorf("confirmed registrations: %w", err)
		}
		confirmedCount = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.TournamentHealth{}, fmt.Errorf("tournament health for %d: %w", tournamentID, err)
	}

	// 0.0 при нуле матчей: делить не на что, но это не ошибка.
	if totalMatches > 0 {
		health.CompletionRate = round2(float64(completedMatches) / float64(totalMatches))
	}

	// Та же модель вместимости, что и у машины состояний регистрации.
	capacity := lifecycle.Capacity(tournament.CapacityLimit, confirmedCount)
	health.RegistrationProgress = models.RegistrationProgress{
		Registered: capacity.Taken,
		Capacity:   tournament.CapacityLimit,
	}
	if capacity.HasLimit {
		health.RegistrationProgress.Percentage = round1(float64(capacity.Taken) / float64(*capacity.Total) * 100)
	}
	return health, nil
}

// GetParticipantBreakdown возвращает страницу confirmed-участников.
// В строках только идентификаторы: имена и профили клиент разрешает
// отдельными запросами.
func (s *dashboardService) GetParticipantBreakdown(ctx context.Context, tournamentID, actorID int, filter ParticipantBreakdownFilter) (models.ParticipantBreakdown, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return models.ParticipantBreakdown{}, fmt.Errorf("%w: limit and offset must not be negative", ErrValidationFailed)
	}

	tournament, err := s.authorizeTournamentAccess(ctx, tournamentID, actorID)
	if err != nil {
		return models.ParticipantBreakdown{}, err
	}

	repoFilter := repositories.ParticipantListFilter{
		PaymentStatus: filter.PaymentStatus,
		CheckedIn:     filter.CheckedIn,
		OrderDesc:     filter.OrderDesc,
		Limit:         filter.Limit,
		Offset:        filter.Offset,
	}

	rows, err := s.registrationRepo.ListConfirmedWithPayments(ctx, tournamentID, repoFilter)
	if err != nil {
		return models.ParticipantBreakdown{}, fmt.Errorf("participant breakdown for %d: %w", tournamentID, err)
	}
	total, err := s.registrationRepo.CountConfirmedWithPayments(ctx, tournamentID, repoFilter)
	if err != nil {
		return models.ParticipantBreakdown{}, fmt.Errorf("participant breakdown count for %d: %w", tournamentID, err)
	}
	completed, err := s.matchRepo.ListCompletedByTournament(ctx, tournamentID)
	if err != nil {
		return models.ParticipantBreakdown{}, fmt.Errorf("participant match stats for %d: %w", tournamentID, err)
	}

	breakdown := models.ParticipantBreakdown{
		Count:   total,
		Results: make([]models.ParticipantEntry, 0, len(rows)),
	}
	for _, row := range rows {
		entry := models.ParticipantEntry{
			ParticipantID:    row.ActorID(),
			ParticipantType:  participantType(tournament.ParticipationMode),
			RegistrationID:   row.ID,
			RegistrationDate: row.CreatedAt.UTC().Format(time.RFC3339),
			PaymentStatus:    row.PaymentStatus,
			CheckInStatus:    checkInStatus(row.CheckedInAt != nil),
			MatchStats:       matchStatsFor(row.ActorID(), completed),
		}
		breakdown.Results = append(breakdown.Results, entry)
	}
	return breakdown, nil
}

// authorizeTournamentAccess: существование → права, единообразно для всех
// дашборд-запросов. Данные турнира не попадают в ошибку отказа.
func (s *dashboardService) authorizeTournamentAccess(ctx context.Context, tournamentID, actorID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	if tournament.OrganizerID == actorID {
		return tournament, nil
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrForbiddenOperation
		}
		return nil, fmt.Errorf("failed to load actor %d: %w", actorID, err)
	}
	if !actor.IsStaff() {
		return nil, ErrForbiddenOperation
	}
	return tournament, nil
}

func participantType(mode models.ParticipationMode) string {
	if mode == models.ModeTeam {
		return "team"
	}
	return "solo"
}

func checkInStatus(checkedIn bool) string {
	if checkedIn {
		return "CHECKED_IN"
	}
	return "NOT_CHECKED_IN"
}

// matchStatsFor сканирует завершённые матчи, где участник стоит с любой
// стороны. Победа — когда winner_id совпадает; поражение засчитывается
// только при записанном победителе.
func matchStatsFor(participantID int, completed []models.Match) models.MatchStats {
	var stats models.MatchStats
	if participantID == 0 {
		return stats
	}
	for i := range completed {
		m := &completed[i]
		if !m.Involves(participantID) {
			continue
		}
		stats.MatchesPlayed++
		if m.WinnerID != nil {
			if *m.WinnerID == participantID {
				stats.Wins++
			} else {
				stats.Losses++
			}
		}
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
