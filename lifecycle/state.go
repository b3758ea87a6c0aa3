package lifecycle

import (
	"time"

	"github.com/Aidyn07/esports-arena/models"
)

// TournamentPhase — крупная фаза жизненного цикла турнира.
type TournamentPhase string

const (
	PhaseDraft        TournamentPhase = "draft"
	PhaseRegistration TournamentPhase = "registration"
	PhaseLive         TournamentPhase = "live"
	PhaseCompleted    TournamentPhase = "completed"
)

// RegistrationState — точный ответ на вопрос «можно ли сейчас
// зарегистрироваться и почему нет». Вычисляется независимо от фазы:
// турнир может быть «опубликован, но ещё не открыт» или «опубликован,
// окно закрыто, но ещё не стартовал» — фаза одна эти случаи не различает.
type RegistrationState string

const (
	StateNotOpen   RegistrationState = "not_open"
	StateOpen      RegistrationState = "open"
	StateClosed    RegistrationState = "closed"
	StateFull      RegistrationState = "full"
	StateStarted   RegistrationState = "started"
	StateCompleted RegistrationState = "completed"
)

// Evaluate — чистая функция состояния: из снимка турнира, текущего момента
// и числа confirmed-заявок детерминированно выводит фазу и состояние
// регистрации. Никогда не возвращает ошибку и не паникует на отсутствующих
// опциональных полях: недостаток сигналов деградирует в консервативный
// StateNotOpen. Счётчик confirmedCount вызывающий код обязан получить один
// раз и переиспользовать для всех производных значений того же вычисления.
func Evaluate(t *models.Tournament, now time.Time, confirmedCount int) (TournamentPhase, RegistrationState) {
	phase := derivePhase(t, now)
	state := deriveRegistrationState(t, now, confirmedCount)
	return phase, state
}

func derivePhase(t *models.Tournament, now time.Time) TournamentPhase {
	switch {
	case t.Status == models.StatusDraft:
		return PhaseDraft
	case t.Status == models.StatusCompleted:
		return PhaseCompleted
	case t.Status == models.StatusLive || hasStarted(t, now):
		return PhaseLive
	default:
		return PhaseRegistration
	}
}

func deriveRegistrationState(t *models.Tournament, now time.Time, confirmedCount int) RegistrationState {
	if !isPubliclyVisible(t.Status) {
		return StateNotOpen
	}
	if t.Status == models.StatusCompleted {
		return StateCompleted
	}

	full := Capacity(t.CapacityLimit, confirmedCount).IsFull

	// Явное окно имеет приоритет над эвристикой по статусу: организатор,
	// выставивший точные даты, ожидает жёсткого соблюдения отсечки.
	window := TimeWindow{OpensAt: t.RegistrationOpensAt, ClosesAt: t.RegistrationClosesAt}
	if window.Usable() {
		switch {
		case window.Before(now):
			return StateNotOpen
		case window.After(now):
			return StateClosed
		case full:
			return StateFull
		default:
			return StateOpen
		}
	}

	// Окна нет (или оно инвертировано): эвристика по статусу и дате старта.
	switch {
	case isRegistrationEligible(t.Status) && !hasStarted(t, now):
		if full {
			return StateFull
		}
		return StateOpen
	case hasStarted(t, now):
		return StateStarted
	default:
		return StateNotOpen
	}
}

// hasStarted: без даты старта факт старта неразрешим; статус live —
// единственный достоверный сигнал в этом случае.
func hasStarted(t *models.Tournament, now time.Time) bool {
	if t.Status == models.StatusLive {
		return true
	}
	return t.StartAt != nil && !now.Before(*t.StartAt)
}

// isPubliclyVisible: «опубликован или позже». Черновики, отменённые и
// архивные турниры для регистрации не существуют.
func isPubliclyVisible(status models.TournamentStatus) bool {
	switch status {
	case models.StatusPublished,
		models.StatusRegistrationOpen,
		models.StatusRegistrationClosed,
		models.StatusLive,
		models.StatusCompleted:
		return true
	}
	return false
}

// isRegistrationEligible: статусы, в которых эвристика без окна допускает
// приём заявок.
func isRegistrationEligible(status models.TournamentStatus) bool {
	return status == models.StatusPublished || status == models.StatusRegistrationOpen
}
