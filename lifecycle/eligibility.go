package lifecycle

import (
	"fmt"
	"time"

	"github.com/Aidyn07/esports-arena/models"
)

// ReasonCode — машинно-читаемая причина отказа в регистрации.
type ReasonCode string

const (
	ReasonNone             ReasonCode = ""
	ReasonNotAuthenticated ReasonCode = "not_authenticated"
	ReasonNotOpen          ReasonCode = "registration_not_open"
	ReasonClosed           ReasonCode = "registration_closed"
	ReasonFull             ReasonCode = "tournament_full"
	ReasonStarted          ReasonCode = "tournament_started"
	ReasonCompleted        ReasonCode = "tournament_completed"
	ReasonTeamTooSmall     ReasonCode = "team_too_small"
	ReasonTeamTooLarge     ReasonCode = "team_too_large"
	ReasonEmailUnverified  ReasonCode = "email_not_verified"
	ReasonPhoneUnverified  ReasonCode = "phone_not_verified"
	ReasonRegionRestricted ReasonCode = "region_restricted"
)

// Actor — факты о регистрирующемся, нужные для проверки допуска.
// Для solo-турниров TeamSize игнорируется.
type Actor struct {
	Authenticated bool
	UserID        int
	TeamID        *int
	TeamSize      int
	EmailVerified bool
	PhoneVerified bool
	Region        string
}

// Decision — результат проверки допуска.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  ReasonCode `json:"reason,omitempty"`
	Message string     `json:"message"`
}

func deny(reason ReasonCode, message string) Decision {
	return Decision{Allowed: false, Reason: reason, Message: message}
}

// CanRegister решает, может ли конкретный актёр зарегистрироваться прямо
// сейчас. Порядок проверок фиксирован: аутентификация → состояние
// регистрации → размер команды → верификация → регион; побеждает первая
// несработавшая. Анонимному актёру отказывается до вычисления состояния:
// для этого отказа никакой другой информации не требуется.
func CanRegister(t *models.Tournament, now time.Time, confirmedCount int, actor Actor) Decision {
	if !actor.Authenticated {
		return deny(ReasonNotAuthenticated, "You must be signed in to register.")
	}

	_, state := Evaluate(t, now, confirmedCount)
	switch state {
	case StateNotOpen:
		if t.RegistrationOpensAt != nil {
			return deny(ReasonNotOpen, fmt.Sprintf("Registration opens %s.", t.RegistrationOpensAt.Format(time.RFC3339)))
		}
		return deny(ReasonNotOpen, "Registration is not open.")
	case StateClosed:
		return deny(ReasonClosed, "Registration has closed.")
	case StateFull:
		return deny(ReasonFull, "Tournament is full.")
	case StateStarted:
		return deny(ReasonStarted, "Tournament has already started.")
	case StateCompleted:
		return deny(ReasonCompleted, "Tournament has ended.")
	}

	if t.ParticipationMode == models.ModeTeam {
		if t.MinTeamSize > 0 && actor.TeamSize < t.MinTeamSize {
			return deny(ReasonTeamTooSmall, fmt.Sprintf("Team must have at least %d members.", t.MinTeamSize))
		}
		if t.MaxTeamSize > 0 && actor.TeamSize > t.MaxTeamSize {
			return deny(ReasonTeamTooLarge, fmt.Sprintf("Team must have at most %d members.", t.MaxTeamSize))
		}
	}

	if t.RequireVerifiedEmail && !actor.EmailVerified {
		return deny(ReasonEmailUnverified, "A verified email address is required for this tournament.")
	}

	if len(t.AllowedRegions) > 0 && !regionAllowed(t.AllowedRegions, actor.Region) {
		return deny(ReasonRegionRestricted, "This tournament is restricted to specific regions.")
	}

	return Decision{Allowed: true, Message: "Registration is open."}
}

func regionAllowed(allowed []string, region string) bool {
	for _, r := range allowed {
		if r == region {
			return true
		}
	}
	return false
}
