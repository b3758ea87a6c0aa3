package lifecycle

import (
	"time"

	"github.com/Aidyn07/esports-arena/models"
)

// StatusProjection — проекция состояния регистрации для HTTP-слоя и
// публичных страниц турнира. Длительности отдаются в целых секундах,
// nil — когда соответствующий момент неизвестен или уже прошёл.
type StatusProjection struct {
	Phase             TournamentPhase   `json:"phase"`
	RegistrationState RegistrationState `json:"registration_state"`
	CanRegister       bool              `json:"can_register"`
	Reason            string            `json:"reason"`
	Slots             CapacityInfo      `json:"slots"`
	TimeUntilStart    *int64            `json:"time_until_start"`
	TimeUntilClose    *int64            `json:"time_until_registration_closes"`
}

// Project собирает полную проекцию одним вычислением: фаза, состояние,
// снимок вместимости и решение о допуске используют один и тот же
// confirmedCount, чтобы снимок был согласованным.
func Project(t *models.Tournament, now time.Time, confirmedCount int, actor Actor) StatusProjection {
	phase, state := Evaluate(t, now, confirmedCount)
	decision := CanRegister(t, now, confirmedCount, actor)

	p := StatusProjection{
		Phase:             phase,
		RegistrationState: state,
		CanRegister:       decision.Allowed,
		Reason:            decision.Message,
		Slots:             Capacity(t.CapacityLimit, confirmedCount),
	}
	if t.StartAt != nil && now.Before(*t.StartAt) {
		p.TimeUntilStart = secondsUntil(now, *t.StartAt)
	}
	if state == StateOpen && t.RegistrationClosesAt != nil && now.Before(*t.RegistrationClosesAt) {
		p.TimeUntilClose = secondsUntil(now, *t.RegistrationClosesAt)
	}
	return p
}

func secondsUntil(now, at time.Time) *int64 {
	s := int64(at.Sub(now) / time.Second)
	return &s
}
