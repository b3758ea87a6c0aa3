package models

import "time"

// MatchState представляет состояния матча.
type MatchState string

const (
	MatchScheduled MatchState = "scheduled"
	MatchLive      MatchState = "live"
	MatchCompleted MatchState = "completed"
	MatchForfeit   MatchState = "forfeit"
	MatchDisputed  MatchState = "disputed"
)

// Match представляет матч турнира. Участники — идентификаторы актёров
// (user_id в solo-турнирах, team_id в командных), как и в заявках.
type Match struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	State        MatchState `json:"state" db:"state"`
	HomeID       *int       `json:"home_id,omitempty" db:"home_id"`
	AwayID       *int       `json:"away_id,omitempty" db:"away_id"`
	WinnerID     *int       `json:"winner_id,omitempty" db:"winner_id"`
	LoserID      *int       `json:"loser_id,omitempty" db:"loser_id"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Involves сообщает, играет ли указанный участник в этом матче.
func (m *Match) Involves(actorID int) bool {
	if m.HomeID != nil && *m.HomeID == actorID {
		return true
	}
	if m.AwayID != nil && *m.AwayID == actorID {
		return true
	}
	return false
}
