package models

import "time"

// RegistrationStatus представляет статусы заявки на участие.
// К вместимости и числу участников считаются только confirmed-заявки.
type RegistrationStatus string

const (
	RegistrationPending          RegistrationStatus = "pending"
	RegistrationPaymentSubmitted RegistrationStatus = "payment_submitted"
	RegistrationConfirmed        RegistrationStatus = "confirmed"
	RegistrationCancelled        RegistrationStatus = "cancelled"
)

// Registration представляет заявку пользователя или команды на турнир.
// Заполнено ровно одно из UserID/TeamID (ограничение chk_registration_actor в БД).
type Registration struct {
	ID           int                `json:"id" db:"id"`
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	UserID       *int               `json:"user_id,omitempty" db:"user_id"`
	TeamID       *int               `json:"team_id,omitempty" db:"team_id"`
	Status       RegistrationStatus `json:"status" db:"status"`
	CheckedInAt  *time.Time         `json:"checked_in_at,omitempty" db:"checked_in_at"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
}

// ActorID возвращает идентификатор участника (user или team).
func (r *Registration) ActorID() int {
	if r.TeamID != nil {
		return *r.TeamID
	}
	if r.UserID != nil {
		return *r.UserID
	}
	return 0
}

// RegistrationWithPayment — строка выборки заявок вместе со статусом платежа
// (LEFT JOIN, платежа может не быть).
type RegistrationWithPayment struct {
	Registration
	PaymentStatus *PaymentStatus `json:"payment_status" db:"payment_status"`
}
