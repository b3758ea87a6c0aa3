package models

import "time"

// PaymentStatus представляет статусы платежа за участие.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSubmitted PaymentStatus = "submitted"
	PaymentVerified  PaymentStatus = "verified"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment представляет платёж, привязанный к заявке.
// На одну платную заявку ожидается один платёж; ядро это не контролирует,
// а только агрегирует счётчики по статусам.
type Payment struct {
	ID             int           `json:"id" db:"id"`
	RegistrationID int           `json:"registration_id" db:"registration_id"`
	Amount         float64       `json:"amount" db:"amount"`
	Status         PaymentStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}
