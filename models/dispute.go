package models

import "time"

// DisputeStatus представляет статусы спора по матчу.
type DisputeStatus string

const (
	DisputeOpen        DisputeStatus = "open"
	DisputeUnderReview DisputeStatus = "under_review"
	DisputeResolved    DisputeStatus = "resolved"
)

// Dispute представляет спор, открытый по результату матча.
type Dispute struct {
	ID        int           `json:"id" db:"id"`
	MatchID   int           `json:"match_id" db:"match_id"`
	Status    DisputeStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
