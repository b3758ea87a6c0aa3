package models

// Read-model DTO для организаторских дашбордов. Значения не персистятся:
// они пересчитываются на каждый запрос и живут только в рамках ответа.

// PendingActions — действия, ожидающие внимания организатора.
type PendingActions struct {
	PendingPayments int `json:"pending_payments"`
	OpenDisputes    int `json:"open_disputes"`
}

// OrganizerStats — сводка по всем неудалённым турнирам организатора.
type OrganizerStats struct {
	TotalTournaments  int            `json:"total_tournaments"`
	ActiveTournaments int            `json:"active_tournaments"`
	TotalParticipants int            `json:"total_participants"`
	TotalRevenue      float64        `json:"total_revenue"`
	PendingActions    PendingActions `json:"pending_actions"`
}

// PaymentCounts — разбивка платежей турнира по статусам.
type PaymentCounts struct {
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
	Rejected int `json:"rejected"`
}

// DisputeCounts — разбивка споров турнира.
type DisputeCounts struct {
	Open     int `json:"open"`
	Resolved int `json:"resolved"`
}

// RegistrationProgress — заполненность турнира.
type RegistrationProgress struct {
	Registered int     `json:"registered"`
	Capacity   int     `json:"capacity"`
	Percentage float64 `json:"percentage"`
}

// TournamentHealth — состояние отдельного турнира для организатора.
type TournamentHealth struct {
	TournamentID         int                  `json:"tournament_id"`
	Payments             PaymentCounts        `json:"payments"`
	Disputes             DisputeCounts        `json:"disputes"`
	CompletionRate       float64              `json:"completion_rate"`
	RegistrationProgress RegistrationProgress `json:"registration_progress"`
}

// MatchStats — статистика завершённых матчей участника.
type MatchStats struct {
	MatchesPlayed int `json:"matches_played"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
}

// ParticipantEntry — одна строка разбивки участников.
// Только идентификаторы: никаких имён/профилей, отображаемые данные клиент
// получает отдельными запросами.
type ParticipantEntry struct {
	ParticipantID    int            `json:"participant_id"`
	ParticipantType  string         `json:"participant_type"` // "team" | "solo"
	RegistrationID   int            `json:"registration_id"`
	RegistrationDate string         `json:"registration_date"` // ISO-8601
	PaymentStatus    *PaymentStatus `json:"payment_status"`
	CheckInStatus    string         `json:"check_in_status"` // "CHECKED_IN" | "NOT_CHECKED_IN"
	MatchStats       MatchStats     `json:"match_stats"`
}

// ParticipantBreakdown — страница участников; Count — общее число строк
// до пагинации.
type ParticipantBreakdown struct {
	Count   int                `json:"count"`
	Results []ParticipantEntry `json:"results"`
}
