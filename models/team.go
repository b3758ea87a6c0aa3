package models

import "time"

// Team представляет команду. MemberCount поддерживается ростер-сервисом
// (внешним по отношению к этому репозиторию коду) и читается при проверке
// границ размера команды.
type Team struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CaptainID   int       `json:"captain_id" db:"captain_id"`
	Region      string    `json:"region" db:"region"`
	MemberCount int       `json:"member_count" db:"member_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
