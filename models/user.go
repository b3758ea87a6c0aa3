package models

import "time"

// UserRole определяет роль пользователя на платформе.
// Admin — это staff: имеет доступ к любым турнирам вне зависимости от владения.
type UserRole string

const (
	RolePlayer    UserRole = "player"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

// User представляет пользователя платформы.
type User struct {
	ID            int       `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Role          UserRole  `json:"role" db:"role"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`
	PhoneVerified bool      `json:"phone_verified" db:"phone_verified"`
	Region        string    `json:"region" db:"region"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// IsStaff сообщает, является ли пользователь staff-актёром.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin
}
