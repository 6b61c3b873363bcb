package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // ADMIN, USER
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor es la identidad que ejecuta una operación (resuelta desde el token).
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin indica si el actor tiene rol ADMIN.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsValidRole indica si r es ADMIN o USER.
func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleUser
}
