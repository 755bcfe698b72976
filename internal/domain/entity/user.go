package entity

import "time"

// Roles válidos (derivados de IsStaff).
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User representa un usuario que registra movimientos.
type User struct {
	ID           int64
	Username     string
	FullName     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	IsStaff      bool
	IsActive     bool
	CreatedAt    time.Time
}

// Role devuelve el rol usado en el JWT y en RequireRole.
func (u *User) Role() string {
	if u.IsStaff {
		return RoleAdmin
	}
	return RoleOperador
}
