package entity

import "time"

// Roles de sistema válidos para User (jerarquía de aprobación).
const (
	RoleEmployee   = "employee"
	RoleLead       = "lead"
	RoleManager    = "manager"
	RoleManagement = "management"
	RoleSuperAdmin = "super_admin"
)

// User representa un usuario del sistema. El Role solo lo cambia un administrador;
// el ciclo de vida (alta/baja) es externo a este core.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // employee, lead, manager, management, super_admin
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
