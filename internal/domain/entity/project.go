package entity

import "time"

// Roles de proyecto (independientes del rol de sistema).
const (
	ProjectRoleEmployee = "employee"
	ProjectRoleLead     = "lead"
)

// Project representa un proyecto facturable. El ciclo de vida del proyecto es
// externo a este core: aquí solo se consulta existencia, estado y membresía.
type Project struct {
	ID        string
	Name      string
	Code      string
	ManagerID string // usuario responsable del tier manager
	Status    string // active, archived
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task representa una tarea predefinida dentro de un proyecto.
type Task struct {
	ID        string
	ProjectID string
	Name      string
	Status    string // active, archived
	CreatedAt time.Time
}

// ProjectMember asocia un usuario a un proyecto con un rol de proyecto.
type ProjectMember struct {
	ProjectID   string
	UserID      string
	ProjectRole string // employee | lead
	CreatedAt   time.Time
}
