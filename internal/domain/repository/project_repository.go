package repository

import "github.com/jhoicas/Timetrack-api/internal/domain/entity"

// ProjectRepository define el puerto de consulta del directorio de proyectos
// y tareas. El ciclo de vida de proyectos es externo; este core solo valida
// existencia, estado y membresía.
type ProjectRepository interface {
	GetByID(id string) (*entity.Project, error)
	ListByUser(userID string) ([]*entity.Project, error)
	ListTasks(projectID string) ([]*entity.Task, error)
	GetTask(taskID string) (*entity.Task, error)
	// GetMemberRole devuelve el rol de proyecto del usuario ("" si no es miembro).
	GetMemberRole(projectID, userID string) (string, error)
}
