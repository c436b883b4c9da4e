package usecase

import (
	"github.com/jhoicas/Timetrack-api/internal/domain"
	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

// ProjectUseCase consultas del directorio de proyectos y tareas. El ciclo de
// vida (crear/archivar proyectos) es externo a este core.
type ProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(projectRepo repository.ProjectRepository) *ProjectUseCase {
	return &ProjectUseCase{projectRepo: projectRepo}
}

// ListUserProjects lista los proyectos de los que el usuario es miembro.
func (uc *ProjectUseCase) ListUserProjects(userID string) ([]*entity.Project, error) {
	return uc.projectRepo.ListByUser(userID)
}

// ListProjectTasks lista las tareas de un proyecto existente.
func (uc *ProjectUseCase) ListProjectTasks(projectID string) ([]*entity.Task, error) {
	project, err := uc.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	return uc.projectRepo.ListTasks(projectID)
}
