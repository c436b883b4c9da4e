package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Timetrack-api/internal/application/usecase"
)

// ProjectHandler expone el directorio de proyectos y tareas.
type ProjectHandler struct {
	uc *usecase.ProjectUseCase
}

// NewProjectHandler construye el handler de proyectos.
func NewProjectHandler(uc *usecase.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// List lista los proyectos donde el usuario es miembro.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	projects, err := h.uc.ListUserProjects(GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(projects)
}

// ListTasks lista las tareas activas de un proyecto.
func (h *ProjectHandler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.uc.ListProjectTasks(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(tasks)
}
