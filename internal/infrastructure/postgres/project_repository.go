package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación de ProjectRepository sobre PostgreSQL.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// GetByID obtiene un proyecto por ID (nil si no existe).
func (r *ProjectRepo) GetByID(id string) (*entity.Project, error) {
	query := `
		SELECT id, name, code, manager_id, status, created_at, updated_at
		FROM projects WHERE id = $1`
	var p entity.Project
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Code, &p.ManagerID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// ListByUser lista los proyectos activos de los que el usuario es miembro.
func (r *ProjectRepo) ListByUser(userID string) ([]*entity.Project, error) {
	query := `
		SELECT p.id, p.name, p.code, p.manager_id, p.status, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1 AND p.status = 'active'
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.ManagerID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// ListTasks lista las tareas activas de un proyecto.
func (r *ProjectRepo) ListTasks(projectID string) ([]*entity.Task, error) {
	query := `
		SELECT id, project_id, name, status, created_at
		FROM tasks WHERE project_id = $1 AND status = 'active'
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.Task
	for rows.Next() {
		var t entity.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

// GetTask obtiene una tarea por ID (nil si no existe).
func (r *ProjectRepo) GetTask(taskID string) (*entity.Task, error) {
	query := `
		SELECT id, project_id, name, status, created_at
		FROM tasks WHERE id = $1`
	var t entity.Task
	err := r.q.QueryRow(context.Background(), query, taskID).Scan(
		&t.ID, &t.ProjectID, &t.Name, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// GetMemberRole devuelve el rol de proyecto del usuario ("" si no es miembro).
func (r *ProjectRepo) GetMemberRole(projectID, userID string) (string, error) {
	query := `
		SELECT project_role FROM project_members
		WHERE project_id = $1 AND user_id = $2`
	var role string
	err := r.q.QueryRow(context.Background(), query, projectID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get member role: %w", err)
	}
	return role, nil
}
