package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

var _ repository.TimesheetRepository = (*TimesheetRepo)(nil)

// TimesheetRepo implementación de TimesheetRepository sobre PostgreSQL
// (usable con pool o tx).
type TimesheetRepo struct {
	q Querier
}

// NewTimesheetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTimesheetRepository(q Querier) *TimesheetRepo {
	return &TimesheetRepo{q: q}
}

const timesheetColumns = `id, user_id, week_start_date, status, total_hours, created_at, updated_at`

// Create persiste una hoja de tiempo nueva (una por usuario y semana).
func (r *TimesheetRepo) Create(ts *entity.Timesheet) error {
	if ts.ID == "" {
		ts.ID = uuid.New().String()
	}
	query := `
		INSERT INTO timesheets (id, user_id, week_start_date, status, total_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		ts.ID, ts.UserID, ts.WeekStartDate, ts.Status, ts.TotalHours,
		ts.CreatedAt, ts.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("timesheet already exists for week: %w", err)
		}
		return fmt.Errorf("insert timesheet: %w", err)
	}
	return nil
}

// GetByID obtiene una hoja por ID (nil si no existe).
func (r *TimesheetRepo) GetByID(id string) (*entity.Timesheet, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene la hoja y bloquea su fila (SELECT FOR UPDATE) para
// serializar todas las escrituras y la recomputación de consenso por hoja.
func (r *TimesheetRepo) GetByIDForUpdate(id string) (*entity.Timesheet, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// GetByUserAndWeek obtiene la hoja del usuario para la semana (nil si no existe).
func (r *TimesheetRepo) GetByUserAndWeek(userID string, weekStart time.Time) (*entity.Timesheet, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE user_id = $1 AND week_start_date = $2`
	return r.scanOne(query, userID, weekStart)
}

func (r *TimesheetRepo) scanOne(query string, args ...any) (*entity.Timesheet, error) {
	var ts entity.Timesheet
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&ts.ID, &ts.UserID, &ts.WeekStartDate, &ts.Status, &ts.TotalHours,
		&ts.CreatedAt, &ts.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get timesheet: %w", err)
	}
	return &ts, nil
}

// UpdateStatus actualiza la caché del estado agregado.
func (r *TimesheetRepo) UpdateStatus(id, status string) error {
	query := `UPDATE timesheets SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update timesheet status: %w", err)
	}
	return nil
}

// UpdateTotalHours actualiza el total denormalizado.
func (r *TimesheetRepo) UpdateTotalHours(id string, total decimal.Decimal) error {
	query := `UPDATE timesheets SET total_hours = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, total)
	if err != nil {
		return fmt.Errorf("update timesheet total: %w", err)
	}
	return nil
}

// ListByStatuses lista hojas cuyo estado esté en statuses (colas de aprobación).
func (r *TimesheetRepo) ListByStatuses(statuses []string, limit, offset int) ([]*entity.Timesheet, error) {
	query := `
		SELECT ` + timesheetColumns + ` FROM timesheets
		WHERE status = ANY($1)
		ORDER BY week_start_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, statuses, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list timesheets by status: %w", err)
	}
	return r.scanMany(rows)
}

// ListByProjectWeek lista hojas de todos los usuarios con entradas del
// proyecto en la semana (clave project-week de acciones masivas).
func (r *TimesheetRepo) ListByProjectWeek(projectID string, weekStart time.Time) ([]*entity.Timesheet, error) {
	query := `
		SELECT DISTINCT t.id, t.user_id, t.week_start_date, t.status, t.total_hours, t.created_at, t.updated_at
		FROM timesheets t
		JOIN time_entries e ON e.timesheet_id = t.id
		WHERE e.project_id = $1 AND t.week_start_date = $2
		ORDER BY t.user_id`
	rows, err := r.q.Query(context.Background(), query, projectID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("list timesheets by project-week: %w", err)
	}
	return r.scanMany(rows)
}

func (r *TimesheetRepo) scanMany(rows pgx.Rows) ([]*entity.Timesheet, error) {
	defer rows.Close()
	var sheets []*entity.Timesheet
	for rows.Next() {
		var ts entity.Timesheet
		if err := rows.Scan(
			&ts.ID, &ts.UserID, &ts.WeekStartDate, &ts.Status, &ts.TotalHours,
			&ts.CreatedAt, &ts.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan timesheet: %w", err)
		}
		sheets = append(sheets, &ts)
	}
	return sheets, rows.Err()
}
