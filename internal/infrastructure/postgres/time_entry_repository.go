package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

var _ repository.TimeEntryRepository = (*TimeEntryRepo)(nil)

// TimeEntryRepo implementación de TimeEntryRepository sobre PostgreSQL
// (usable con pool o tx).
type TimeEntryRepo struct {
	q Querier
}

// NewTimeEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTimeEntryRepository(q Querier) *TimeEntryRepo {
	return &TimeEntryRepo{q: q}
}

const entryColumns = `id, timesheet_id, project_id, task_id, custom_task_name, date, hours, description, is_billable, entry_type, created_at, updated_at`

// Create persiste una entrada de tiempo.
func (r *TimeEntryRepo) Create(e *entity.TimeEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO time_entries (id, timesheet_id, project_id, task_id, custom_task_name, date, hours, description, is_billable, entry_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.TimesheetID, e.ProjectID, e.TaskID, nullIfEmpty(e.CustomTaskName),
		e.Date, e.Hours, nullIfEmpty(e.Description), e.IsBillable, e.EntryType,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID (nil si no existe).
func (r *TimeEntryRepo) GetByID(id string) (*entity.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get time entry: %w", err)
	}
	return e, nil
}

// Update actualiza fecha, horas, descripción y facturable.
func (r *TimeEntryRepo) Update(e *entity.TimeEntry) error {
	query := `
		UPDATE time_entries
		SET date = $2, hours = $3, description = $4, is_billable = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.Date, e.Hours, nullIfEmpty(e.Description), e.IsBillable, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update time entry: %w", err)
	}
	return nil
}

// Delete elimina una entrada.
func (r *TimeEntryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	return nil
}

// ListByTimesheet lista las entradas de una hoja ordenadas por fecha.
func (r *TimeEntryRepo) ListByTimesheet(timesheetID string) ([]*entity.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE timesheet_id = $1 ORDER BY date, created_at`
	rows, err := r.q.Query(context.Background(), query, timesheetID)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DistinctProjectIDs devuelve los proyectos distintos referenciados por las
// entradas de la hoja (fan-out de ProjectApprovals al enviar).
func (r *TimeEntryRepo) DistinctProjectIDs(timesheetID string) ([]string, error) {
	query := `SELECT DISTINCT project_id FROM time_entries WHERE timesheet_id = $1 ORDER BY project_id`
	rows, err := r.q.Query(context.Background(), query, timesheetID)
	if err != nil {
		return nil, fmt.Errorf("distinct projects: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanEntry(row pgx.Row) (*entity.TimeEntry, error) {
	var e entity.TimeEntry
	var customName, description *string
	err := row.Scan(
		&e.ID, &e.TimesheetID, &e.ProjectID, &e.TaskID, &customName,
		&e.Date, &e.Hours, &description, &e.IsBillable, &e.EntryType,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customName != nil {
		e.CustomTaskName = *customName
	}
	if description != nil {
		e.Description = *description
	}
	return &e, nil
}
