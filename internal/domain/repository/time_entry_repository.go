package repository

import "github.com/jhoicas/Timetrack-api/internal/domain/entity"

// TimeEntryRepository define el puerto de persistencia para TimeEntry.
type TimeEntryRepository interface {
	Create(e *entity.TimeEntry) error
	GetByID(id string) (*entity.TimeEntry, error)
	Update(e *entity.TimeEntry) error
	Delete(id string) error
	ListByTimesheet(timesheetID string) ([]*entity.TimeEntry, error)
	// DistinctProjectIDs devuelve los proyectos distintos referenciados por las
	// entradas de la hoja (fan-out de ProjectApprovals al enviar).
	DistinctProjectIDs(timesheetID string) ([]string, error)
}
