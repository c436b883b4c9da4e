package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de entrada de tiempo.
const (
	EntryTypeProjectTask = "project_task" // referencia una Task del proyecto
	EntryTypeCustomTask  = "custom_task"  // lleva nombre libre de tarea en su lugar
)

// TimeEntry representa horas trabajadas en una fecha contra un proyecto.
// Pertenece a exactamente una Timesheet; solo se crea/edita mientras la
// Timesheet está en estado editable, e inmutable una vez congelada.
type TimeEntry struct {
	ID             string
	TimesheetID    string
	ProjectID      string
	TaskID         *string // requerido si EntryType es project_task
	CustomTaskName string  // requerido si EntryType es custom_task
	Date           time.Time
	Hours          decimal.Decimal // positivas, máximo 24
	Description    string
	IsBillable     bool
	EntryType      string // project_task | custom_task
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskKey devuelve la componente "tarea" de la clave compuesta
// (project, task, date) usada para detectar duplicados.
func (e *TimeEntry) TaskKey() string {
	if e.EntryType == EntryTypeCustomTask {
		return "custom:" + e.CustomTaskName
	}
	if e.TaskID != nil {
		return *e.TaskID
	}
	return ""
}
