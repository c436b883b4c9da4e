package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
)

// TimesheetRepository define el puerto de persistencia para Timesheet.
type TimesheetRepository interface {
	Create(ts *entity.Timesheet) error
	GetByID(id string) (*entity.Timesheet, error)
	// GetByIDForUpdate obtiene la hoja y bloquea su fila (SELECT FOR UPDATE)
	// para serializar la recomputación de consenso por hoja.
	GetByIDForUpdate(id string) (*entity.Timesheet, error)
	GetByUserAndWeek(userID string, weekStart time.Time) (*entity.Timesheet, error)
	UpdateStatus(id, status string) error
	UpdateTotalHours(id string, total decimal.Decimal) error
	// ListByStatuses lista hojas cuyo estado esté en statuses (colas de aprobación).
	ListByStatuses(statuses []string, limit, offset int) ([]*entity.Timesheet, error)
	// ListByProjectWeek lista las hojas de todos los usuarios con entradas del
	// proyecto en la semana indicada (clave project-week de acciones masivas).
	ListByProjectWeek(projectID string, weekStart time.Time) ([]*entity.Timesheet, error)
}
