package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
)

// ProjectApprovalRepository define el puerto de persistencia del ledger de
// aprobaciones por proyecto. Las escrituras de tier son compare-and-set:
// si otra escritura concurrente ganó, devuelven domain.ErrStaleState.
type ProjectApprovalRepository interface {
	Create(pa *entity.ProjectApproval) error
	GetByTimesheetAndProject(timesheetID, projectID string) (*entity.ProjectApproval, error)
	ListByTimesheet(timesheetID string) ([]*entity.ProjectApproval, error)
	// ApproveTier pasa el tier de pending a approved (CAS sobre el estado actual).
	ApproveTier(id, tier string) error
	// RejectTier pasa el tier a rejected con metadatos de rechazo. Se admite
	// desde pending o approved: el rechazo sí retrocede progreso.
	RejectTier(id, tier, reason, rejectedBy string, at time.Time) error
	// ResetLedger reinicia todos los tiers de todos los registros de la hoja a
	// pending en una sola escritura atómica (rollback de rechazo y reenvío).
	// excludeID permite conservar el registro recién rechazado.
	ResetLedger(timesheetID, excludeID string) error
	// SetBillableAdjustment fija el ajuste facturable (solo con manager pending).
	SetBillableAdjustment(id string, adjustment decimal.Decimal) error
	// DeleteStale elimina registros de proyectos que ya no aparecen en las
	// entradas (re-sincronización en el reenvío). keepProjectIDs nunca vacío.
	DeleteStale(timesheetID string, keepProjectIDs []string) error
}
