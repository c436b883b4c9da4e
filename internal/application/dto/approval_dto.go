package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RejectRequest body para rechazar un par (timesheet, project).
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// AdjustmentRequest body para fijar el ajuste facturable de un manager.
type AdjustmentRequest struct {
	Adjustment decimal.Decimal `json:"adjustment"`
}

// ApprovalResponse registro del ledger en respuestas.
type ApprovalResponse struct {
	ID                 string          `json:"id"`
	TimesheetID        string          `json:"timesheet_id"`
	ProjectID          string          `json:"project_id"`
	LeadStatus         string          `json:"lead_status"`
	ManagerStatus      string          `json:"manager_status"`
	ManagementStatus   string          `json:"management_status"`
	BillableAdjustment decimal.Decimal `json:"billable_adjustment"`
	RejectionReason    string          `json:"rejection_reason,omitempty"`
	RejectedBy         string          `json:"rejected_by,omitempty"`
	RejectedAt         *time.Time      `json:"rejected_at,omitempty"`
}

// BulkRequest body para bulk-verify y bulk-bill.
type BulkRequest struct {
	TimesheetIDs []string `json:"timesheet_ids" validate:"required,min=1"`
	ProjectID    string   `json:"project_id" validate:"omitempty,uuid"`
}

// FreezeRequest body para congelar un project-week.
type FreezeRequest struct {
	ProjectID string `json:"project_id" validate:"required,uuid"`
	WeekStart string `json:"week_start" validate:"required"` // YYYY-MM-DD (lunes)
	WeekEnd   string `json:"week_end" validate:"omitempty"`  // YYYY-MM-DD; por defecto la misma semana
}

// ProjectWeekRequest body para aprobar/rechazar todas las hojas de un project-week.
type ProjectWeekRequest struct {
	ProjectID string `json:"project_id" validate:"required,uuid"`
	WeekStart string `json:"week_start" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=approve reject"`
	Reason    string `json:"reason" validate:"omitempty,max=500"` // requerido si action=reject
}

// ItemFailure fallo por elemento dentro de una operación masiva.
type ItemFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Manifest resultado de una operación masiva: cada elemento se evalúa de forma
// independiente y un fallo no aborta el lote.
type Manifest struct {
	Processed      []string      `json:"processed"`
	ProcessedCount int           `json:"processed_count"`
	Failed         []ItemFailure `json:"failed"`
}
