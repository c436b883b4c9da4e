package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de cada tier dentro de un ProjectApproval.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Tiers secuenciales de aprobación.
const (
	TierLead       = "lead"
	TierManager    = "manager"
	TierManagement = "management"
)

// ProjectApproval es el registro de aprobación de un par (Timesheet, Project).
// Se crea uno por proyecto distinto al enviar la Timesheet; nunca para un draft.
// Los campos de estado solo avanzan (pending → approved|rejected) salvo en un
// rechazo, que reinicia el ledger completo de la Timesheet a pending.
type ProjectApproval struct {
	ID               string
	TimesheetID      string
	ProjectID        string
	LeadStatus       string
	ManagerStatus    string
	ManagementStatus string
	// BillableAdjustment ajuste aditivo sobre las horas trabajadas; solo lo
	// fija un manager mientras su tier sigue pending.
	BillableAdjustment decimal.Decimal
	RejectionReason    *string
	RejectedBy         *string
	RejectedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TierStatus devuelve el estado del tier indicado (desconocido = "").
func (pa *ProjectApproval) TierStatus(tier string) string {
	switch tier {
	case TierLead:
		return pa.LeadStatus
	case TierManager:
		return pa.ManagerStatus
	case TierManagement:
		return pa.ManagementStatus
	}
	return ""
}

// HasRejection indica si algún tier de este registro está rechazado.
func (pa *ProjectApproval) HasRejection() bool {
	return pa.LeadStatus == ApprovalRejected ||
		pa.ManagerStatus == ApprovalRejected ||
		pa.ManagementStatus == ApprovalRejected
}
