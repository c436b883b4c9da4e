package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados agregados de una Timesheet. El estado agregado siempre es derivable
// del ledger de ProjectApprovals; la columna status es solo caché de lectura.
const (
	TimesheetDraft              = "draft"
	TimesheetSubmitted          = "submitted"
	TimesheetLeadRejected       = "lead_rejected"
	TimesheetManagerRejected    = "manager_rejected"
	TimesheetManagementRejected = "management_rejected"
	TimesheetManagementPending  = "management_pending"
	TimesheetManagementApproved = "management_approved"
	TimesheetFrozen             = "frozen"
	TimesheetBilled             = "billed"
)

// Estados simplificados para usuarios fuera del circuito de aprobación.
const (
	DisplayDraft     = "draft"
	DisplaySubmitted = "submitted"
	DisplayApproved  = "approved"
	DisplayRejected  = "rejected"
	DisplayFrozen    = "frozen"
	DisplayBilled    = "billed"
)

// Timesheet agrupa las TimeEntries de un usuario en una semana ISO
// (WeekStartDate anclado a lunes). TotalHours es denormalizado.
type Timesheet struct {
	ID            string
	UserID        string
	WeekStartDate time.Time
	Status        string
	TotalHours    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsEditable indica si las entradas son mutables: solo en draft o en
// cualquier estado rechazado. Inmutables entre submitted y frozen inclusive.
func (t *Timesheet) IsEditable() bool {
	switch t.Status {
	case TimesheetDraft, TimesheetLeadRejected, TimesheetManagerRejected, TimesheetManagementRejected:
		return true
	}
	return false
}

// IsRejected indica si el estado actual es un rechazo de cualquier tier.
func (t *Timesheet) IsRejected() bool {
	switch t.Status {
	case TimesheetLeadRejected, TimesheetManagerRejected, TimesheetManagementRejected:
		return true
	}
	return false
}

// DisplayStatus colapsa el estado fino al orden total simplificado que ve un
// usuario fuera del circuito de aprobación.
func (t *Timesheet) DisplayStatus() string {
	switch t.Status {
	case TimesheetDraft:
		return DisplayDraft
	case TimesheetSubmitted, TimesheetManagementPending:
		return DisplaySubmitted
	case TimesheetManagementApproved:
		return DisplayApproved
	case TimesheetLeadRejected, TimesheetManagerRejected, TimesheetManagementRejected:
		return DisplayRejected
	case TimesheetFrozen:
		return DisplayFrozen
	case TimesheetBilled:
		return DisplayBilled
	}
	return t.Status
}
