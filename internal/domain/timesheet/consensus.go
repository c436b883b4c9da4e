package timesheet

import "github.com/jhoicas/Timetrack-api/internal/domain/entity"

// DeriveStatus reduce el ledger de ProjectApprovals al estado agregado de la
// Timesheet. Es una función pura: se ejecuta tras cada mutación del ledger y
// el resultado es el único estado autoritativo (la columna status solo cachea).
//
// Orden de reducción:
//  1. Cualquier tier rechazado → *_rejected del tier correspondiente.
//  2. Algún manager_status sin aprobar → submitted (un solo manager pendiente
//     bloquea toda la hoja, aunque el resto de proyectos esté aprobado).
//  3. Algún management_status sin aprobar → management_pending.
//  4. Todo aprobado → management_approved; frozen/billed se conservan si ya
//     fueron alcanzados por una acción explícita de Freeze/Bill.
func DeriveStatus(ts *entity.Timesheet, approvals []*entity.ProjectApproval) string {
	// Estados terminales alcanzados por acción explícita, nunca por consenso.
	if ts.Status == entity.TimesheetFrozen || ts.Status == entity.TimesheetBilled {
		return ts.Status
	}
	// Sin ledger no hay envío: draft se conserva.
	if len(approvals) == 0 {
		return ts.Status
	}

	// Un rechazo invalida el progreso completo; el tier más alto manda si
	// hubiera más de uno.
	for _, tier := range []string{entity.TierManagement, entity.TierManager, entity.TierLead} {
		for _, pa := range approvals {
			if pa.TierStatus(tier) == entity.ApprovalRejected {
				switch tier {
				case entity.TierManagement:
					return entity.TimesheetManagementRejected
				case entity.TierManager:
					return entity.TimesheetManagerRejected
				default:
					return entity.TimesheetLeadRejected
				}
			}
		}
	}

	for _, pa := range approvals {
		if pa.ManagerStatus != entity.ApprovalApproved {
			return entity.TimesheetSubmitted
		}
	}
	for _, pa := range approvals {
		if pa.ManagementStatus != entity.ApprovalApproved {
			return entity.TimesheetManagementPending
		}
	}
	return entity.TimesheetManagementApproved
}
