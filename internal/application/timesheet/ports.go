package timesheet

import (
	"context"

	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos del core atados
// a la tx. La recomputación de consenso lee el ledger completo dentro de la
// misma transacción que escribe el cambio que la dispara.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		tsRepo repository.TimesheetRepository,
		entryRepo repository.TimeEntryRepository,
		approvalRepo repository.ProjectApprovalRepository,
	) error) error
}
