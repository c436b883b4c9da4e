package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	apptimesheet "github.com/jhoicas/Timetrack-api/internal/application/timesheet"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

var _ apptimesheet.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del core atados a la tx
// y hace Commit o Rollback. La recomputación de consenso lee el ledger dentro
// de esta misma transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	tsRepo repository.TimesheetRepository,
	entryRepo repository.TimeEntryRepository,
	approvalRepo repository.ProjectApprovalRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tsRepo := NewTimesheetRepository(tx)
	entryRepo := NewTimeEntryRepository(tx)
	approvalRepo := NewProjectApprovalRepository(tx)

	if err := fn(tsRepo, entryRepo, approvalRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
