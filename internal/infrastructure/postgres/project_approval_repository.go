package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timetrack-api/internal/domain"
	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

var _ repository.ProjectApprovalRepository = (*ProjectApprovalRepo)(nil)

// ProjectApprovalRepo implementación de ProjectApprovalRepository sobre
// PostgreSQL. Las escrituras de tier son UPDATE condicionados al estado
// previo; cero filas afectadas significa que otra escritura ganó la carrera y
// se devuelve domain.ErrStaleState.
type ProjectApprovalRepo struct {
	q Querier
}

// NewProjectApprovalRepository construye el adaptador.
func NewProjectApprovalRepository(q Querier) *ProjectApprovalRepo {
	return &ProjectApprovalRepo{q: q}
}

const approvalColumns = `id, timesheet_id, project_id, lead_status, manager_status, management_status, billable_adjustment, rejection_reason, rejected_by, rejected_at, created_at, updated_at`

// Columnas válidas de tier; el nombre llega de constantes del dominio, nunca
// de entrada del usuario, pero se valida igual antes de interpolar.
func tierColumn(tier string) (string, error) {
	switch tier {
	case entity.TierLead:
		return "lead_status", nil
	case entity.TierManager:
		return "manager_status", nil
	case entity.TierManagement:
		return "management_status", nil
	}
	return "", fmt.Errorf("%w: tier desconocido %q", domain.ErrInvalidInput, tier)
}

// Create persiste un registro de aprobación con todos los tiers en pending.
func (r *ProjectApprovalRepo) Create(pa *entity.ProjectApproval) error {
	if pa.ID == "" {
		pa.ID = uuid.New().String()
	}
	query := `
		INSERT INTO project_approvals (id, timesheet_id, project_id, lead_status, manager_status, management_status, billable_adjustment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		pa.ID, pa.TimesheetID, pa.ProjectID,
		pa.LeadStatus, pa.ManagerStatus, pa.ManagementStatus,
		pa.BillableAdjustment, pa.CreatedAt, pa.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project approval: %w", err)
	}
	return nil
}

// GetByTimesheetAndProject obtiene el registro del par (hoja, proyecto).
func (r *ProjectApprovalRepo) GetByTimesheetAndProject(timesheetID, projectID string) (*entity.ProjectApproval, error) {
	query := `SELECT ` + approvalColumns + ` FROM project_approvals WHERE timesheet_id = $1 AND project_id = $2`
	row := r.q.QueryRow(context.Background(), query, timesheetID, projectID)
	pa, err := scanApproval(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project approval: %w", err)
	}
	return pa, nil
}

// ListByTimesheet lista el ledger completo de la hoja.
func (r *ProjectApprovalRepo) ListByTimesheet(timesheetID string) ([]*entity.ProjectApproval, error) {
	query := `SELECT ` + approvalColumns + ` FROM project_approvals WHERE timesheet_id = $1 ORDER BY project_id`
	rows, err := r.q.Query(context.Background(), query, timesheetID)
	if err != nil {
		return nil, fmt.Errorf("list project approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*entity.ProjectApproval
	for rows.Next() {
		pa, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project approval: %w", err)
		}
		approvals = append(approvals, pa)
	}
	return approvals, rows.Err()
}

// ApproveTier pasa el tier de pending a approved. CAS: solo escribe si el
// tier sigue pending; si no, ErrStaleState.
func (r *ProjectApprovalRepo) ApproveTier(id, tier string) error {
	col, err := tierColumn(tier)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE project_approvals
		SET %s = 'approved', updated_at = $2
		WHERE id = $1 AND %s = 'pending'`, col, col)
	tag, err := r.q.Exec(context.Background(), query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("approve tier %s: %w", tier, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleState
	}
	return nil
}

// RejectTier pasa el tier a rejected con metadatos. Se admite desde pending o
// approved; solo un tier ya rechazado hace fallar el CAS.
func (r *ProjectApprovalRepo) RejectTier(id, tier, reason, rejectedBy string, at time.Time) error {
	col, err := tierColumn(tier)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE project_approvals
		SET %s = 'rejected', rejection_reason = $2, rejected_by = $3, rejected_at = $4, updated_at = $4
		WHERE id = $1 AND %s IN ('pending', 'approved')`, col, col)
	tag, err := r.q.Exec(context.Background(), query, id, nullIfEmpty(reason), rejectedBy, at)
	if err != nil {
		return fmt.Errorf("reject tier %s: %w", tier, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleState
	}
	return nil
}

// ResetLedger reinicia todos los tiers de todos los registros de la hoja a
// pending en un solo UPDATE (rollback de rechazo y reenvío). excludeID
// conserva intacto el registro recién rechazado; pasar "" para reiniciar todo.
func (r *ProjectApprovalRepo) ResetLedger(timesheetID, excludeID string) error {
	query := `
		UPDATE project_approvals
		SET lead_status = 'pending', manager_status = 'pending', management_status = 'pending',
		    rejection_reason = NULL, rejected_by = NULL, rejected_at = NULL, updated_at = $3
		WHERE timesheet_id = $1 AND ($2 = '' OR id != $2)`
	_, err := r.q.Exec(context.Background(), query, timesheetID, excludeID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	return nil
}

// SetBillableAdjustment fija el ajuste facturable mientras el tier manager
// sigue pending; si ya avanzó, ErrStaleState.
func (r *ProjectApprovalRepo) SetBillableAdjustment(id string, adjustment decimal.Decimal) error {
	query := `
		UPDATE project_approvals
		SET billable_adjustment = $2, updated_at = $3
		WHERE id = $1 AND manager_status = 'pending'`
	tag, err := r.q.Exec(context.Background(), query, id, adjustment, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set billable adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleState
	}
	return nil
}

// DeleteStale elimina registros de proyectos que ya no aparecen en las
// entradas de la hoja (re-sincronización en el reenvío).
func (r *ProjectApprovalRepo) DeleteStale(timesheetID string, keepProjectIDs []string) error {
	query := `DELETE FROM project_approvals WHERE timesheet_id = $1 AND project_id != ALL($2)`
	_, err := r.q.Exec(context.Background(), query, timesheetID, keepProjectIDs)
	if err != nil {
		return fmt.Errorf("delete stale approvals: %w", err)
	}
	return nil
}

func scanApproval(row pgx.Row) (*entity.ProjectApproval, error) {
	var pa entity.ProjectApproval
	err := row.Scan(
		&pa.ID, &pa.TimesheetID, &pa.ProjectID,
		&pa.LeadStatus, &pa.ManagerStatus, &pa.ManagementStatus,
		&pa.BillableAdjustment, &pa.RejectionReason, &pa.RejectedBy, &pa.RejectedAt,
		&pa.CreatedAt, &pa.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pa, nil
}
