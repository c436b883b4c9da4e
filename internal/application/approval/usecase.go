package approval

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timetrack-api/internal/application/dto"
	apptimesheet "github.com/jhoicas/Timetrack-api/internal/application/timesheet"
	"github.com/jhoicas/Timetrack-api/internal/domain"
	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	dtimesheet "github.com/jhoicas/Timetrack-api/internal/domain/timesheet"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
	"github.com/jhoicas/Timetrack-api/pkg/logger"
)

// ApprovalUseCase acciones de aprobación sobre un par (timesheet, project):
// approve/reject por tier, ajuste facturable del manager y lectura del ledger.
// Cada acción recomputa el consenso dentro de la misma transacción que
// escribe el cambio, con la fila de la hoja bloqueada (FOR UPDATE).
type ApprovalUseCase struct {
	txRunner     apptimesheet.TxRunner
	tsRepo       repository.TimesheetRepository
	approvalRepo repository.ProjectApprovalRepository
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
	log          *logger.Logger
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(
	txRunner apptimesheet.TxRunner,
	tsRepo repository.TimesheetRepository,
	approvalRepo repository.ProjectApprovalRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	log *logger.Logger,
) *ApprovalUseCase {
	return &ApprovalUseCase{
		txRunner:     txRunner,
		tsRepo:       tsRepo,
		approvalRepo: approvalRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		log:          log,
	}
}

// Approve aprueba el tier del actor para ese proyecto. No cambia por sí mismo
// el estado visible de la hoja: el consenso lo recomputa.
func (uc *ApprovalUseCase) Approve(ctx context.Context, actor dto.Actor, timesheetID, projectID string) (*dto.StatusResponse, error) {
	status, err := uc.approveOne(ctx, actor, timesheetID, projectID)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("timesheet_id", timesheetID).
		Str("project_id", projectID).
		Str("actor_id", actor.ID).
		Str("status", status).
		Msg("aprobación registrada")
	return &dto.StatusResponse{Status: status, DisplayStatus: displayOf(status)}, nil
}

// Reject rechaza el tier del actor para ese proyecto y reinicia el ledger
// completo de la hoja a pending: un rechazo invalida todo el progreso y
// fuerza re-revisión total tras la corrección.
func (uc *ApprovalUseCase) Reject(ctx context.Context, actor dto.Actor, timesheetID, projectID, reason string) (*dto.StatusResponse, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	status, err := uc.rejectOne(ctx, actor, timesheetID, projectID, reason)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("timesheet_id", timesheetID).
		Str("project_id", projectID).
		Str("actor_id", actor.ID).
		Str("status", status).
		Msg("rechazo registrado, ledger reiniciado")
	return &dto.StatusResponse{Status: status, DisplayStatus: displayOf(status)}, nil
}

// SetAdjustment fija el ajuste facturable del manager sobre un proyecto.
// Es exclusivo del tier manager (management no lo subsume) y solo mientras
// el tier manager sigue pending.
func (uc *ApprovalUseCase) SetAdjustment(ctx context.Context, actor dto.Actor, timesheetID, projectID string, adjustment decimal.Decimal) error {
	level, _, err := uc.actorLevelFor(actor, timesheetID, projectID)
	if err != nil {
		return err
	}
	if dtimesheet.TierForLevel(level) != entity.TierManager {
		return domain.ErrPermissionDenied
	}
	return uc.txRunner.Run(ctx, func(
		tsRepo repository.TimesheetRepository,
		_ repository.TimeEntryRepository,
		approvalRepo repository.ProjectApprovalRepository,
	) error {
		locked, err := tsRepo.GetByIDForUpdate(timesheetID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		pa, err := approvalRepo.GetByTimesheetAndProject(timesheetID, projectID)
		if err != nil {
			return err
		}
		if pa == nil {
			return domain.ErrNotFound
		}
		return approvalRepo.SetBillableAdjustment(pa.ID, adjustment)
	})
}

// GetLedger devuelve los registros de aprobación de la hoja (dueño o aprobador).
func (uc *ApprovalUseCase) GetLedger(ctx context.Context, actor dto.Actor, timesheetID string) ([]dto.ApprovalResponse, error) {
	ts, err := uc.tsRepo.GetByID(timesheetID)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, domain.ErrNotFound
	}
	if ts.UserID != actor.ID {
		if err := uc.canReadLedger(actor, ts); err != nil {
			return nil, err
		}
	}
	approvals, err := uc.approvalRepo.ListByTimesheet(timesheetID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ApprovalResponse, 0, len(approvals))
	for _, pa := range approvals {
		out = append(out, toApprovalResponse(pa))
	}
	return out, nil
}

// canReadLedger autoriza lectura del ledger a un aprobador: por rol de
// sistema superior al del dueño, o por rol de proyecto en alguno de los
// proyectos del ledger con nivel efectivo superior (quien puede aprobar un
// tier también puede ver el estado de los tiers).
func (uc *ApprovalUseCase) canReadLedger(actor dto.Actor, ts *entity.Timesheet) error {
	owner, err := uc.userRepo.GetByID(ts.UserID)
	if err != nil {
		return err
	}
	if owner == nil {
		return domain.ErrNotFound
	}
	if dtimesheet.CanApprove(actor.Role, owner.Role) {
		return nil
	}
	approvals, err := uc.approvalRepo.ListByTimesheet(ts.ID)
	if err != nil {
		return err
	}
	ownerLevel := dtimesheet.Level(owner.Role)
	for _, pa := range approvals {
		projectRole, err := uc.projectRepo.GetMemberRole(pa.ProjectID, actor.ID)
		if err != nil {
			return err
		}
		if dtimesheet.EffectiveLevel(actor.Role, projectRole) > ownerLevel {
			return nil
		}
	}
	return domain.ErrPermissionDenied
}

// approveOne ejecuta la aprobación dentro de una transacción y devuelve el
// estado derivado resultante.
func (uc *ApprovalUseCase) approveOne(ctx context.Context, actor dto.Actor, timesheetID, projectID string) (string, error) {
	level, _, err := uc.actorLevelFor(actor, timesheetID, projectID)
	if err != nil {
		return "", err
	}
	tier := dtimesheet.TierForLevel(level)
	if tier == "" {
		return "", domain.ErrPermissionDenied
	}

	var newStatus string
	err = uc.txRunner.Run(ctx, func(
		tsRepo repository.TimesheetRepository,
		_ repository.TimeEntryRepository,
		approvalRepo repository.ProjectApprovalRepository,
	) error {
		locked, err := tsRepo.GetByIDForUpdate(timesheetID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		switch locked.Status {
		case entity.TimesheetSubmitted, entity.TimesheetManagementPending:
		default:
			return domain.ErrIllegalTransition
		}

		pa, err := approvalRepo.GetByTimesheetAndProject(timesheetID, projectID)
		if err != nil {
			return err
		}
		if pa == nil {
			return domain.ErrNotFound
		}
		// El tier management solo actúa cuando el consenso de managers existe.
		if tier == entity.TierManagement && pa.ManagerStatus != entity.ApprovalApproved {
			return domain.ErrIllegalTransition
		}
		if pa.TierStatus(tier) != entity.ApprovalPending {
			return domain.ErrIllegalTransition
		}
		// Compare-and-set: si otro aprobador ganó la carrera, stale state.
		if err := approvalRepo.ApproveTier(pa.ID, tier); err != nil {
			return err
		}

		approvals, err := approvalRepo.ListByTimesheet(timesheetID)
		if err != nil {
			return err
		}
		newStatus = dtimesheet.DeriveStatus(locked, approvals)
		return tsRepo.UpdateStatus(timesheetID, newStatus)
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// rejectOne ejecuta el rechazo y el rollback del ledger en una transacción.
func (uc *ApprovalUseCase) rejectOne(ctx context.Context, actor dto.Actor, timesheetID, projectID, reason string) (string, error) {
	level, _, err := uc.actorLevelFor(actor, timesheetID, projectID)
	if err != nil {
		return "", err
	}
	tier := dtimesheet.TierForLevel(level)
	if tier == "" {
		return "", domain.ErrPermissionDenied
	}

	var newStatus string
	err = uc.txRunner.Run(ctx, func(
		tsRepo repository.TimesheetRepository,
		_ repository.TimeEntryRepository,
		approvalRepo repository.ProjectApprovalRepository,
	) error {
		locked, err := tsRepo.GetByIDForUpdate(timesheetID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		switch locked.Status {
		case entity.TimesheetSubmitted, entity.TimesheetManagementPending, entity.TimesheetManagementApproved:
		default:
			return domain.ErrIllegalTransition
		}

		pa, err := approvalRepo.GetByTimesheetAndProject(timesheetID, projectID)
		if err != nil {
			return err
		}
		if pa == nil {
			return domain.ErrNotFound
		}
		// El rechazo sí retrocede un tier ya aprobado; solo un tier ya
		// rechazado es ilegal.
		if pa.TierStatus(tier) == entity.ApprovalRejected {
			return domain.ErrIllegalTransition
		}
		if err := approvalRepo.RejectTier(pa.ID, tier, reason, actor.ID, time.Now()); err != nil {
			return err
		}
		// Rollback atómico del resto del ledger: una sola escritura, nunca
		// estados a medio reiniciar.
		if err := approvalRepo.ResetLedger(timesheetID, pa.ID); err != nil {
			return err
		}

		approvals, err := approvalRepo.ListByTimesheet(timesheetID)
		if err != nil {
			return err
		}
		newStatus = dtimesheet.DeriveStatus(locked, approvals)
		return tsRepo.UpdateStatus(timesheetID, newStatus)
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// actorLevelFor resuelve el nivel efectivo del actor sobre el proyecto
// (rol de sistema o rol de proyecto, el mayor) y verifica que supere
// estrictamente el nivel del dueño de la hoja.
func (uc *ApprovalUseCase) actorLevelFor(actor dto.Actor, timesheetID, projectID string) (int, *entity.Timesheet, error) {
	ts, err := uc.tsRepo.GetByID(timesheetID)
	if err != nil {
		return 0, nil, err
	}
	if ts == nil {
		return 0, nil, domain.ErrNotFound
	}
	owner, err := uc.userRepo.GetByID(ts.UserID)
	if err != nil {
		return 0, nil, err
	}
	if owner == nil {
		return 0, nil, domain.ErrNotFound
	}
	projectRole := ""
	if projectID != "" {
		projectRole, err = uc.projectRepo.GetMemberRole(projectID, actor.ID)
		if err != nil {
			return 0, nil, err
		}
	}
	level := dtimesheet.EffectiveLevel(actor.Role, projectRole)
	if level <= dtimesheet.Level(owner.Role) {
		return 0, nil, domain.ErrPermissionDenied
	}
	return level, ts, nil
}

// displayOf colapsa un estado fino al simplificado sin cargar la entidad.
func displayOf(status string) string {
	ts := entity.Timesheet{Status: status}
	return ts.DisplayStatus()
}

func toApprovalResponse(pa *entity.ProjectApproval) dto.ApprovalResponse {
	resp := dto.ApprovalResponse{
		ID:                 pa.ID,
		TimesheetID:        pa.TimesheetID,
		ProjectID:          pa.ProjectID,
		LeadStatus:         pa.LeadStatus,
		ManagerStatus:      pa.ManagerStatus,
		ManagementStatus:   pa.ManagementStatus,
		BillableAdjustment: pa.BillableAdjustment,
		RejectedAt:         pa.RejectedAt,
	}
	if pa.RejectionReason != nil {
		resp.RejectionReason = *pa.RejectionReason
	}
	if pa.RejectedBy != nil {
		resp.RejectedBy = *pa.RejectedBy
	}
	return resp
}
