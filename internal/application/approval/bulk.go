package approval

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Timetrack-api/internal/application/dto"
	"github.com/jhoicas/Timetrack-api/internal/domain"
	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	dtimesheet "github.com/jhoicas/Timetrack-api/internal/domain/timesheet"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

// Razones por elemento de las operaciones masivas. Son datos del manifiesto,
// no errores: un fallo en un elemento nunca aborta el lote.
var (
	errItemNotFound          = errors.New("timesheet not found")
	errManagerIncomplete     = errors.New("manager approval incomplete")
	errNotFrozen             = errors.New("timesheet not frozen")
	errNotVerifiable         = errors.New("not in a verifiable status")
	errAlreadyFrozenOrBilled = errors.New("already frozen or billed")
)

// BulkVerify aplica la verificación de management sobre cada hoja del lote.
// Cada elemento se evalúa de forma independiente: los fallos se enumeran en el
// manifiesto y el lote continúa. projectID opcional acota a ese proyecto.
func (uc *ApprovalUseCase) BulkVerify(ctx context.Context, actor dto.Actor, timesheetIDs []string, projectID string) (*dto.Manifest, error) {
	if !dtimesheet.CanVerify(actor.Role) {
		return nil, domain.ErrPermissionDenied
	}
	manifest := newManifest()
	for _, id := range timesheetIDs {
		if err := uc.verifyOne(ctx, actor, id, projectID); err != nil {
			manifest.Failed = append(manifest.Failed, dto.ItemFailure{ID: id, Reason: itemReason(err)})
			continue
		}
		manifest.Processed = append(manifest.Processed, id)
	}
	manifest.ProcessedCount = len(manifest.Processed)
	uc.log.Info().
		Str("actor_id", actor.ID).
		Int("processed", manifest.ProcessedCount).
		Int("failed", len(manifest.Failed)).
		Msg("bulk verify completado")
	return manifest, nil
}

// BulkBill factura cada hoja congelada del lote (estado terminal billed).
func (uc *ApprovalUseCase) BulkBill(ctx context.Context, actor dto.Actor, timesheetIDs []string) (*dto.Manifest, error) {
	if !dtimesheet.CanBill(actor.Role) {
		return nil, domain.ErrPermissionDenied
	}
	manifest := newManifest()
	for _, id := range timesheetIDs {
		if err := uc.billOne(ctx, id); err != nil {
			manifest.Failed = append(manifest.Failed, dto.ItemFailure{ID: id, Reason: itemReason(err)})
			continue
		}
		manifest.Processed = append(manifest.Processed, id)
	}
	manifest.ProcessedCount = len(manifest.Processed)
	uc.log.Info().
		Str("actor_id", actor.ID).
		Int("processed", manifest.ProcessedCount).
		Int("failed", len(manifest.Failed)).
		Msg("bulk bill completado")
	return manifest, nil
}

// FreezeProjectWeek congela todas las hojas con entradas del proyecto en las
// semanas [weekStart, weekEnd]. Legal por hoja solo con todos los managers
// aprobados; las entradas quedan inmutables.
func (uc *ApprovalUseCase) FreezeProjectWeek(ctx context.Context, actor dto.Actor, projectID string, weekStart, weekEnd time.Time) (*dto.Manifest, error) {
	if !dtimesheet.CanVerify(actor.Role) {
		return nil, domain.ErrPermissionDenied
	}
	manifest := newManifest()
	seen := map[string]bool{}
	for week := dtimesheet.MondayOf(weekStart); !week.After(weekEnd); week = week.AddDate(0, 0, 7) {
		sheets, err := uc.tsRepo.ListByProjectWeek(projectID, week)
		if err != nil {
			return nil, err
		}
		for _, ts := range sheets {
			if seen[ts.ID] {
				continue
			}
			seen[ts.ID] = true
			if err := uc.freezeOne(ctx, ts.ID); err != nil {
				manifest.Failed = append(manifest.Failed, dto.ItemFailure{ID: ts.ID, Reason: itemReason(err)})
				continue
			}
			manifest.Processed = append(manifest.Processed, ts.ID)
		}
	}
	manifest.ProcessedCount = len(manifest.Processed)
	uc.log.Info().
		Str("project_id", projectID).
		Str("actor_id", actor.ID).
		Int("processed", manifest.ProcessedCount).
		Int("failed", len(manifest.Failed)).
		Msg("freeze de project-week completado")
	return manifest, nil
}

// ProjectWeek aprueba o rechaza el proyecto en todas las hojas de usuarios que
// comparten ese project-week, con semántica por elemento.
func (uc *ApprovalUseCase) ProjectWeek(ctx context.Context, actor dto.Actor, projectID string, weekStart time.Time, action, reason string) (*dto.Manifest, error) {
	if action == "reject" && reason == "" {
		return nil, domain.ErrInvalidInput
	}
	sheets, err := uc.tsRepo.ListByProjectWeek(projectID, dtimesheet.MondayOf(weekStart))
	if err != nil {
		return nil, err
	}
	manifest := newManifest()
	for _, ts := range sheets {
		var itemErr error
		switch action {
		case "approve":
			_, itemErr = uc.approveOne(ctx, actor, ts.ID, projectID)
		case "reject":
			_, itemErr = uc.rejectOne(ctx, actor, ts.ID, projectID, reason)
		default:
			return nil, domain.ErrInvalidInput
		}
		if itemErr != nil {
			manifest.Failed = append(manifest.Failed, dto.ItemFailure{ID: ts.ID, Reason: itemReason(itemErr)})
			continue
		}
		manifest.Processed = append(manifest.Processed, ts.ID)
	}
	manifest.ProcessedCount = len(manifest.Processed)
	return manifest, nil
}

// verifyOne marca approved el tier management del alcance dado, por hoja y en
// su propia transacción (serializa contra otras escrituras de la misma hoja).
func (uc *ApprovalUseCase) verifyOne(ctx context.Context, actor dto.Actor, timesheetID, projectID string) error {
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
			return errItemNotFound
		}
		switch locked.Status {
		case entity.TimesheetSubmitted, entity.TimesheetManagementPending:
		default:
			return errNotVerifiable
		}

		approvals, err := approvalRepo.ListByTimesheet(timesheetID)
		if err != nil {
			return err
		}
		targets := approvals
		if projectID != "" {
			targets = nil
			for _, pa := range approvals {
				if pa.ProjectID == projectID {
					targets = append(targets, pa)
				}
			}
			if len(targets) == 0 {
				return errItemNotFound
			}
		}
		for _, pa := range targets {
			if pa.ManagerStatus != entity.ApprovalApproved {
				return errManagerIncomplete
			}
		}
		for _, pa := range targets {
			if pa.ManagementStatus != entity.ApprovalPending {
				continue
			}
			if err := approvalRepo.ApproveTier(pa.ID, entity.TierManagement); err != nil {
				return err
			}
		}

		approvals, err = approvalRepo.ListByTimesheet(timesheetID)
		if err != nil {
			return err
		}
		return tsRepo.UpdateStatus(timesheetID, dtimesheet.DeriveStatus(locked, approvals))
	})
}

// billOne factura una hoja congelada (transición terminal frozen → billed).
func (uc *ApprovalUseCase) billOne(ctx context.Context, timesheetID string) error {
	return uc.txRunner.Run(ctx, func(
		tsRepo repository.TimesheetRepository,
		_ repository.TimeEntryRepository,
		_ repository.ProjectApprovalRepository,
	) error {
		locked, err := tsRepo.GetByIDForUpdate(timesheetID)
		if err != nil {
			return err
		}
		if locked == nil {
			return errItemNotFound
		}
		if locked.Status != entity.TimesheetFrozen {
			return errNotFrozen
		}
		return tsRepo.UpdateStatus(timesheetID, entity.TimesheetBilled)
	})
}

// freezeOne congela una hoja cuyo ledger tiene todos los managers aprobados.
func (uc *ApprovalUseCase) freezeOne(ctx context.Context, timesheetID string) error {
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
			return errItemNotFound
		}
		if locked.Status == entity.TimesheetFrozen || locked.Status == entity.TimesheetBilled {
			return errAlreadyFrozenOrBilled
		}
		approvals, err := approvalRepo.ListByTimesheet(timesheetID)
		if err != nil {
			return err
		}
		if len(approvals) == 0 {
			return errManagerIncomplete
		}
		for _, pa := range approvals {
			if pa.ManagerStatus != entity.ApprovalApproved {
				return errManagerIncomplete
			}
		}
		return tsRepo.UpdateStatus(timesheetID, entity.TimesheetFrozen)
	})
}

func newManifest() *dto.Manifest {
	return &dto.Manifest{Processed: []string{}, Failed: []dto.ItemFailure{}}
}

// itemReason traduce errores bien conocidos a la razón por elemento del
// manifiesto.
func itemReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errItemNotFound.Error()
	case errors.Is(err, domain.ErrPermissionDenied):
		return "permission denied"
	case errors.Is(err, domain.ErrIllegalTransition):
		return "illegal transition for current status"
	case errors.Is(err, domain.ErrStaleState):
		return "stale state, refresh and retry"
	}
	return err.Error()
}
