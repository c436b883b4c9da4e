package timesheet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timetrack-api/internal/application/dto"
	"github.com/jhoicas/Timetrack-api/internal/domain"
	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	dtimesheet "github.com/jhoicas/Timetrack-api/internal/domain/timesheet"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

// Submit envía la hoja: ejecuta el validador (advertencias, nunca bloquea),
// hace fan-out de un ProjectApproval por proyecto distinto y deja la hoja en
// submitted. Desde un estado rechazado re-sincroniza el ledger existente.
func (uc *TimesheetUseCase) Submit(ctx context.Context, actor dto.Actor, timesheetID string) (*dto.SubmitResponse, error) {
	ts, err := uc.tsRepo.GetByID(timesheetID)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, domain.ErrNotFound
	}
	// Solo el dueño envía su propia hoja.
	if ts.UserID != actor.ID {
		return nil, domain.ErrPermissionDenied
	}
	if ts.Status != entity.TimesheetDraft && !ts.IsRejected() {
		return nil, domain.ErrIllegalTransition
	}

	entries, err := uc.entryRepo.ListByTimesheet(ts.ID)
	if err != nil {
		return nil, err
	}
	// Enviar requiere al menos una entrada.
	if len(entries) == 0 {
		return nil, domain.ErrInvalidInput
	}

	warnings := dtimesheet.Validate(entries, time.Now())
	if warnings == nil {
		warnings = []string{}
	}

	err = uc.txRunner.Run(ctx, func(
		tsRepo repository.TimesheetRepository,
		entryRepo repository.TimeEntryRepository,
		approvalRepo repository.ProjectApprovalRepository,
	) error {
		// Bloquea la fila de la hoja: serializa contra aprobaciones concurrentes.
		locked, err := tsRepo.GetByIDForUpdate(ts.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.Status != entity.TimesheetDraft && !locked.IsRejected() {
			return domain.ErrIllegalTransition
		}

		projectIDs, err := entryRepo.DistinctProjectIDs(ts.ID)
		if err != nil {
			return err
		}
		existing, err := approvalRepo.ListByTimesheet(ts.ID)
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, pa := range existing {
			have[pa.ProjectID] = true
		}
		now := time.Now()
		for _, pid := range projectIDs {
			if have[pid] {
				continue
			}
			pa := &entity.ProjectApproval{
				ID:                 uuid.New().String(),
				TimesheetID:        ts.ID,
				ProjectID:          pid,
				LeadStatus:         entity.ApprovalPending,
				ManagerStatus:      entity.ApprovalPending,
				ManagementStatus:   entity.ApprovalPending,
				BillableAdjustment: decimal.Zero,
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			if err := approvalRepo.Create(pa); err != nil {
				return err
			}
		}
		// Reenvío: reinicia tiers existentes y poda proyectos que ya no aparecen.
		if len(existing) > 0 {
			if err := approvalRepo.ResetLedger(ts.ID, ""); err != nil {
				return err
			}
			if err := approvalRepo.DeleteStale(ts.ID, projectIDs); err != nil {
				return err
			}
		}
		return tsRepo.UpdateStatus(ts.ID, entity.TimesheetSubmitted)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("timesheet_id", ts.ID).
		Str("user_id", actor.ID).
		Int("warnings", len(warnings)).
		Msg("hoja de tiempo enviada")

	return &dto.SubmitResponse{Status: entity.TimesheetSubmitted, Warnings: warnings}, nil
}
