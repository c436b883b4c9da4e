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
	"github.com/jhoicas/Timetrack-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// TimesheetUseCase casos de uso de la hoja de tiempo: semana del usuario,
// CRUD de entradas (solo en estados editables) y estado efectivo.
type TimesheetUseCase struct {
	txRunner     TxRunner
	tsRepo       repository.TimesheetRepository
	entryRepo    repository.TimeEntryRepository
	approvalRepo repository.ProjectApprovalRepository
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
	log          *logger.Logger
}

// NewTimesheetUseCase construye el caso de uso.
func NewTimesheetUseCase(
	txRunner TxRunner,
	tsRepo repository.TimesheetRepository,
	entryRepo repository.TimeEntryRepository,
	approvalRepo repository.ProjectApprovalRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	log *logger.Logger,
) *TimesheetUseCase {
	return &TimesheetUseCase{
		txRunner:     txRunner,
		tsRepo:       tsRepo,
		entryRepo:    entryRepo,
		approvalRepo: approvalRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		log:          log,
	}
}

// GetOrCreateWeek devuelve la hoja del actor para la semana de la fecha dada,
// creándola en draft si no existe. La fecha se ancla al lunes de su semana ISO.
func (uc *TimesheetUseCase) GetOrCreateWeek(ctx context.Context, actor dto.Actor, date time.Time) (*dto.TimesheetResponse, error) {
	weekStart := dtimesheet.MondayOf(date)
	ts, err := uc.tsRepo.GetByUserAndWeek(actor.ID, weekStart)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		now := time.Now()
		ts = &entity.Timesheet{
			ID:            uuid.New().String(),
			UserID:        actor.ID,
			WeekStartDate: weekStart,
			Status:        entity.TimesheetDraft,
			TotalHours:    decimal.Zero,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uc.tsRepo.Create(ts); err != nil {
			return nil, err
		}
	}
	return uc.toResponse(ts, true)
}

// GetTimesheet obtiene la hoja con entradas. Acceso: el dueño, o un actor cuyo
// nivel efectivo supere al del dueño (aprobadores).
func (uc *TimesheetUseCase) GetTimesheet(ctx context.Context, actor dto.Actor, id string) (*dto.TimesheetResponse, error) {
	ts, err := uc.tsRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.canRead(actor, ts); err != nil {
		return nil, err
	}
	return uc.toResponse(ts, true)
}

// AddEntry crea una entrada en la hoja del actor. Solo en estados editables;
// el guardado nunca ejecuta la validación de envío (esa solo advierte al enviar).
func (uc *TimesheetUseCase) AddEntry(ctx context.Context, actor dto.Actor, timesheetID string, in dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	ts, err := uc.ownedEditable(actor, timesheetID)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	// La entrada no puede caer fuera de la semana de su hoja.
	if !dtimesheet.InWeek(date, ts.WeekStartDate) {
		return nil, domain.ErrInvalidInput
	}
	if !in.Hours.GreaterThan(decimal.Zero) || in.Hours.GreaterThan(decimal.NewFromInt(24)) {
		return nil, domain.ErrInvalidInput
	}

	entry := &entity.TimeEntry{
		ID:          uuid.New().String(),
		TimesheetID: ts.ID,
		ProjectID:   in.ProjectID,
		Date:        date,
		Hours:       in.Hours,
		Description: in.Description,
		IsBillable:  in.IsBillable,
		EntryType:   in.EntryType,
	}
	switch in.EntryType {
	case entity.EntryTypeProjectTask:
		if in.TaskID == "" {
			return nil, domain.ErrInvalidInput
		}
		task, err := uc.projectRepo.GetTask(in.TaskID)
		if err != nil {
			return nil, err
		}
		if task == nil || task.ProjectID != in.ProjectID || task.Status != "active" {
			return nil, domain.ErrNotFound
		}
		entry.TaskID = &in.TaskID
	case entity.EntryTypeCustomTask:
		if in.CustomTaskName == "" {
			return nil, domain.ErrInvalidInput
		}
		entry.CustomTaskName = in.CustomTaskName
	default:
		return nil, domain.ErrInvalidInput
	}

	// El proyecto debe existir, estar activo y el actor ser miembro.
	project, err := uc.projectRepo.GetByID(in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.Status != "active" {
		return nil, domain.ErrNotFound
	}
	role, err := uc.projectRepo.GetMemberRole(in.ProjectID, actor.ID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	// Escritura de la entrada y del total denormalizado en la misma transacción.
	err = uc.txRunner.Run(ctx, func(
		tsRepo repository.TimesheetRepository,
		entryRepo repository.TimeEntryRepository,
		_ repository.ProjectApprovalRepository,
	) error {
		if err := entryRepo.Create(entry); err != nil {
			return err
		}
		return uc.refreshTotal(tsRepo, entryRepo, ts.ID)
	})
	if err != nil {
		return nil, err
	}
	resp := toEntryResponse(entry)
	return &resp, nil
}

// UpdateEntry modifica fecha, horas, descripción o facturable de una entrada.
func (uc *TimesheetUseCase) UpdateEntry(ctx context.Context, actor dto.Actor, timesheetID, entryID string, in dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	ts, err := uc.ownedEditable(actor, timesheetID)
	if err != nil {
		return nil, err
	}
	entry, err := uc.entryRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.TimesheetID != ts.ID {
		return nil, domain.ErrNotFound
	}

	if in.Date != "" {
		date, err := time.Parse(dateLayout, in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		if !dtimesheet.InWeek(date, ts.WeekStartDate) {
			return nil, domain.ErrInvalidInput
		}
		entry.Date = date
	}
	if !in.Hours.IsZero() {
		if !in.Hours.GreaterThan(decimal.Zero) || in.Hours.GreaterThan(decimal.NewFromInt(24)) {
			return nil, domain.ErrInvalidInput
		}
		entry.Hours = in.Hours
	}
	if in.Description != "" {
		entry.Description = in.Description
	}
	if in.IsBillable != nil {
		entry.IsBillable = *in.IsBillable
	}
	entry.UpdatedAt = time.Now()

	err = uc.txRunner.Run(ctx, func(
		tsRepo repository.TimesheetRepository,
		entryRepo repository.TimeEntryRepository,
		_ repository.ProjectApprovalRepository,
	) error {
		if err := entryRepo.Update(entry); err != nil {
			return err
		}
		return uc.refreshTotal(tsRepo, entryRepo, ts.ID)
	})
	if err != nil {
		return nil, err
	}
	resp := toEntryResponse(entry)
	return &resp, nil
}

// DeleteEntry elimina una entrada de la hoja del actor.
func (uc *TimesheetUseCase) DeleteEntry(ctx context.Context, actor dto.Actor, timesheetID, entryID string) error {
	ts, err := uc.ownedEditable(actor, timesheetID)
	if err != nil {
		return err
	}
	entry, err := uc.entryRepo.GetByID(entryID)
	if err != nil {
		return err
	}
	if entry == nil || entry.TimesheetID != ts.ID {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(
		tsRepo repository.TimesheetRepository,
		entryRepo repository.TimeEntryRepository,
		_ repository.ProjectApprovalRepository,
	) error {
		if err := entryRepo.Delete(entry.ID); err != nil {
			return err
		}
		return uc.refreshTotal(tsRepo, entryRepo, ts.ID)
	})
}

// GetEffectiveStatus recalcula el estado desde el ledger (nunca la caché) y
// refresca la columna si quedó desfasada. La recomputación y su escritura van
// dentro de la misma transacción con la fila bloqueada (FOR UPDATE), igual que
// las acciones de aprobación: sin el bloqueo, un freeze confirmado entre la
// lectura y la escritura quedaría pisado por el estado derivado viejo.
func (uc *TimesheetUseCase) GetEffectiveStatus(ctx context.Context, actor dto.Actor, id string) (*dto.StatusResponse, error) {
	ts, err := uc.tsRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.canRead(actor, ts); err != nil {
		return nil, err
	}
	var derived string
	err = uc.txRunner.Run(ctx, func(
		tsRepo repository.TimesheetRepository,
		_ repository.TimeEntryRepository,
		approvalRepo repository.ProjectApprovalRepository,
	) error {
		locked, err := tsRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		approvals, err := approvalRepo.ListByTimesheet(id)
		if err != nil {
			return err
		}
		derived = dtimesheet.DeriveStatus(locked, approvals)
		if derived == locked.Status {
			return nil
		}
		return tsRepo.UpdateStatus(id, derived)
	})
	if err != nil {
		return nil, err
	}
	ts.Status = derived
	return &dto.StatusResponse{Status: derived, DisplayStatus: ts.DisplayStatus()}, nil
}

// ListPending lista las hojas en cola para el tier del actor: submitted para
// lead/manager, management_pending para management.
func (uc *TimesheetUseCase) ListPending(ctx context.Context, actor dto.Actor, page dto.PageRequest) ([]*dto.TimesheetResponse, error) {
	page.DefaultPage()
	var statuses []string
	switch dtimesheet.TierForLevel(dtimesheet.Level(actor.Role)) {
	case entity.TierLead, entity.TierManager:
		statuses = []string{entity.TimesheetSubmitted}
	case entity.TierManagement:
		statuses = []string{entity.TimesheetSubmitted, entity.TimesheetManagementPending}
	default:
		return nil, domain.ErrPermissionDenied
	}
	list, err := uc.tsRepo.ListByStatuses(statuses, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TimesheetResponse, 0, len(list))
	for _, ts := range list {
		resp, err := uc.toResponse(ts, false)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// ownedEditable obtiene la hoja, verifica dueño y que esté en estado editable.
func (uc *TimesheetUseCase) ownedEditable(actor dto.Actor, id string) (*entity.Timesheet, error) {
	ts, err := uc.tsRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, domain.ErrNotFound
	}
	if ts.UserID != actor.ID {
		return nil, domain.ErrPermissionDenied
	}
	if !ts.IsEditable() {
		return nil, domain.ErrNotEditable
	}
	return ts, nil
}

// canRead autoriza lectura: dueño, nivel de rol de sistema superior al del
// dueño, o rol de proyecto en alguno de los proyectos de la hoja cuyo nivel
// efectivo supere al del dueño (quien puede aprobar también puede leer).
func (uc *TimesheetUseCase) canRead(actor dto.Actor, ts *entity.Timesheet) error {
	if ts.UserID == actor.ID {
		return nil
	}
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
	projectIDs, err := uc.entryRepo.DistinctProjectIDs(ts.ID)
	if err != nil {
		return err
	}
	ownerLevel := dtimesheet.Level(owner.Role)
	for _, projectID := range projectIDs {
		projectRole, err := uc.projectRepo.GetMemberRole(projectID, actor.ID)
		if err != nil {
			return err
		}
		if dtimesheet.EffectiveLevel(actor.Role, projectRole) > ownerLevel {
			return nil
		}
	}
	return domain.ErrPermissionDenied
}

// refreshTotal recalcula el total denormalizado a partir de las entradas
// dentro de la transacción en curso.
func (uc *TimesheetUseCase) refreshTotal(tsRepo repository.TimesheetRepository, entryRepo repository.TimeEntryRepository, timesheetID string) error {
	entries, err := entryRepo.ListByTimesheet(timesheetID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return tsRepo.UpdateTotalHours(timesheetID, total)
}

func (uc *TimesheetUseCase) toResponse(ts *entity.Timesheet, withEntries bool) (*dto.TimesheetResponse, error) {
	resp := &dto.TimesheetResponse{
		ID:            ts.ID,
		UserID:        ts.UserID,
		WeekStartDate: ts.WeekStartDate.Format(dateLayout),
		Status:        ts.Status,
		DisplayStatus: ts.DisplayStatus(),
		TotalHours:    ts.TotalHours,
		CreatedAt:     ts.CreatedAt,
		UpdatedAt:     ts.UpdatedAt,
	}
	if withEntries {
		entries, err := uc.entryRepo.ListByTimesheet(ts.ID)
		if err != nil {
			return nil, err
		}
		resp.Entries = make([]dto.EntryResponse, 0, len(entries))
		for _, e := range entries {
			resp.Entries = append(resp.Entries, toEntryResponse(e))
		}
	}
	return resp, nil
}

func toEntryResponse(e *entity.TimeEntry) dto.EntryResponse {
	resp := dto.EntryResponse{
		ID:             e.ID,
		TimesheetID:    e.TimesheetID,
		ProjectID:      e.ProjectID,
		CustomTaskName: e.CustomTaskName,
		Date:           e.Date.Format(dateLayout),
		Hours:          e.Hours,
		Description:    e.Description,
		IsBillable:     e.IsBillable,
		EntryType:      e.EntryType,
	}
	if e.TaskID != nil {
		resp.TaskID = *e.TaskID
	}
	return resp
}
