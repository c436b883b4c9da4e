package approval_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Timetrack-api/internal/application/approval"
	"github.com/jhoicas/Timetrack-api/internal/application/dto"
	"github.com/jhoicas/Timetrack-api/internal/domain"
	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	"github.com/jhoicas/Timetrack-api/pkg/logger"
)

var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func newApprovalUC(s *memStore) *approval.ApprovalUseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return approval.NewApprovalUseCase(
		&fakeTxRunner{s},
		&fakeTimesheetRepo{s},
		&fakeApprovalRepo{s},
		&fakeProjectRepo{s},
		&fakeUserRepo{s},
		log,
	)
}

func seedUser(s *memStore, id, role string) {
	s.users[id] = &entity.User{ID: id, Email: id + "@acme.test", Role: role, Status: "active"}
}

func seedSheet(s *memStore, id, userID, status string) *entity.Timesheet {
	ts := &entity.Timesheet{
		ID:            id,
		UserID:        userID,
		WeekStartDate: monday,
		Status:        status,
		TotalHours:    decimal.Zero,
	}
	s.sheets[id] = ts
	return ts
}

func seedApproval(s *memStore, id, sheetID, projectID string) *entity.ProjectApproval {
	pa := &entity.ProjectApproval{
		ID:               id,
		TimesheetID:      sheetID,
		ProjectID:        projectID,
		LeadStatus:       entity.ApprovalPending,
		ManagerStatus:    entity.ApprovalPending,
		ManagementStatus: entity.ApprovalPending,
	}
	s.approvals[id] = pa
	return pa
}

func seedEntry(s *memStore, id, sheetID, projectID string) {
	s.entries[id] = &entity.TimeEntry{
		ID:             id,
		TimesheetID:    sheetID,
		ProjectID:      projectID,
		CustomTaskName: "desarrollo",
		EntryType:      entity.EntryTypeCustomTask,
		Date:           monday,
		Hours:          decimal.NewFromInt(8),
	}
}

var (
	employee   = dto.Actor{ID: "emp-1", Role: entity.RoleEmployee}
	manager    = dto.Actor{ID: "mgr-1", Role: entity.RoleManager}
	management = dto.Actor{ID: "mgmt-1", Role: entity.RoleManagement}
)

// setupSubmitted hoja enviada de emp-1 con aprobaciones pending para los
// proyectos dados.
func setupSubmitted(s *memStore, projectIDs ...string) {
	seedUser(s, "emp-1", entity.RoleEmployee)
	seedUser(s, "lead-1", entity.RoleLead)
	seedUser(s, "mgr-1", entity.RoleManager)
	seedUser(s, "mgmt-1", entity.RoleManagement)
	seedSheet(s, "ts-1", "emp-1", entity.TimesheetSubmitted)
	for _, pid := range projectIDs {
		seedApproval(s, "pa-"+pid, "ts-1", pid)
		seedEntry(s, "e-"+pid, "ts-1", pid)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_ManagerParcialMantieneSubmitted(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a", "proj-b")
	uc := newApprovalUC(s)

	out, err := uc.Approve(context.Background(), manager, "ts-1", "proj-a")
	require.NoError(t, err)

	assert.Equal(t, entity.ApprovalApproved, s.approvals["pa-proj-a"].ManagerStatus)
	assert.Equal(t, entity.TimesheetSubmitted, out.Status,
		"con un manager pendiente la hoja no avanza: consenso todo-o-nada")
}

func TestApprove_TodosLosManagersAvanzaAManagementPending(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a", "proj-b")
	uc := newApprovalUC(s)

	_, err := uc.Approve(context.Background(), manager, "ts-1", "proj-a")
	require.NoError(t, err)
	out, err := uc.Approve(context.Background(), manager, "ts-1", "proj-b")
	require.NoError(t, err)

	assert.Equal(t, entity.TimesheetManagementPending, out.Status)
	assert.Equal(t, entity.DisplaySubmitted, out.DisplayStatus,
		"management_pending se muestra como submitted al empleado")
}

func TestApprove_TierYaAprobadoEsIlegal(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	uc := newApprovalUC(s)

	_, err := uc.Approve(context.Background(), manager, "ts-1", "proj-a")
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), manager, "ts-1", "proj-a")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestApprove_ManagementRequiereConsensoDeManagers(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	uc := newApprovalUC(s)

	// Brinco directo de management sin manager aprobado: ilegal.
	_, err := uc.Approve(context.Background(), management, "ts-1", "proj-a")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestApprove_ManagementTrasManagersAprueba(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	uc := newApprovalUC(s)

	_, err := uc.Approve(context.Background(), manager, "ts-1", "proj-a")
	require.NoError(t, err)
	out, err := uc.Approve(context.Background(), management, "ts-1", "proj-a")
	require.NoError(t, err)

	assert.Equal(t, entity.TimesheetManagementApproved, out.Status)
	assert.Equal(t, entity.DisplayApproved, out.DisplayStatus)
}

func TestApprove_EmpleadoParSinNivel(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	seedUser(s, "emp-2", entity.RoleEmployee)
	uc := newApprovalUC(s)

	_, err := uc.Approve(context.Background(), dto.Actor{ID: "emp-2", Role: entity.RoleEmployee}, "ts-1", "proj-a")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestApprove_RolDeProyectoElevaAEmpleado(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	seedUser(s, "emp-2", entity.RoleEmployee)
	// emp-2 es lead del proyecto aunque su rol de sistema sea employee.
	s.members["proj-a|emp-2"] = entity.ProjectRoleLead
	uc := newApprovalUC(s)

	out, err := uc.Approve(context.Background(), dto.Actor{ID: "emp-2", Role: entity.RoleEmployee}, "ts-1", "proj-a")
	require.NoError(t, err)

	assert.Equal(t, entity.ApprovalApproved, s.approvals["pa-proj-a"].LeadStatus,
		"el nivel efectivo lead escribe el tier lead")
	assert.Equal(t, entity.TimesheetSubmitted, out.Status,
		"la aprobación del lead es consultiva: no avanza la hoja")
}

func TestApprove_HojaEnDraftEsIlegal(t *testing.T) {
	s := newMemStore()
	seedUser(s, "emp-1", entity.RoleEmployee)
	seedUser(s, "mgr-1", entity.RoleManager)
	seedSheet(s, "ts-1", "emp-1", entity.TimesheetDraft)
	seedApproval(s, "pa-a", "ts-1", "proj-a")
	uc := newApprovalUC(s)

	_, err := uc.Approve(context.Background(), manager, "ts-1", "proj-a")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reject — rollback del ledger completo
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_InvalidaTodoElProgresoDelLedger(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a", "proj-b", "proj-c")
	uc := newApprovalUC(s)

	// Dos proyectos ya aprobados por sus managers.
	_, err := uc.Approve(context.Background(), manager, "ts-1", "proj-a")
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), manager, "ts-1", "proj-b")
	require.NoError(t, err)

	// El rechazo del tercero deshace también lo aprobado.
	out, err := uc.Reject(context.Background(), manager, "ts-1", "proj-c", "horas dobles el miércoles")
	require.NoError(t, err)

	assert.Equal(t, entity.TimesheetManagerRejected, out.Status)
	assert.Equal(t, entity.DisplayRejected, out.DisplayStatus)

	assert.Equal(t, entity.ApprovalPending, s.approvals["pa-proj-a"].ManagerStatus,
		"el rechazo reinicia los tiers ya aprobados de otros proyectos")
	assert.Equal(t, entity.ApprovalPending, s.approvals["pa-proj-b"].ManagerStatus)

	rejected := s.approvals["pa-proj-c"]
	assert.Equal(t, entity.ApprovalRejected, rejected.ManagerStatus,
		"el registro rechazado conserva su marca")
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "horas dobles el miércoles", *rejected.RejectionReason)
	require.NotNil(t, rejected.RejectedBy)
	assert.Equal(t, manager.ID, *rejected.RejectedBy)
	assert.NotNil(t, rejected.RejectedAt)
}

func TestReject_SinMotivoEsInvalido(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	uc := newApprovalUC(s)

	_, err := uc.Reject(context.Background(), manager, "ts-1", "proj-a", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReject_RetrocedeUnTierYaAprobado(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	uc := newApprovalUC(s)

	_, err := uc.Approve(context.Background(), manager, "ts-1", "proj-a")
	require.NoError(t, err)

	// Revisión posterior: el mismo tier puede pasar de approved a rejected.
	out, err := uc.Reject(context.Background(), manager, "ts-1", "proj-a", "cargos al proyecto equivocado")
	require.NoError(t, err)
	assert.Equal(t, entity.TimesheetManagerRejected, out.Status)
}

func TestReject_TierYaRechazadoEsIlegal(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	pa := s.approvals["pa-proj-a"]
	pa.ManagerStatus = entity.ApprovalRejected
	uc := newApprovalUC(s)

	_, err := uc.Reject(context.Background(), manager, "ts-1", "proj-a", "de nuevo")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestReject_LeadProduceLeadRejected(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	uc := newApprovalUC(s)

	out, err := uc.Reject(context.Background(), dto.Actor{ID: "lead-1", Role: entity.RoleLead}, "ts-1", "proj-a", "falta el detalle de tareas")
	require.NoError(t, err)
	assert.Equal(t, entity.TimesheetLeadRejected, out.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetAdjustment
// ──────────────────────────────────────────────────────────────────────────────

func TestSetAdjustment_SoloConManagerPending(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	uc := newApprovalUC(s)

	err := uc.SetAdjustment(context.Background(), manager, "ts-1", "proj-a", decimal.NewFromInt(-2))
	require.NoError(t, err)
	assert.True(t, s.approvals["pa-proj-a"].BillableAdjustment.Equal(decimal.NewFromInt(-2)))

	_, err = uc.Approve(context.Background(), manager, "ts-1", "proj-a")
	require.NoError(t, err)

	// Con el tier manager ya aprobado, el ajuste llega tarde.
	err = uc.SetAdjustment(context.Background(), manager, "ts-1", "proj-a", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrStaleState)
}

func TestSetAdjustment_LeadSinPermiso(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	uc := newApprovalUC(s)

	err := uc.SetAdjustment(context.Background(), dto.Actor{ID: "lead-1", Role: entity.RoleLead}, "ts-1", "proj-a", decimal.NewFromInt(2))
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestSetAdjustment_ManagementSinPermiso(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	uc := newApprovalUC(s)

	err := uc.SetAdjustment(context.Background(), management, "ts-1", "proj-a", decimal.NewFromInt(2))
	assert.ErrorIs(t, err, domain.ErrPermissionDenied,
		"el ajuste facturable es exclusivo del tier manager")
}

// ──────────────────────────────────────────────────────────────────────────────
// GetLedger
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLedger_DuenoYAprobadorPuedenLeer(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a", "proj-b")
	uc := newApprovalUC(s)

	ledger, err := uc.GetLedger(context.Background(), employee, "ts-1")
	require.NoError(t, err)
	assert.Len(t, ledger, 2)

	ledger, err = uc.GetLedger(context.Background(), manager, "ts-1")
	require.NoError(t, err)
	assert.Len(t, ledger, 2)
}

func TestGetLedger_EmpleadoAjenoNoPuedeLeer(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	seedUser(s, "emp-2", entity.RoleEmployee)
	uc := newApprovalUC(s)

	_, err := uc.GetLedger(context.Background(), dto.Actor{ID: "emp-2", Role: entity.RoleEmployee}, "ts-1")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

// Un lead de proyecto con rol de sistema employee aprueba el tier lead,
// así que también ve el ledger que aprueba.
func TestGetLedger_LeadDeProyectoPuedeLeer(t *testing.T) {
	s := newMemStore()
	setupSubmitted(s, "proj-a")
	seedUser(s, "emp-2", entity.RoleEmployee)
	s.members["proj-a|emp-2"] = entity.ProjectRoleLead
	uc := newApprovalUC(s)

	ledger, err := uc.GetLedger(context.Background(), dto.Actor{ID: "emp-2", Role: entity.RoleEmployee}, "ts-1")
	require.NoError(t, err)
	assert.Len(t, ledger, 1)
}
