package approval_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timetrack-api/internal/domain"
	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
	"github.com/jhoicas/Timetrack-api/internal/domain/repository"
)

// memStore estado compartido de los repos fake en memoria.
type memStore struct {
	sheets    map[string]*entity.Timesheet
	entries   map[string]*entity.TimeEntry
	approvals map[string]*entity.ProjectApproval
	users     map[string]*entity.User
	projects  map[string]*entity.Project
	tasks     map[string]*entity.Task
	members   map[string]string // projectID+"|"+userID -> rol de proyecto

	// afterSheetGet se invoca tras cada lectura sin bloqueo de una hoja;
	// permite simular una escritura concurrente confirmada entre esa lectura
	// y la transacción posterior.
	afterSheetGet func()
}

func newMemStore() *memStore {
	return &memStore{
		sheets:    map[string]*entity.Timesheet{},
		entries:   map[string]*entity.TimeEntry{},
		approvals: map[string]*entity.ProjectApproval{},
		users:     map[string]*entity.User{},
		projects:  map[string]*entity.Project{},
		tasks:     map[string]*entity.Task{},
		members:   map[string]string{},
	}
}

// ── TimesheetRepository ──────────────────────────────────────────────────────

type fakeTimesheetRepo struct{ s *memStore }

func (r *fakeTimesheetRepo) Create(ts *entity.Timesheet) error {
	r.s.sheets[ts.ID] = ts
	return nil
}

// copySheet devuelve un snapshot de la fila, como el Scan del repo real.
func copySheet(ts *entity.Timesheet) *entity.Timesheet {
	if ts == nil {
		return nil
	}
	c := *ts
	return &c
}

func (r *fakeTimesheetRepo) GetByID(id string) (*entity.Timesheet, error) {
	ts := copySheet(r.s.sheets[id])
	if r.s.afterSheetGet != nil {
		r.s.afterSheetGet()
	}
	return ts, nil
}

func (r *fakeTimesheetRepo) GetByIDForUpdate(id string) (*entity.Timesheet, error) {
	return copySheet(r.s.sheets[id]), nil
}

func (r *fakeTimesheetRepo) GetByUserAndWeek(userID string, weekStart time.Time) (*entity.Timesheet, error) {
	for _, ts := range r.s.sheets {
		if ts.UserID == userID && ts.WeekStartDate.Equal(weekStart) {
			return ts, nil
		}
	}
	return nil, nil
}

func (r *fakeTimesheetRepo) UpdateStatus(id, status string) error {
	ts, ok := r.s.sheets[id]
	if !ok {
		return domain.ErrNotFound
	}
	ts.Status = status
	return nil
}

func (r *fakeTimesheetRepo) UpdateTotalHours(id string, total decimal.Decimal) error {
	ts, ok := r.s.sheets[id]
	if !ok {
		return domain.ErrNotFound
	}
	ts.TotalHours = total
	return nil
}

func (r *fakeTimesheetRepo) ListByStatuses(statuses []string, limit, offset int) ([]*entity.Timesheet, error) {
	want := map[string]bool{}
	for _, s := range statuses {
		want[s] = true
	}
	var out []*entity.Timesheet
	for _, ts := range r.s.sheets {
		if want[ts.Status] {
			out = append(out, ts)
		}
	}
	return out, nil
}

func (r *fakeTimesheetRepo) ListByProjectWeek(projectID string, weekStart time.Time) ([]*entity.Timesheet, error) {
	var out []*entity.Timesheet
	for _, ts := range r.s.sheets {
		if !ts.WeekStartDate.Equal(weekStart) {
			continue
		}
		for _, e := range r.s.entries {
			if e.TimesheetID == ts.ID && e.ProjectID == projectID {
				out = append(out, ts)
				break
			}
		}
	}
	return out, nil
}

// ── TimeEntryRepository ──────────────────────────────────────────────────────

type fakeEntryRepo struct{ s *memStore }

func (r *fakeEntryRepo) Create(e *entity.TimeEntry) error {
	r.s.entries[e.ID] = e
	return nil
}

func (r *fakeEntryRepo) GetByID(id string) (*entity.TimeEntry, error) {
	return r.s.entries[id], nil
}

func (r *fakeEntryRepo) Update(e *entity.TimeEntry) error {
	r.s.entries[e.ID] = e
	return nil
}

func (r *fakeEntryRepo) Delete(id string) error {
	delete(r.s.entries, id)
	return nil
}

func (r *fakeEntryRepo) ListByTimesheet(timesheetID string) ([]*entity.TimeEntry, error) {
	var out []*entity.TimeEntry
	for _, e := range r.s.entries {
		if e.TimesheetID == timesheetID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) DistinctProjectIDs(timesheetID string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, e := range r.s.entries {
		if e.TimesheetID == timesheetID && !seen[e.ProjectID] {
			seen[e.ProjectID] = true
			out = append(out, e.ProjectID)
		}
	}
	return out, nil
}

// ── ProjectApprovalRepository ────────────────────────────────────────────────
// Replica la semántica compare-and-set del repo real: escritura condicionada
// al estado previo del tier, ErrStaleState si no aplica.

type fakeApprovalRepo struct{ s *memStore }

func (r *fakeApprovalRepo) Create(pa *entity.ProjectApproval) error {
	r.s.approvals[pa.ID] = pa
	return nil
}

func (r *fakeApprovalRepo) GetByTimesheetAndProject(timesheetID, projectID string) (*entity.ProjectApproval, error) {
	for _, pa := range r.s.approvals {
		if pa.TimesheetID == timesheetID && pa.ProjectID == projectID {
			return pa, nil
		}
	}
	return nil, nil
}

func (r *fakeApprovalRepo) ListByTimesheet(timesheetID string) ([]*entity.ProjectApproval, error) {
	var out []*entity.ProjectApproval
	for _, pa := range r.s.approvals {
		if pa.TimesheetID == timesheetID {
			out = append(out, pa)
		}
	}
	return out, nil
}

func (r *fakeApprovalRepo) ApproveTier(id, tier string) error {
	pa, ok := r.s.approvals[id]
	if !ok || pa.TierStatus(tier) != entity.ApprovalPending {
		return domain.ErrStaleState
	}
	setTier(pa, tier, entity.ApprovalApproved)
	return nil
}

func (r *fakeApprovalRepo) RejectTier(id, tier, reason, rejectedBy string, at time.Time) error {
	pa, ok := r.s.approvals[id]
	if !ok || pa.TierStatus(tier) == entity.ApprovalRejected {
		return domain.ErrStaleState
	}
	setTier(pa, tier, entity.ApprovalRejected)
	pa.RejectionReason = &reason
	pa.RejectedBy = &rejectedBy
	pa.RejectedAt = &at
	return nil
}

func (r *fakeApprovalRepo) ResetLedger(timesheetID, excludeID string) error {
	for _, pa := range r.s.approvals {
		if pa.TimesheetID != timesheetID || pa.ID == excludeID {
			continue
		}
		pa.LeadStatus = entity.ApprovalPending
		pa.ManagerStatus = entity.ApprovalPending
		pa.ManagementStatus = entity.ApprovalPending
		pa.RejectionReason = nil
		pa.RejectedBy = nil
		pa.RejectedAt = nil
	}
	return nil
}

func (r *fakeApprovalRepo) SetBillableAdjustment(id string, adjustment decimal.Decimal) error {
	pa, ok := r.s.approvals[id]
	if !ok || pa.ManagerStatus != entity.ApprovalPending {
		return domain.ErrStaleState
	}
	pa.BillableAdjustment = adjustment
	return nil
}

func (r *fakeApprovalRepo) DeleteStale(timesheetID string, keepProjectIDs []string) error {
	keep := map[string]bool{}
	for _, id := range keepProjectIDs {
		keep[id] = true
	}
	for id, pa := range r.s.approvals {
		if pa.TimesheetID == timesheetID && !keep[pa.ProjectID] {
			delete(r.s.approvals, id)
		}
	}
	return nil
}

func setTier(pa *entity.ProjectApproval, tier, status string) {
	switch tier {
	case entity.TierLead:
		pa.LeadStatus = status
	case entity.TierManager:
		pa.ManagerStatus = status
	case entity.TierManagement:
		pa.ManagementStatus = status
	}
}

// ── ProjectRepository ────────────────────────────────────────────────────────

type fakeProjectRepo struct{ s *memStore }

func (r *fakeProjectRepo) GetByID(id string) (*entity.Project, error) {
	return r.s.projects[id], nil
}

func (r *fakeProjectRepo) ListByUser(userID string) ([]*entity.Project, error) {
	var out []*entity.Project
	for key := range r.s.members {
		for id, p := range r.s.projects {
			if key == id+"|"+userID {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) ListTasks(projectID string) ([]*entity.Task, error) {
	var out []*entity.Task
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) GetTask(taskID string) (*entity.Task, error) {
	return r.s.tasks[taskID], nil
}

func (r *fakeProjectRepo) GetMemberRole(projectID, userID string) (string, error) {
	return r.s.members[projectID+"|"+userID], nil
}

// ── UserRepository ───────────────────────────────────────────────────────────

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.s.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return r.s.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	r.s.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateRole(id, role string) error {
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.s.users {
		out = append(out, u)
	}
	return out, nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────
// Sin transacción real: invoca fn con los repos sobre el mismo store.

type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	tsRepo repository.TimesheetRepository,
	entryRepo repository.TimeEntryRepository,
	approvalRepo repository.ProjectApprovalRepository,
) error) error {
	return fn(&fakeTimesheetRepo{t.s}, &fakeEntryRepo{t.s}, &fakeApprovalRepo{t.s})
}
