package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Timetrack-api/internal/application/approval"
	"github.com/jhoicas/Timetrack-api/internal/application/auth"
	apptimesheet "github.com/jhoicas/Timetrack-api/internal/application/timesheet"
	"github.com/jhoicas/Timetrack-api/internal/application/usecase"
	"github.com/jhoicas/Timetrack-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProjectUC   *usecase.ProjectUseCase
	TimesheetUC *apptimesheet.TimesheetUseCase
	ApprovalUC  *approval.ApprovalUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (protegido)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Put("/:id/role", RequireRole(entity.RoleSuperAdmin), userHandler.ChangeRole)

	// Projects (protegido)
	projects := protected.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects.Get("/", projectHandler.List)
	projects.Get("/:id/tasks", projectHandler.ListTasks)

	// Timesheets (protegido)
	timesheets := protected.Group("/timesheets")
	timesheetHandler := NewTimesheetHandler(deps.TimesheetUC)
	approvalHandler := NewApprovalHandler(deps.ApprovalUC, deps.TimesheetUC)
	timesheets.Get("/current", timesheetHandler.Current)
	timesheets.Get("/:id", timesheetHandler.GetByID)
	timesheets.Post("/:id/entries", timesheetHandler.AddEntry)
	timesheets.Put("/:id/entries/:entryID", timesheetHandler.UpdateEntry)
	timesheets.Delete("/:id/entries/:entryID", timesheetHandler.DeleteEntry)
	timesheets.Post("/:id/submit", timesheetHandler.Submit)
	timesheets.Get("/:id/status", timesheetHandler.Status)

	// Aprobaciones por proyecto (la jerarquía efectiva se resuelve en el use
	// case: el rol de proyecto puede elevar a un employee a lead).
	timesheets.Get("/:id/approvals", approvalHandler.Ledger)
	timesheets.Post("/:id/projects/:projectID/approve", approvalHandler.Approve)
	timesheets.Post("/:id/projects/:projectID/reject", approvalHandler.Reject)
	timesheets.Put("/:id/projects/:projectID/adjustment", approvalHandler.SetAdjustment)

	// Cola y operaciones masivas (protegido; bulk solo management+)
	approvals := protected.Group("/approvals")
	approvals.Get("/pending", approvalHandler.Pending)
	bulkOnly := RequireRole(entity.RoleManagement, entity.RoleSuperAdmin)
	approvals.Post("/bulk-verify", bulkOnly, approvalHandler.BulkVerify)
	approvals.Post("/bulk-bill", bulkOnly, approvalHandler.BulkBill)
	approvals.Post("/freeze", bulkOnly, approvalHandler.Freeze)
	approvals.Post("/project-week", approvalHandler.ProjectWeek)
}
