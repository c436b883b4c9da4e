package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Timetrack-api/internal/application/approval"
	"github.com/jhoicas/Timetrack-api/internal/application/dto"
	apptimesheet "github.com/jhoicas/Timetrack-api/internal/application/timesheet"
)

// ApprovalHandler maneja aprobaciones por proyecto, cola pendiente y
// operaciones masivas.
type ApprovalHandler struct {
	uc   *approval.ApprovalUseCase
	tsUC *apptimesheet.TimesheetUseCase
}

// NewApprovalHandler construye el handler de aprobaciones.
func NewApprovalHandler(uc *approval.ApprovalUseCase, tsUC *apptimesheet.TimesheetUseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc, tsUC: tsUC}
}

// Approve aprueba el tier del actor para el par (timesheet, project).
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), actorFrom(c), c.Params("id"), c.Params("projectID"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Reject rechaza el par (timesheet, project) con motivo; reinicia el ledger completo.
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	out, err := h.uc.Reject(c.Context(), actorFrom(c), c.Params("id"), c.Params("projectID"), in.Reason)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// SetAdjustment fija el ajuste facturable de un manager sobre el par.
func (h *ApprovalHandler) SetAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetAdjustment(c.Context(), actorFrom(c), c.Params("id"), c.Params("projectID"), in.Adjustment); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Ledger devuelve el ledger de aprobaciones de una hoja (dueño o aprobador).
func (h *ApprovalHandler) Ledger(c *fiber.Ctx) error {
	out, err := h.uc.GetLedger(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Pending devuelve la cola de hojas pendientes para el tier del actor.
func (h *ApprovalHandler) Pending(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.tsUC.ListPending(c.Context(), actorFrom(c), page)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// BulkVerify verifica (aprobación management) un lote de hojas; fallos por
// elemento, nunca aborta el lote.
func (h *ApprovalHandler) BulkVerify(c *fiber.Ctx) error {
	var in dto.BulkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.TimesheetIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "timesheet_ids es requerido"})
	}
	out, err := h.uc.BulkVerify(c.Context(), actorFrom(c), in.TimesheetIDs, in.ProjectID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// BulkBill factura un lote de hojas congeladas.
func (h *ApprovalHandler) BulkBill(c *fiber.Ctx) error {
	var in dto.BulkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.TimesheetIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "timesheet_ids es requerido"})
	}
	out, err := h.uc.BulkBill(c.Context(), actorFrom(c), in.TimesheetIDs)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Freeze congela todas las hojas de un proyecto en un rango de semanas.
func (h *ApprovalHandler) Freeze(c *fiber.Ctx) error {
	var in dto.FreezeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProjectID == "" || in.WeekStart == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "project_id y week_start son requeridos"})
	}
	weekStart, err := time.Parse(dateLayout, in.WeekStart)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "week_start debe ser YYYY-MM-DD"})
	}
	weekEnd := weekStart
	if in.WeekEnd != "" {
		weekEnd, err = time.Parse(dateLayout, in.WeekEnd)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "week_end debe ser YYYY-MM-DD"})
		}
	}
	out, err := h.uc.FreezeProjectWeek(c.Context(), actorFrom(c), in.ProjectID, weekStart, weekEnd)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// ProjectWeek aprueba o rechaza todas las hojas de un (proyecto, semana).
func (h *ApprovalHandler) ProjectWeek(c *fiber.Ctx) error {
	var in dto.ProjectWeekRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProjectID == "" || in.WeekStart == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "project_id y week_start son requeridos"})
	}
	if in.Action != "approve" && in.Action != "reject" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "action debe ser approve o reject"})
	}
	if in.Action == "reject" && in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido para reject"})
	}
	weekStart, err := time.Parse(dateLayout, in.WeekStart)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "week_start debe ser YYYY-MM-DD"})
	}
	out, err := h.uc.ProjectWeek(c.Context(), actorFrom(c), in.ProjectID, weekStart, in.Action, in.Reason)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}
