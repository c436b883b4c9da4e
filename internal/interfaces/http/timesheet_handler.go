package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Timetrack-api/internal/application/dto"
	apptimesheet "github.com/jhoicas/Timetrack-api/internal/application/timesheet"
)

const dateLayout = "2006-01-02"

// TimesheetHandler maneja hojas de tiempo y sus entradas.
type TimesheetHandler struct {
	uc *apptimesheet.TimesheetUseCase
}

// NewTimesheetHandler construye el handler de timesheets.
func NewTimesheetHandler(uc *apptimesheet.TimesheetUseCase) *TimesheetHandler {
	return &TimesheetHandler{uc: uc}
}

// Current devuelve (creando en draft si no existe) la hoja de la semana del
// usuario. Query param week=YYYY-MM-DD; por defecto la semana actual. Cualquier
// día de la semana sirve: se ancla al lunes.
func (h *TimesheetHandler) Current(c *fiber.Ctx) error {
	date := time.Now().UTC()
	if raw := c.Query("week"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "week debe ser YYYY-MM-DD"})
		}
		date = parsed
	}
	out, err := h.uc.GetOrCreateWeek(c.Context(), actorFrom(c), date)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// GetByID devuelve una hoja con sus entradas (dueño o aprobador).
func (h *TimesheetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetTimesheet(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// AddEntry agrega una entrada de tiempo a una hoja editable.
func (h *TimesheetHandler) AddEntry(c *fiber.Ctx) error {
	var in dto.CreateEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddEntry(c.Context(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateEntry actualiza una entrada existente.
func (h *TimesheetHandler) UpdateEntry(c *fiber.Ctx) error {
	var in dto.UpdateEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateEntry(c.Context(), actorFrom(c), c.Params("id"), c.Params("entryID"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// DeleteEntry elimina una entrada de una hoja editable.
func (h *TimesheetHandler) DeleteEntry(c *fiber.Ctx) error {
	if err := h.uc.DeleteEntry(c.Context(), actorFrom(c), c.Params("id"), c.Params("entryID")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Submit envía la hoja a aprobación y devuelve estado + advertencias.
func (h *TimesheetHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Status devuelve el estado efectivo derivado del ledger de aprobaciones.
func (h *TimesheetHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.GetEffectiveStatus(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}
