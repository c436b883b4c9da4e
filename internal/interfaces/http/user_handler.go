package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Timetrack-api/internal/application/dto"
	"github.com/jhoicas/Timetrack-api/internal/application/usecase"
)

// UserHandler maneja perfil y administración de roles.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Me devuelve el perfil del usuario autenticado.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.GetProfile(GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// ChangeRole cambia el rol de sistema de un usuario (solo super_admin).
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	var in dto.ChangeRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "role es requerido"})
	}
	out, err := h.uc.ChangeRole(actorFrom(c), c.Params("id"), in.Role)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}
