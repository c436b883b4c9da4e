package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrPermissionDenied el nivel de rol del actor no alcanza para la acción (sin efecto parcial).
	ErrPermissionDenied = errors.New("nivel de rol insuficiente")
	// ErrIllegalTransition la acción no es legal desde el estado/tier actual (sin efecto parcial).
	ErrIllegalTransition = errors.New("transición de estado ilegal")
	// ErrStaleState otra escritura concurrente ganó el compare-and-set; el caller debe refrescar y reintentar.
	ErrStaleState = errors.New("estado desactualizado por modificación concurrente")
	// ErrNotEditable la hoja de tiempo no está en un estado editable (solo draft o rechazada).
	ErrNotEditable = errors.New("hoja de tiempo no editable")
)
