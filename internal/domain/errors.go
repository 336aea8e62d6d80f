package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para añadir el mensaje legible;
// la capa HTTP decide el status con errors.Is.
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidRange    = errors.New("rango de fechas inválido")
	ErrInvalidArgument = errors.New("argumento fuera de rango")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
)
