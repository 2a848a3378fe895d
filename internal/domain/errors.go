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
)

// Rechazos de la preventa. Son errores del usuario, no reintentables, y nunca dejan cambios parciales.
var (
	ErrZeroAmount           = errors.New("preventa: el monto del pago debe ser mayor que cero")
	ErrSaleNotOpen          = errors.New("preventa: la venta no está abierta")
	ErrNotWhitelisted       = errors.New("preventa: la cuenta no está en la whitelist")
	ErrBelowMinimumCap      = errors.New("preventa: no se alcanza el cap mínimo de la cuenta")
	ErrAboveMaximumCap      = errors.New("preventa: se excede el cap máximo de la cuenta")
	ErrLockPeriodNotReached = errors.New("preventa: el periodo de bloqueo no ha terminado")
	ErrNothingDue           = errors.New("preventa: la cuenta no tiene tokens pendientes")
)

// Fallos de los colaboradores de tokens y pagos.
var (
	ErrInsufficientAllowance = errors.New("token: allowance insuficiente")
	ErrInsufficientBalance   = errors.New("saldo insuficiente")
	ErrArithmeticOverflow    = errors.New("desbordamiento aritmético de 256 bits")
)
