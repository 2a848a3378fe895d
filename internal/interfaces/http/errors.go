package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/presale-api/internal/application/dto"
	"github.com/jhoicas/presale-api/internal/domain"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{domain.ErrZeroAmount, fiber.StatusBadRequest, "ZERO_AMOUNT", "el monto debe ser mayor a cero"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "entrada inválida"},
	{domain.ErrNotWhitelisted, fiber.StatusForbidden, "NOT_WHITELISTED", "la cuenta beneficiaria no está en la whitelist"},
	{domain.ErrSaleNotOpen, fiber.StatusConflict, "SALE_NOT_OPEN", "la preventa no está abierta"},
	{domain.ErrBelowMinimumCap, fiber.StatusUnprocessableEntity, "BELOW_MIN_CAP", "la contribución queda por debajo del mínimo"},
	{domain.ErrAboveMaximumCap, fiber.StatusUnprocessableEntity, "ABOVE_MAX_CAP", "la contribución supera el máximo"},
	{domain.ErrLockPeriodNotReached, fiber.StatusConflict, "LOCK_PERIOD_NOT_REACHED", "el periodo de bloqueo no ha terminado"},
	{domain.ErrNothingDue, fiber.StatusConflict, "NOTHING_DUE", "la cuenta no tiene tokens pendientes"},
	{domain.ErrInsufficientAllowance, fiber.StatusConflict, "INSUFFICIENT_ALLOWANCE", "el provider no tiene allowance suficiente"},
	{domain.ErrInsufficientBalance, fiber.StatusConflict, "INSUFFICIENT_BALANCE", "saldo de tokens insuficiente"},
	{domain.ErrArithmeticOverflow, fiber.StatusUnprocessableEntity, "OVERFLOW", "monto fuera de rango"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "no autenticado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "sin permiso para esta operación"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
}

// writeError traduce errores de dominio a respuestas HTTP; el resto es 500.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// errAmountRequired falta amount_wei y amount_eth.
var errAmountRequired = errors.New("amount_wei o amount_eth requerido")

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}
