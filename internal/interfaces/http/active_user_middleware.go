package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/presale-api/internal/application/dto"
)

// activeChecker verifica que el operador siga activo.
// Lo implementa *auth.AuthUseCase; el uso de interfaz evita el import circular.
type activeChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// RequireActiveUser rechaza tokens válidos de operadores desactivados después de emitido el token.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//   - 403 Forbidden si el operador no existe o no está activo.
//   - 503 Service Unavailable si falla la consulta.
func RequireActiveUser(checker activeChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}
		active, err := checker.IsActive(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar el operador, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "USER_INACTIVE",
				Message: "operador inactivo o suspendido",
			})
		}
		return c.Next()
	}
}
