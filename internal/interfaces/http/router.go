package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jhoicas/presale-api/internal/application/auth"
	"github.com/jhoicas/presale-api/internal/application/presale"
	"github.com/jhoicas/presale-api/internal/application/whitelist"
	"github.com/jhoicas/presale-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine      *presale.Engine
	WhitelistUC *whitelist.UseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
	// Metrics handler de Prometheus; nil = sin /metrics.
	Metrics nethttp.Handler
	Log     zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Públicas. Se registran antes del grupo protegido: su middleware aplica a todo lo que sigue bajo /api.
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	presaleHandler := NewPresaleHandler(deps.Engine, deps.Log)
	api.Get("/presale/status", presaleHandler.Status)
	api.Get("/presale/accounts/:address", presaleHandler.Account)
	api.Get("/presale/purchases", presaleHandler.ListPurchases)

	// Protegidas (Bearer Token de un operador activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveUser(deps.AuthUC))
	adminOnly := RequireRole(entity.RoleAdmin)
	operators := RequireRole(entity.RoleAdmin, entity.RoleOperator)

	protected.Post("/auth/register", adminOnly, authHandler.Register)
	protected.Post("/presale/purchases", operators, presaleHandler.Buy)
	protected.Post("/presale/withdrawals", operators, presaleHandler.Withdraw)

	whitelistHandler := NewWhitelistHandler(deps.WhitelistUC, deps.Log)
	protected.Get("/whitelist", operators, whitelistHandler.List)
	protected.Get("/whitelist/:address", operators, whitelistHandler.Get)
	protected.Post("/whitelist", adminOnly, whitelistHandler.AddBatch)
	protected.Put("/whitelist/:address", adminOnly, whitelistHandler.Add)
	protected.Delete("/whitelist/:address", adminOnly, whitelistHandler.Remove)
}
