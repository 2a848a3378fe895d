package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"

	"github.com/jhoicas/presale-api/docs"
	"github.com/jhoicas/presale-api/internal/application/auth"
	"github.com/jhoicas/presale-api/internal/application/presale"
	"github.com/jhoicas/presale-api/internal/application/whitelist"
	domainpresale "github.com/jhoicas/presale-api/internal/domain/presale"
	"github.com/jhoicas/presale-api/internal/domain/repository"
	"github.com/jhoicas/presale-api/internal/infrastructure/memory"
	"github.com/jhoicas/presale-api/internal/infrastructure/metrics"
	"github.com/jhoicas/presale-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/presale-api/internal/interfaces/http"
	"github.com/jhoicas/presale-api/pkg/config"
	"github.com/jhoicas/presale-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// backend repositorios según STORAGE_DRIVER.
type backend struct {
	tx        presale.TxRunner
	whitelist repository.WhitelistRepository
	users     repository.UserRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("network", cfg.PreSale.Network).
		Msg("iniciando aplicación")

	params, err := presale.ParamsFromConfig(cfg.PreSale)
	if err != nil {
		log.Fatal().Err(err).Msg("parámetros de preventa")
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, params, log)
	if err != nil {
		log.Fatal().Err(err).Msg("storage")
	}
	defer be.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine, err := presale.NewEngine(params, domainpresale.SystemClock{}, be.tx,
		presale.WithLogger(log.Component("presale")),
		presale.WithRecorder(metrics.NewPresaleMetrics(reg)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("motor de preventa")
	}

	authUC := auth.NewAuthUseCase(be.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.Bootstrap.AdminEmail != "" {
		u, created, err := authUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminAccount)
		if err != nil {
			log.Fatal().Err(err).Msg("crear admin inicial")
		}
		log.Info().Str("email", u.Email).Bool("created", created).Msg("admin inicial")
	}
	whitelistUC := whitelist.NewUseCase(be.whitelist, auth.NewRoleAccessControl(be.users), log.Component("whitelist"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Presale API",
		}))
	}

	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return fiber.ErrNotFound
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "phase": engine.Phase()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:      engine,
		WhitelistUC: whitelistUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Log:         log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openBackend abre el storage. En modo memory el ledger arranca vacío, así que se siembra el provider.
func openBackend(ctx context.Context, cfg *config.Config, params domainpresale.Params, log *logger.Logger) (*backend, error) {
	if cfg.Storage.Driver == "postgres" {
		pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			pool.Close()
			return nil, err
		}
		return &backend{
			tx:        postgres.NewTxRunner(pool),
			whitelist: postgres.NewWhitelistRepository(pool),
			users:     postgres.NewUserRepository(pool),
			close:     pool.Close,
		}, nil
	}

	store := memory.NewStore()
	supply, err := presale.SeedProvider(ctx, store, params, cfg.PreSale.SeedSupply)
	if err != nil {
		return nil, err
	}
	log.Warn().
		Str("provider", params.Provider.Hex()).
		Str("supply", supply.Dec()).
		Msg("storage en memoria: los datos se pierden al reiniciar")
	return &backend{
		tx:        store,
		whitelist: store.Whitelist(),
		users:     store.Users(),
		close:     func() {},
	}, nil
}
