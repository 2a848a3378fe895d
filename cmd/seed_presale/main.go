// seed_presale prepara una base PostgreSQL para la preventa: aplica migraciones, acuña el supply
// al provider con allowance al vault, crea el admin inicial y carga la whitelist.
//
// Uso: go run ./cmd/seed_presale [ruta/whitelist.txt]
// El archivo tiene una dirección 0x por línea; líneas vacías y comentarios (#) se ignoran.
// Es idempotente: si el provider ya tiene saldo no vuelve a acuñar.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jhoicas/presale-api/internal/application/auth"
	"github.com/jhoicas/presale-api/internal/application/presale"
	"github.com/jhoicas/presale-api/internal/domain/entity"
	"github.com/jhoicas/presale-api/internal/infrastructure/postgres"
	"github.com/jhoicas/presale-api/pkg/config"
	"github.com/jhoicas/presale-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed_presale: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	params, err := presale.ParamsFromConfig(cfg.PreSale)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		return err
	}

	tx := postgres.NewTxRunner(pool)
	var funded bool
	if err := tx.Run(ctx, func(s presale.Stores) error {
		bal, err := s.Tokens.BalanceOf(ctx, params.Provider)
		funded = err == nil && !bal.IsZero()
		return err
	}); err != nil {
		return err
	}
	if funded {
		log.Info().Str("provider", params.Provider.Hex()).Msg("provider ya tiene saldo, no se acuña")
	} else {
		supply, err := presale.SeedProvider(ctx, tx, params, cfg.PreSale.SeedSupply)
		if err != nil {
			return err
		}
		log.Info().Str("provider", params.Provider.Hex()).Str("supply", supply.Dec()).Msg("supply acuñado")
	}

	users := postgres.NewUserRepository(pool)
	if cfg.Bootstrap.AdminEmail != "" {
		authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer})
		u, created, err := authUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminAccount)
		if err != nil {
			return fmt.Errorf("crear admin inicial: %w", err)
		}
		log.Info().Str("email", u.Email).Bool("created", created).Msg("admin inicial")
	}

	if len(os.Args) < 2 {
		return nil
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		return fmt.Errorf("abrir whitelist: %w", err)
	}
	defer f.Close()
	accounts, err := readAccounts(f)
	if err != nil {
		return err
	}
	wl := postgres.NewWhitelistRepository(pool)
	for _, a := range accounts {
		if err := wl.Set(ctx, a, true, "seed_presale"); err != nil {
			return err
		}
	}
	log.Info().Int("accounts", len(accounts)).Msg("whitelist cargada")
	return nil
}

// readAccounts lee una dirección por línea.
func readAccounts(r io.Reader) ([]common.Address, error) {
	var out []common.Address
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		a, err := entity.ParseAccount(s)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		out = append(out, a)
	}
	return out, sc.Err()
}
