package whitelist

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/jhoicas/presale-api/internal/domain"
	"github.com/jhoicas/presale-api/internal/domain/entity"
	"github.com/jhoicas/presale-api/internal/domain/repository"
)

// AccessControl colaborador que decide quién administra la whitelist.
// El caso de uso no conoce la identidad del admin; solo pregunta.
type AccessControl interface {
	CanManageWhitelist(ctx context.Context, principalID string) (bool, error)
}

// UseCase altas y bajas en la whitelist de la preventa.
type UseCase struct {
	repo repository.WhitelistRepository
	acl  AccessControl
	log  zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.WhitelistRepository, acl AccessControl, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, acl: acl, log: log}
}

// IsWhitelisted consulta la whitelist; cuentas ausentes = false.
func (uc *UseCase) IsWhitelisted(ctx context.Context, account common.Address) (bool, error) {
	return uc.repo.IsWhitelisted(ctx, account)
}

// Add agrega la cuenta (idempotente).
func (uc *UseCase) Add(ctx context.Context, principalID string, account common.Address) error {
	return uc.set(ctx, principalID, account, true)
}

// Remove quita la cuenta (idempotente). El crédito ya comprado sigue siendo retirable.
func (uc *UseCase) Remove(ctx context.Context, principalID string, account common.Address) error {
	return uc.set(ctx, principalID, account, false)
}

// AddBatch agrega varias cuentas. Valida todas antes de escribir; un error de storage deja
// aplicadas las anteriores (Set es idempotente, basta con reintentar).
func (uc *UseCase) AddBatch(ctx context.Context, principalID string, accounts []common.Address) error {
	if len(accounts) == 0 {
		return domain.ErrInvalidInput
	}
	for _, a := range accounts {
		if entity.IsZeroAccount(a) {
			return domain.ErrInvalidInput
		}
	}
	if err := uc.authorize(ctx, principalID); err != nil {
		return err
	}
	for _, a := range accounts {
		if err := uc.repo.Set(ctx, a, true, principalID); err != nil {
			return err
		}
	}
	uc.log.Info().Str("admin", principalID).Int("accounts", len(accounts)).Msg("whitelist: alta masiva")
	return nil
}

// List cuentas habilitadas.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]common.Address, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return uc.repo.List(ctx, limit, offset)
}

func (uc *UseCase) set(ctx context.Context, principalID string, account common.Address, whitelisted bool) error {
	if entity.IsZeroAccount(account) {
		return domain.ErrInvalidInput
	}
	if err := uc.authorize(ctx, principalID); err != nil {
		return err
	}
	if err := uc.repo.Set(ctx, account, whitelisted, principalID); err != nil {
		return err
	}
	uc.log.Info().
		Str("admin", principalID).
		Str("account", account.Hex()).
		Bool("whitelisted", whitelisted).
		Msg("whitelist actualizada")
	return nil
}

func (uc *UseCase) authorize(ctx context.Context, principalID string) error {
	if principalID == "" {
		return domain.ErrUnauthorized
	}
	ok, err := uc.acl.CanManageWhitelist(ctx, principalID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
