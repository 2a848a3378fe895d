package memory

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jhoicas/presale-api/internal/domain/repository"
)

var _ repository.WhitelistRepository = (*LockedWhitelist)(nil)

// LockedWhitelist acceso a la whitelist fuera de una transacción del motor.
type LockedWhitelist struct {
	store *Store
}

func (w *LockedWhitelist) IsWhitelisted(ctx context.Context, a common.Address) (bool, error) {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	return whitelistRepo{st: w.store.state}.IsWhitelisted(ctx, a)
}

func (w *LockedWhitelist) Set(ctx context.Context, a common.Address, whitelisted bool, updatedBy string) error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	return whitelistRepo{st: w.store.state}.Set(ctx, a, whitelisted, updatedBy)
}

func (w *LockedWhitelist) List(ctx context.Context, limit, offset int) ([]common.Address, error) {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	return whitelistRepo{st: w.store.state}.List(ctx, limit, offset)
}
