package repository

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// WhitelistRepository define el puerto de persistencia de la whitelist (cuenta -> permitido).
// Las cuentas ausentes se consideran no permitidas.
type WhitelistRepository interface {
	IsWhitelisted(ctx context.Context, account common.Address) (bool, error)
	// Set es idempotente; updatedBy identifica al admin que hizo el cambio.
	Set(ctx context.Context, account common.Address, whitelisted bool, updatedBy string) error
	List(ctx context.Context, limit, offset int) ([]common.Address, error)
}
