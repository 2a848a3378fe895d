package repository

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// EscrowRepository define el puerto para el crédito de tokens pendiente de entrega por cuenta.
type EscrowRepository interface {
	Get(ctx context.Context, account common.Address) (*uint256.Int, error)
	GetForUpdate(ctx context.Context, account common.Address) (*uint256.Int, error)
	Set(ctx context.Context, account common.Address, amount *uint256.Int) error
}
