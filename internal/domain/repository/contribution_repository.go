package repository

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ContributionRepository define el puerto para la contribución acumulada (wei) por cuenta.
// Usado dentro de transacciones; una cuenta sin fila vale cero.
type ContributionRepository interface {
	Get(ctx context.Context, account common.Address) (*uint256.Int, error)
	// GetForUpdate bloquea la fila de la cuenta hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, account common.Address) (*uint256.Int, error)
	Set(ctx context.Context, account common.Address, total *uint256.Int) error
	// Total suma todas las contribuciones (weiRaised).
	Total(ctx context.Context) (*uint256.Int, error)
}
