package repository

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jhoicas/presale-api/internal/domain/entity"
)

// PurchaseRepository define el puerto para el historial de compras.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	// List devuelve las compras más recientes primero; beneficiary nil = todas.
	List(ctx context.Context, beneficiary *common.Address, limit, offset int) ([]*entity.Purchase, error)
}

// WithdrawalRepository define el puerto para el historial de retiros.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *entity.Withdrawal) error
	ListByAccount(ctx context.Context, account common.Address) ([]*entity.Withdrawal, error)
}
