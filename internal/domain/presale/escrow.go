package presale

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jhoicas/presale-api/internal/domain"
	"github.com/jhoicas/presale-api/internal/domain/repository"
)

// EscrowLedger crédito de tokens comprado y aún no entregado. Fuente de verdad de "tokens adeudados".
type EscrowLedger struct {
	repo repository.EscrowRepository
}

// NewEscrowLedger construye el ledger sobre un repositorio atado a la tx.
func NewEscrowLedger(repo repository.EscrowRepository) *EscrowLedger {
	return &EscrowLedger{repo: repo}
}

// Credit suma tokens al saldo pendiente de la cuenta.
func (l *EscrowLedger) Credit(ctx context.Context, account common.Address, tokens *uint256.Int) (*uint256.Int, error) {
	current, err := l.repo.GetForUpdate(ctx, account)
	if err != nil {
		return nil, err
	}
	next, overflow := new(uint256.Int).AddOverflow(current, tokens)
	if overflow {
		return nil, domain.ErrArithmeticOverflow
	}
	if err := l.repo.Set(ctx, account, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Drain devuelve el saldo pendiente y lo deja en cero. Saldo cero -> ErrNothingDue.
func (l *EscrowLedger) Drain(ctx context.Context, account common.Address) (*uint256.Int, error) {
	current, err := l.repo.GetForUpdate(ctx, account)
	if err != nil {
		return nil, err
	}
	if current.IsZero() {
		return nil, domain.ErrNothingDue
	}
	if err := l.repo.Set(ctx, account, new(uint256.Int)); err != nil {
		return nil, err
	}
	return current, nil
}
