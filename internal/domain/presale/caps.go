package presale

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jhoicas/presale-api/internal/domain"
	"github.com/jhoicas/presale-api/internal/domain/repository"
)

// Caps límites individuales (wei) sobre la contribución acumulada de cada cuenta.
type Caps struct {
	Min *uint256.Int
	Max *uint256.Int
}

// Validate exige 0 < max y min <= max.
func (c Caps) Validate() error {
	if c.Min == nil || c.Max == nil || c.Max.IsZero() || c.Min.Gt(c.Max) {
		return domain.ErrInvalidInput
	}
	return nil
}

// Check calcula el nuevo total y aplica los caps. El mínimo se evalúa antes que el máximo.
func (c Caps) Check(current, amount *uint256.Int) (*uint256.Int, error) {
	total, overflow := new(uint256.Int).AddOverflow(current, amount)
	if overflow {
		return nil, domain.ErrAboveMaximumCap
	}
	if total.Lt(c.Min) {
		return nil, domain.ErrBelowMinimumCap
	}
	if total.Gt(c.Max) {
		return nil, domain.ErrAboveMaximumCap
	}
	return total, nil
}

// CapLedger registra contribuciones por cuenta respetando los caps.
// Se construye por transacción con el repositorio atado a esa tx.
type CapLedger struct {
	repo repository.ContributionRepository
	caps Caps
}

// NewCapLedger construye el ledger de caps.
func NewCapLedger(repo repository.ContributionRepository, caps Caps) *CapLedger {
	return &CapLedger{repo: repo, caps: caps}
}

// RecordAndCheck suma amount a la contribución de la cuenta si el total queda dentro de los caps.
// Si falla no escribe nada.
func (l *CapLedger) RecordAndCheck(ctx context.Context, account common.Address, amount *uint256.Int) (*uint256.Int, error) {
	current, err := l.repo.GetForUpdate(ctx, account)
	if err != nil {
		return nil, err
	}
	total, err := l.caps.Check(current, amount)
	if err != nil {
		return nil, err
	}
	if err := l.repo.Set(ctx, account, total); err != nil {
		return nil, err
	}
	return total, nil
}
