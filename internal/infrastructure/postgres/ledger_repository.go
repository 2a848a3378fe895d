package postgres

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/presale-api/internal/domain/repository"
)

var (
	_ repository.ContributionRepository = (*ContributionRepo)(nil)
	_ repository.EscrowRepository       = (*EscrowRepo)(nil)
)

// ContributionRepo contribución acumulada (wei) por cuenta. Pasar pool o tx (Querier).
type ContributionRepo struct {
	q   Querier
	tbl amountTable
}

func NewContributionRepository(q Querier) *ContributionRepo {
	return &ContributionRepo{q: q, tbl: amountTable{q: q, table: "contributions", column: "amount_wei"}}
}

func (r *ContributionRepo) Get(ctx context.Context, a common.Address) (*uint256.Int, error) {
	return r.tbl.get(ctx, a)
}

func (r *ContributionRepo) GetForUpdate(ctx context.Context, a common.Address) (*uint256.Int, error) {
	return r.tbl.getForUpdate(ctx, a)
}

func (r *ContributionRepo) Set(ctx context.Context, a common.Address, total *uint256.Int) error {
	return r.tbl.set(ctx, a, total)
}

// Total weiRaised.
func (r *ContributionRepo) Total(ctx context.Context) (*uint256.Int, error) {
	var d decimal.Decimal
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount_wei), 0) FROM contributions`).Scan(&d); err != nil {
		return nil, fmt.Errorf("sum contributions: %w", err)
	}
	return fromNumeric(d)
}

// EscrowRepo crédito pendiente de tokens por cuenta.
type EscrowRepo struct {
	tbl amountTable
}

func NewEscrowRepository(q Querier) *EscrowRepo {
	return &EscrowRepo{tbl: amountTable{q: q, table: "pending_credits", column: "tokens"}}
}

func (r *EscrowRepo) Get(ctx context.Context, a common.Address) (*uint256.Int, error) {
	return r.tbl.get(ctx, a)
}

func (r *EscrowRepo) GetForUpdate(ctx context.Context, a common.Address) (*uint256.Int, error) {
	return r.tbl.getForUpdate(ctx, a)
}

func (r *EscrowRepo) Set(ctx context.Context, a common.Address, amount *uint256.Int) error {
	return r.tbl.set(ctx, a, amount)
}
