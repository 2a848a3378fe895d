package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/presale-api/internal/application/presale"
)

// Ensure TxRunner implements presale.TxRunner.
var _ presale.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(s presale.Stores) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(storesFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func storesFor(q Querier) presale.Stores {
	return presale.Stores{
		Contributions: NewContributionRepository(q),
		Escrow:        NewEscrowRepository(q),
		Whitelist:     NewWhitelistRepository(q),
		Purchases:     NewPurchaseRepository(q),
		Withdrawals:   NewWithdrawalRepository(q),
		Payments:      NewPaymentSink(q),
		Tokens:        NewTokenLedger(q),
	}
}
