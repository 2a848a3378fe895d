package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// amountTable tabla "cuenta -> monto" (contributions, pending_credits, token_balances, native_balances).
// table y column son constantes del paquete, nunca entrada del usuario.
type amountTable struct {
	q      Querier
	table  string
	column string
}

func (t amountTable) get(ctx context.Context, a common.Address) (*uint256.Int, error) {
	var d decimal.Decimal
	err := t.q.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE account = $1`, t.column, t.table),
		accountKey(a),
	).Scan(&d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return new(uint256.Int), nil
		}
		return nil, fmt.Errorf("get %s: %w", t.table, err)
	}
	return fromNumeric(d)
}

// getForUpdate crea la fila en cero si falta y la bloquea (SELECT FOR UPDATE), así dos compras
// concurrentes de la misma cuenta se serializan aunque sea su primera contribución.
func (t amountTable) getForUpdate(ctx context.Context, a common.Address) (*uint256.Int, error) {
	if _, err := t.q.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (account) VALUES ($1) ON CONFLICT (account) DO NOTHING`, t.table),
		accountKey(a),
	); err != nil {
		return nil, fmt.Errorf("ensure %s: %w", t.table, err)
	}
	var d decimal.Decimal
	if err := t.q.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE account = $1 FOR UPDATE`, t.column, t.table),
		accountKey(a),
	).Scan(&d); err != nil {
		return nil, fmt.Errorf("get %s for update: %w", t.table, err)
	}
	return fromNumeric(d)
}

func (t amountTable) set(ctx context.Context, a common.Address, v *uint256.Int) error {
	_, err := t.q.Exec(ctx,
		fmt.Sprintf(`
			INSERT INTO %[1]s (account, %[2]s) VALUES ($1, $2)
			ON CONFLICT (account) DO UPDATE SET %[2]s = EXCLUDED.%[2]s`, t.table, t.column),
		accountKey(a), toNumeric(v),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", t.table, err)
	}
	return nil
}
