package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/presale-api/internal/application/presale"
	"github.com/jhoicas/presale-api/internal/domain"
)

var (
	_ presale.TokenLedger = (*TokenLedger)(nil)
	_ presale.PaymentSink = (*PaymentSink)(nil)
)

// TokenLedger token fungible (balances + allowances) en tablas propias. Debe usarse con una tx:
// TransferFrom y Transfer bloquean las filas que modifican.
type TokenLedger struct {
	q        Querier
	balances amountTable
}

func NewTokenLedger(q Querier) *TokenLedger {
	return &TokenLedger{q: q, balances: amountTable{q: q, table: "token_balances", column: "balance"}}
}

func (l *TokenLedger) BalanceOf(ctx context.Context, a common.Address) (*uint256.Int, error) {
	return l.balances.get(ctx, a)
}

func (l *TokenLedger) Allowance(ctx context.Context, owner, spender common.Address) (*uint256.Int, error) {
	var d decimal.Decimal
	err := l.q.QueryRow(ctx,
		`SELECT amount FROM token_allowances WHERE owner = $1 AND spender = $2`,
		accountKey(owner), accountKey(spender),
	).Scan(&d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return new(uint256.Int), nil
		}
		return nil, fmt.Errorf("get allowance: %w", err)
	}
	return fromNumeric(d)
}

func (l *TokenLedger) Approve(ctx context.Context, owner, spender common.Address, amount *uint256.Int) error {
	_, err := l.q.Exec(ctx, `
		INSERT INTO token_allowances (owner, spender, amount) VALUES ($1, $2, $3)
		ON CONFLICT (owner, spender) DO UPDATE SET amount = EXCLUDED.amount`,
		accountKey(owner), accountKey(spender), toNumeric(amount),
	)
	if err != nil {
		return fmt.Errorf("upsert allowance: %w", err)
	}
	return nil
}

func (l *TokenLedger) Mint(ctx context.Context, to common.Address, amount *uint256.Int) error {
	bal, err := l.balances.getForUpdate(ctx, to)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return domain.ErrArithmeticOverflow
	}
	return l.balances.set(ctx, to, next)
}

func (l *TokenLedger) Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) error {
	return l.move(ctx, from, to, amount)
}

// TransferFrom consume allowance(from, spender). La fila del allowance se bloquea antes que los balances.
func (l *TokenLedger) TransferFrom(ctx context.Context, spender, from, to common.Address, amount *uint256.Int) error {
	var d decimal.Decimal
	err := l.q.QueryRow(ctx,
		`SELECT amount FROM token_allowances WHERE owner = $1 AND spender = $2 FOR UPDATE`,
		accountKey(from), accountKey(spender),
	).Scan(&d)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get allowance for update: %w", err)
	}
	allowed, err := fromNumeric(d)
	if err != nil {
		return err
	}
	if allowed.Lt(amount) {
		return domain.ErrInsufficientAllowance
	}
	if err := l.move(ctx, from, to, amount); err != nil {
		return err
	}
	return l.Approve(ctx, from, spender, new(uint256.Int).Sub(allowed, amount))
}

func (l *TokenLedger) move(ctx context.Context, from, to common.Address, amount *uint256.Int) error {
	fromBal, err := l.balances.getForUpdate(ctx, from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return domain.ErrInsufficientBalance
	}
	toBal, err := l.balances.getForUpdate(ctx, to)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	next, overflow := new(uint256.Int).AddOverflow(toBal, amount)
	if overflow {
		return domain.ErrArithmeticOverflow
	}
	if err := l.balances.set(ctx, from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return l.balances.set(ctx, to, next)
}

// PaymentSink registra el pago y lo abona a la wallet beneficiaria.
type PaymentSink struct {
	q        Querier
	balances amountTable
}

func NewPaymentSink(q Querier) *PaymentSink {
	return &PaymentSink{q: q, balances: amountTable{q: q, table: "native_balances", column: "balance"}}
}

func (p *PaymentSink) Forward(ctx context.Context, from, to common.Address, amount *uint256.Int) error {
	bal, err := p.balances.getForUpdate(ctx, to)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return domain.ErrArithmeticOverflow
	}
	if err := p.balances.set(ctx, to, next); err != nil {
		return err
	}
	if _, err := p.q.Exec(ctx, `
		INSERT INTO payment_transfers (from_account, to_account, amount_wei) VALUES ($1, $2, $3)`,
		accountKey(from), accountKey(to), toNumeric(amount),
	); err != nil {
		return fmt.Errorf("insert payment transfer: %w", err)
	}
	return nil
}

func (p *PaymentSink) BalanceOf(ctx context.Context, a common.Address) (*uint256.Int, error) {
	return p.balances.get(ctx, a)
}
