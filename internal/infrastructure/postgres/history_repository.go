package postgres

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/presale-api/internal/domain/entity"
	"github.com/jhoicas/presale-api/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository   = (*PurchaseRepo)(nil)
	_ repository.WithdrawalRepository = (*WithdrawalRepo)(nil)
)

// PurchaseRepo historial de compras.
type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, payer, beneficiary, amount_wei, tokens, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, accountKey(p.Payer), accountKey(p.Beneficiary), toNumeric(p.AmountWei), toNumeric(p.Tokens), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) List(ctx context.Context, beneficiary *common.Address, limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT id, payer, beneficiary, amount_wei, tokens, created_at
		FROM purchases
		WHERE ($1 = '' OR beneficiary = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	filter := ""
	if beneficiary != nil {
		filter = accountKey(*beneficiary)
	}
	rows, err := r.q.Query(ctx, query, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var out []*entity.Purchase
	for rows.Next() {
		var (
			p              entity.Purchase
			payer, benef   string
			amount, tokens decimal.Decimal
		)
		if err := rows.Scan(&p.ID, &payer, &benef, &amount, &tokens, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Payer = common.HexToAddress(payer)
		p.Beneficiary = common.HexToAddress(benef)
		if p.AmountWei, err = fromNumeric(amount); err != nil {
			return nil, err
		}
		if p.Tokens, err = fromNumeric(tokens); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// WithdrawalRepo historial de retiros.
type WithdrawalRepo struct {
	q Querier
}

func NewWithdrawalRepository(q Querier) *WithdrawalRepo {
	return &WithdrawalRepo{q: q}
}

func (r *WithdrawalRepo) Create(ctx context.Context, w *entity.Withdrawal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO withdrawals (id, account, tokens, created_at) VALUES ($1, $2, $3, $4)`,
		w.ID, accountKey(w.Account), toNumeric(w.Tokens), w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

func (r *WithdrawalRepo) ListByAccount(ctx context.Context, a common.Address) ([]*entity.Withdrawal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, tokens, created_at FROM withdrawals
		WHERE account = $1 ORDER BY created_at`, accountKey(a))
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	var out []*entity.Withdrawal
	for rows.Next() {
		var (
			w      = entity.Withdrawal{Account: a}
			tokens decimal.Decimal
		)
		if err := rows.Scan(&w.ID, &tokens, &w.CreatedAt); err != nil {
			return nil, err
		}
		if w.Tokens, err = fromNumeric(tokens); err != nil {
			return nil, err
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}
