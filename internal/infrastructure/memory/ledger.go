package memory

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/jhoicas/presale-api/internal/domain"
	"github.com/jhoicas/presale-api/internal/domain/entity"
)

func amountOf[K comparable](m map[K]*uint256.Int, k K) *uint256.Int {
	if v, ok := m[k]; ok {
		return v.Clone()
	}
	return new(uint256.Int)
}

// contribuciones

type contributionRepo struct{ st *state }

func (r contributionRepo) Get(_ context.Context, a common.Address) (*uint256.Int, error) {
	return amountOf(r.st.contributions, a), nil
}

// GetForUpdate no necesita bloqueo adicional: la tx ya tiene el lock global.
func (r contributionRepo) GetForUpdate(ctx context.Context, a common.Address) (*uint256.Int, error) {
	return r.Get(ctx, a)
}

func (r contributionRepo) Set(_ context.Context, a common.Address, total *uint256.Int) error {
	r.st.contributions[a] = total.Clone()
	return nil
}

func (r contributionRepo) Total(context.Context) (*uint256.Int, error) {
	sum := new(uint256.Int)
	for _, v := range r.st.contributions {
		if _, overflow := sum.AddOverflow(sum, v); overflow {
			return nil, domain.ErrArithmeticOverflow
		}
	}
	return sum, nil
}

// crédito pendiente

type escrowRepo struct{ st *state }

func (r escrowRepo) Get(_ context.Context, a common.Address) (*uint256.Int, error) {
	return amountOf(r.st.pending, a), nil
}

func (r escrowRepo) GetForUpdate(ctx context.Context, a common.Address) (*uint256.Int, error) {
	return r.Get(ctx, a)
}

func (r escrowRepo) Set(_ context.Context, a common.Address, amount *uint256.Int) error {
	r.st.pending[a] = amount.Clone()
	return nil
}

// whitelist

type whitelistRepo struct{ st *state }

func (r whitelistRepo) IsWhitelisted(_ context.Context, a common.Address) (bool, error) {
	return r.st.whitelist[a], nil
}

func (r whitelistRepo) Set(_ context.Context, a common.Address, whitelisted bool, _ string) error {
	r.st.whitelist[a] = whitelisted
	return nil
}

func (r whitelistRepo) List(_ context.Context, limit, offset int) ([]common.Address, error) {
	var all []common.Address
	for a, ok := range r.st.whitelist {
		if ok {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Cmp(all[j]) < 0 })
	return page(all, limit, offset), nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// historial

type purchaseRepo struct{ st *state }

func (r purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	r.st.purchases = append(r.st.purchases, p)
	return nil
}

func (r purchaseRepo) List(_ context.Context, beneficiary *common.Address, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for i := len(r.st.purchases) - 1; i >= 0; i-- {
		p := r.st.purchases[i]
		if beneficiary != nil && p.Beneficiary != *beneficiary {
			continue
		}
		out = append(out, p)
	}
	return page(out, limit, offset), nil
}

type withdrawalRepo struct{ st *state }

func (r withdrawalRepo) Create(_ context.Context, w *entity.Withdrawal) error {
	r.st.withdrawals = append(r.st.withdrawals, w)
	return nil
}

func (r withdrawalRepo) ListByAccount(_ context.Context, a common.Address) ([]*entity.Withdrawal, error) {
	var out []*entity.Withdrawal
	for _, w := range r.st.withdrawals {
		if w.Account == a {
			out = append(out, w)
		}
	}
	return out, nil
}

// pagos en moneda nativa: el pago llega con la llamada (como msg.value) y se abona a la wallet.

type paymentSink struct{ st *state }

func (p paymentSink) Forward(_ context.Context, _, to common.Address, amount *uint256.Int) error {
	next, overflow := new(uint256.Int).AddOverflow(amountOf(p.st.native, to), amount)
	if overflow {
		return domain.ErrArithmeticOverflow
	}
	p.st.native[to] = next
	return nil
}

func (p paymentSink) BalanceOf(_ context.Context, a common.Address) (*uint256.Int, error) {
	return amountOf(p.st.native, a), nil
}

// token fungible con balances y allowances.

type tokenLedger struct{ st *state }

func (t tokenLedger) BalanceOf(_ context.Context, a common.Address) (*uint256.Int, error) {
	return amountOf(t.st.tokens, a), nil
}

func (t tokenLedger) Allowance(_ context.Context, owner, spender common.Address) (*uint256.Int, error) {
	return amountOf(t.st.allowances, allowanceKey{owner, spender}), nil
}

func (t tokenLedger) Approve(_ context.Context, owner, spender common.Address, amount *uint256.Int) error {
	t.st.allowances[allowanceKey{owner, spender}] = amount.Clone()
	return nil
}

func (t tokenLedger) Mint(_ context.Context, to common.Address, amount *uint256.Int) error {
	supply, overflow := new(uint256.Int).AddOverflow(t.st.totalSupply, amount)
	if overflow {
		return domain.ErrArithmeticOverflow
	}
	t.st.totalSupply = supply
	t.st.tokens[to] = new(uint256.Int).Add(amountOf(t.st.tokens, to), amount)
	return nil
}

func (t tokenLedger) Transfer(_ context.Context, from, to common.Address, amount *uint256.Int) error {
	return t.move(from, to, amount)
}

func (t tokenLedger) TransferFrom(_ context.Context, spender, from, to common.Address, amount *uint256.Int) error {
	key := allowanceKey{from, spender}
	allowed := amountOf(t.st.allowances, key)
	if allowed.Lt(amount) {
		return domain.ErrInsufficientAllowance
	}
	if err := t.move(from, to, amount); err != nil {
		return err
	}
	t.st.allowances[key] = new(uint256.Int).Sub(allowed, amount)
	return nil
}

func (t tokenLedger) move(from, to common.Address, amount *uint256.Int) error {
	fromBal := amountOf(t.st.tokens, from)
	if fromBal.Lt(amount) {
		return domain.ErrInsufficientBalance
	}
	t.st.tokens[from] = new(uint256.Int).Sub(fromBal, amount)
	// el supply total acota cualquier balance, no puede desbordar
	t.st.tokens[to] = new(uint256.Int).Add(amountOf(t.st.tokens, to), amount)
	return nil
}
