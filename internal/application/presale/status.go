package presale

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/jhoicas/presale-api/internal/domain"
	"github.com/jhoicas/presale-api/internal/domain/entity"
	domainpresale "github.com/jhoicas/presale-api/internal/domain/presale"
)

// Status vista de solo lectura de la preventa.
type Status struct {
	Now             time.Time
	Phase           domainpresale.Phase
	IsOpen          bool
	HasClosed       bool
	LockReached     bool
	Rate            uint64
	Wallet          common.Address
	Token           common.Address
	Provider        common.Address
	Vault           common.Address
	OpeningTime     time.Time
	ClosingTime     time.Time
	LockTime        time.Time
	MinCap          *uint256.Int
	MaxCap          *uint256.Int
	WeiRaised       *uint256.Int
	RemainingTokens *uint256.Int // min(balance del provider, allowance al vault)
}

// AccountSummary estado de una cuenta en la preventa.
type AccountSummary struct {
	Account       common.Address
	Whitelisted   bool
	Contribution  *uint256.Int
	PendingTokens *uint256.Int
	TokenBalance  *uint256.Int
	Withdrawals   []*entity.Withdrawal
}

// Status calcula el estado actual.
func (e *Engine) Status(ctx context.Context) (*Status, error) {
	now := e.clock.Now()
	st := &Status{
		Now:         now,
		Phase:       e.params.Window.PhaseAt(now),
		IsOpen:      e.params.Window.IsOpen(now),
		HasClosed:   e.params.Window.HasClosed(now),
		LockReached: e.lockReached(now),
		Rate:        e.params.Rate.Uint64(),
		Wallet:      e.params.Wallet,
		Token:       e.params.Token,
		Provider:    e.params.Provider,
		Vault:       e.params.Vault,
		OpeningTime: e.params.Window.Opening,
		ClosingTime: e.params.Window.Closing,
		LockTime:    e.params.LockTime,
		MinCap:      e.params.Caps.Min.Clone(),
		MaxCap:      e.params.Caps.Max.Clone(),
	}
	err := e.tx.Run(ctx, func(s Stores) error {
		raised, err := s.Contributions.Total(ctx)
		if err != nil {
			return err
		}
		balance, err := s.Tokens.BalanceOf(ctx, e.params.Provider)
		if err != nil {
			return err
		}
		allowance, err := s.Tokens.Allowance(ctx, e.params.Provider, e.params.Vault)
		if err != nil {
			return err
		}
		st.WeiRaised = raised
		if balance.Lt(allowance) {
			st.RemainingTokens = balance
		} else {
			st.RemainingTokens = allowance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// BalanceOf crédito pendiente de entrega de la cuenta.
func (e *Engine) BalanceOf(ctx context.Context, account common.Address) (*uint256.Int, error) {
	var out *uint256.Int
	err := e.tx.Run(ctx, func(s Stores) error {
		v, err := s.Escrow.Get(ctx, account)
		out = v
		return err
	})
	return out, err
}

// ContributionOf wei aportados por la cuenta.
func (e *Engine) ContributionOf(ctx context.Context, account common.Address) (*uint256.Int, error) {
	var out *uint256.Int
	err := e.tx.Run(ctx, func(s Stores) error {
		v, err := s.Contributions.Get(ctx, account)
		out = v
		return err
	})
	return out, err
}

// Account resume whitelist, contribución, crédito pendiente, saldo de tokens y retiros.
func (e *Engine) Account(ctx context.Context, account common.Address) (*AccountSummary, error) {
	if entity.IsZeroAccount(account) {
		return nil, domain.ErrInvalidInput
	}
	sum := &AccountSummary{Account: account}
	err := e.tx.Run(ctx, func(s Stores) error {
		var err error
		if sum.Whitelisted, err = s.Whitelist.IsWhitelisted(ctx, account); err != nil {
			return err
		}
		if sum.Contribution, err = s.Contributions.Get(ctx, account); err != nil {
			return err
		}
		if sum.PendingTokens, err = s.Escrow.Get(ctx, account); err != nil {
			return err
		}
		if sum.TokenBalance, err = s.Tokens.BalanceOf(ctx, account); err != nil {
			return err
		}
		sum.Withdrawals, err = s.Withdrawals.ListByAccount(ctx, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// Límites de página del historial de compras.
const (
	DefaultPurchaseLimit = 20
	MaxPurchaseLimit     = 100
)

// ListPurchases historial de compras, opcionalmente filtrado por beneficiario.
func (e *Engine) ListPurchases(ctx context.Context, beneficiary *common.Address, limit, offset int) ([]*entity.Purchase, error) {
	if limit <= 0 {
		limit = DefaultPurchaseLimit
	}
	if limit > MaxPurchaseLimit {
		limit = MaxPurchaseLimit
	}
	if offset < 0 {
		offset = 0
	}
	var out []*entity.Purchase
	err := e.tx.Run(ctx, func(s Stores) error {
		list, err := s.Purchases.List(ctx, beneficiary, limit, offset)
		out = list
		return err
	})
	return out, err
}
