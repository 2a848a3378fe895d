// Package memory implementa el ledger de la preventa en memoria, para uso standalone y pruebas.
// Cada transacción trabaja sobre una copia del estado bajo un único lock global; Commit reemplaza
// el estado y Rollback simplemente descarta la copia.
package memory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/jhoicas/presale-api/internal/application/presale"
	"github.com/jhoicas/presale-api/internal/domain/entity"
)

var _ presale.TxRunner = (*Store)(nil)

type allowanceKey struct {
	owner   common.Address
	spender common.Address
}

type state struct {
	contributions map[common.Address]*uint256.Int
	pending       map[common.Address]*uint256.Int
	whitelist     map[common.Address]bool
	purchases     []*entity.Purchase
	withdrawals   []*entity.Withdrawal
	native        map[common.Address]*uint256.Int
	tokens        map[common.Address]*uint256.Int
	allowances    map[allowanceKey]*uint256.Int
	totalSupply   *uint256.Int
}

func newState() *state {
	return &state{
		contributions: make(map[common.Address]*uint256.Int),
		pending:       make(map[common.Address]*uint256.Int),
		whitelist:     make(map[common.Address]bool),
		native:        make(map[common.Address]*uint256.Int),
		tokens:        make(map[common.Address]*uint256.Int),
		allowances:    make(map[allowanceKey]*uint256.Int),
		totalSupply:   new(uint256.Int),
	}
}

func cloneAmounts[K comparable](m map[K]*uint256.Int) map[K]*uint256.Int {
	out := make(map[K]*uint256.Int, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

func (s *state) clone() *state {
	wl := make(map[common.Address]bool, len(s.whitelist))
	for k, v := range s.whitelist {
		wl[k] = v
	}
	return &state{
		contributions: cloneAmounts(s.contributions),
		pending:       cloneAmounts(s.pending),
		whitelist:     wl,
		purchases:     append([]*entity.Purchase(nil), s.purchases...),
		withdrawals:   append([]*entity.Withdrawal(nil), s.withdrawals...),
		native:        cloneAmounts(s.native),
		tokens:        cloneAmounts(s.tokens),
		allowances:    cloneAmounts(s.allowances),
		totalSupply:   s.totalSupply.Clone(),
	}
}

func (s *state) stores() presale.Stores {
	return presale.Stores{
		Contributions: contributionRepo{st: s},
		Escrow:        escrowRepo{st: s},
		Whitelist:     whitelistRepo{st: s},
		Purchases:     purchaseRepo{st: s},
		Withdrawals:   withdrawalRepo{st: s},
		Payments:      paymentSink{st: s},
		Tokens:        tokenLedger{st: s},
	}
}

// Store ledger en memoria. Implementa presale.TxRunner.
type Store struct {
	mu    sync.Mutex
	state *state
	users *UserRepo
}

// NewStore crea un ledger vacío.
func NewStore() *Store {
	return &Store{state: newState(), users: NewUserRepository()}
}

// Run ejecuta fn sobre una copia del estado; si fn no falla, la copia pasa a ser el estado.
func (s *Store) Run(ctx context.Context, fn func(presale.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(work.stores()); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Whitelist repositorio de whitelist fuera de transacción (cada llamada toma el lock).
func (s *Store) Whitelist() *LockedWhitelist {
	return &LockedWhitelist{store: s}
}

// Users repositorio de operadores.
func (s *Store) Users() *UserRepo {
	return s.users
}
