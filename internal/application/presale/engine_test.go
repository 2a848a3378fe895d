package presale_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/presale-api/internal/application/presale"
	"github.com/jhoicas/presale-api/internal/domain"
	domainpresale "github.com/jhoicas/presale-api/internal/domain/presale"
	"github.com/jhoicas/presale-api/internal/infrastructure/memory"
)

var (
	wallet   = common.HexToAddress("0x000000000000000000000000000000000000d001")
	provider = common.HexToAddress("0x000000000000000000000000000000000000d002")
	vault    = common.HexToAddress("0x000000000000000000000000000000000000d003")
	alice    = common.HexToAddress("0x000000000000000000000000000000000000a001")
	bob      = common.HexToAddress("0x000000000000000000000000000000000000a002")
	carol    = common.HexToAddress("0x000000000000000000000000000000000000a003")

	opening  = time.Unix(1679612400, 0)
	closing  = time.Unix(1679954400, 0)
	lockTime = closing.Add(15778800 * time.Second)
)

type fixture struct {
	engine *presale.Engine
	store  *memory.Store
	clock  *domainpresale.ManualClock
	params domainpresale.Params
	supply *uint256.Int
}

func eth(t *testing.T, s string) *uint256.Int {
	t.Helper()
	v, err := domainpresale.ParseEther(s)
	require.NoError(t, err)
	return v
}

func tokens(t *testing.T, s string) *uint256.Int {
	t.Helper()
	v, err := domainpresale.ParseUnits(s, domainpresale.Decimals)
	require.NoError(t, err)
	return v
}

// newFixture despliega la preventa con rate 100, caps 5/250 ETH y 10B tokens en el provider.
func newFixture(t *testing.T, wrap ...func(presale.TxRunner) presale.TxRunner) *fixture {
	t.Helper()
	rate, err := domainpresale.NewRate(100)
	require.NoError(t, err)
	window, err := domainpresale.NewSaleWindow(opening, closing)
	require.NoError(t, err)
	params := domainpresale.Params{
		Rate: rate, Wallet: wallet, Provider: provider, Vault: vault,
		Window: window, LockTime: lockTime,
		Caps: domainpresale.Caps{Min: eth(t, "5"), Max: eth(t, "250")},
	}
	store := memory.NewStore()
	var runner presale.TxRunner = store
	for _, w := range wrap {
		runner = w(runner)
	}
	clock := domainpresale.NewManualClock(opening.Add(-time.Hour))
	engine, err := presale.NewEngine(params, clock, runner)
	require.NoError(t, err)

	supply, err := presale.SeedProvider(context.Background(), store, params, "10000000000")
	require.NoError(t, err)

	ctx := context.Background()
	for _, a := range []common.Address{alice, bob} {
		require.NoError(t, store.Whitelist().Set(ctx, a, true, "test"))
	}
	return &fixture{engine: engine, store: store, clock: clock, params: params, supply: supply}
}

func (f *fixture) buy(t *testing.T, beneficiary common.Address, amount string) error {
	t.Helper()
	_, err := f.engine.Buy(context.Background(), presale.BuyInput{Beneficiary: beneficiary, Amount: eth(t, amount)})
	return err
}

type balances struct {
	wallet, provider, vault, alice, bob, allowance *uint256.Int
}

func (f *fixture) balances(t *testing.T) balances {
	t.Helper()
	ctx := context.Background()
	var b balances
	require.NoError(t, f.store.Run(ctx, func(s presale.Stores) error {
		var err error
		if b.wallet, err = s.Payments.BalanceOf(ctx, wallet); err != nil {
			return err
		}
		b.provider, _ = s.Tokens.BalanceOf(ctx, provider)
		b.vault, _ = s.Tokens.BalanceOf(ctx, vault)
		b.alice, _ = s.Tokens.BalanceOf(ctx, alice)
		b.bob, _ = s.Tokens.BalanceOf(ctx, bob)
		b.allowance, _ = s.Tokens.Allowance(ctx, provider, vault)
		return nil
	}))
	return b
}

func TestNewEngine_Validaciones(t *testing.T) {
	f := newFixture(t)
	_, err := presale.NewEngine(f.params, nil, nil)
	assert.Error(t, err, "tx runner requerido")

	bad := f.params
	bad.Wallet = common.Address{}
	_, err = presale.NewEngine(bad, nil, f.store)
	assert.Error(t, err)

	e, err := presale.NewEngine(f.params, nil, f.store)
	require.NoError(t, err, "reloj nil usa el del sistema")
	assert.Equal(t, domainpresale.PhaseClosed, e.Phase())
}

func TestBuy_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.clock.Set(opening)
	assert.Equal(t, domainpresale.PhaseOpen, f.engine.Phase())

	require.NoError(t, f.buy(t, alice, "5"))
	require.NoError(t, f.buy(t, alice, "5"))
	require.NoError(t, f.buy(t, bob, "250"))

	pending, err := f.engine.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.True(t, pending.Eq(tokens(t, "1000")), "10 ETH * 100 = 1000 tokens")
	pending, err = f.engine.BalanceOf(ctx, bob)
	require.NoError(t, err)
	assert.True(t, pending.Eq(tokens(t, "25000")))

	contrib, err := f.engine.ContributionOf(ctx, alice)
	require.NoError(t, err)
	assert.True(t, contrib.Eq(eth(t, "10")))

	b := f.balances(t)
	assert.True(t, b.wallet.Eq(eth(t, "260")), "la wallet recibe todos los pagos")
	assert.True(t, b.vault.Eq(tokens(t, "26000")), "los tokens vendidos quedan en custodia")
	assert.True(t, b.provider.Eq(tokens(t, "9999974000")))
	assert.True(t, b.alice.IsZero(), "sin entrega antes de lockTime")

	st, err := f.engine.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.WeiRaised.Eq(eth(t, "260")))
	assert.True(t, st.RemainingTokens.Eq(tokens(t, "9999974000")))
	assert.True(t, st.IsOpen)
	assert.False(t, st.LockReached)

	list, err := f.engine.ListPurchases(ctx, &alice, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBuy_Rechazos(t *testing.T) {
	cases := []struct {
		name        string
		at          time.Time
		beneficiary common.Address
		amount      string
		want        error
	}{
		{"no whitelisted antes de abrir", opening.Add(-time.Minute), carol, "5", domain.ErrNotWhitelisted},
		{"no whitelisted con venta abierta", opening, carol, "5", domain.ErrNotWhitelisted},
		{"antes de abrir", opening.Add(-time.Second), alice, "5", domain.ErrSaleNotOpen},
		{"exactamente en closing", closing, alice, "5", domain.ErrSaleNotOpen},
		{"después del cierre", closing.Add(time.Hour), alice, "5", domain.ErrSaleNotOpen},
		{"cero wei", opening, alice, "0", domain.ErrZeroAmount},
		{"cero wei fuera de ventana", closing, alice, "0", domain.ErrSaleNotOpen},
		{"debajo del mínimo", opening, alice, "1", domain.ErrBelowMinimumCap},
		{"encima del máximo", opening, alice, "251", domain.ErrAboveMaximumCap},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.clock.Set(tc.at)
			before := f.balances(t)

			err := f.buy(t, tc.beneficiary, tc.amount)
			assert.ErrorIs(t, err, tc.want)

			after := f.balances(t)
			assert.True(t, before.wallet.Eq(after.wallet), "un rechazo no mueve pagos")
			assert.True(t, before.provider.Eq(after.provider), "un rechazo no mueve tokens")
			pending, _ := f.engine.BalanceOf(context.Background(), tc.beneficiary)
			assert.True(t, pending.IsZero())
		})
	}
}

func TestBuy_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(opening)
	_, err := f.engine.Buy(context.Background(), presale.BuyInput{Amount: eth(t, "5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "beneficiario cero")

	_, err = f.engine.Buy(context.Background(), presale.BuyInput{Beneficiary: alice})
	assert.ErrorIs(t, err, domain.ErrZeroAmount, "monto nil")
}

func TestBuy_PayerDistintoDelBeneficiario(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(opening)

	p, err := f.engine.Buy(context.Background(), presale.BuyInput{Payer: carol, Beneficiary: alice, Amount: eth(t, "5")})
	require.NoError(t, err, "el payer no necesita whitelist")
	assert.Equal(t, carol, p.Payer)
	assert.Equal(t, alice, p.Beneficiary)

	c, _ := f.engine.ContributionOf(context.Background(), carol)
	assert.True(t, c.IsZero(), "el cap cuenta para el beneficiario")
	c, _ = f.engine.ContributionOf(context.Background(), alice)
	assert.True(t, c.Eq(eth(t, "5")))
}

func TestBuy_CapAcumulado(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(opening)

	require.NoError(t, f.buy(t, alice, "200"))
	assert.ErrorIs(t, f.buy(t, alice, "51"), domain.ErrAboveMaximumCap)
	require.NoError(t, f.buy(t, alice, "50"))
	assert.ErrorIs(t, f.buy(t, alice, "0.000000000000000001"), domain.ErrAboveMaximumCap)

	c, _ := f.engine.ContributionOf(context.Background(), alice)
	assert.True(t, c.Eq(eth(t, "250")))
}

func TestBuy_SinAllowanceRevierteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.clock.Set(opening)

	require.NoError(t, f.store.Run(ctx, func(s presale.Stores) error {
		return s.Tokens.Approve(ctx, provider, vault, tokens(t, "100"))
	}))
	before := f.balances(t)

	err := f.buy(t, alice, "5")
	assert.ErrorIs(t, err, domain.ErrInsufficientAllowance)

	after := f.balances(t)
	assert.True(t, before.wallet.Eq(after.wallet), "el pago se revierte")
	c, _ := f.engine.ContributionOf(ctx, alice)
	assert.True(t, c.IsZero(), "la contribución se revierte")
	pending, _ := f.engine.BalanceOf(ctx, alice)
	assert.True(t, pending.IsZero(), "el crédito se revierte")
	list, _ := f.engine.ListPurchases(ctx, nil, 10, 0)
	assert.Empty(t, list)
}

// failingTokens simula una caída del ledger de tokens a mitad de la compra.
type failingTokens struct{ presale.TokenLedger }

func (failingTokens) TransferFrom(context.Context, common.Address, common.Address, common.Address, *uint256.Int) error {
	return errors.New("ledger no disponible")
}

type failingRunner struct{ inner presale.TxRunner }

func (r failingRunner) Run(ctx context.Context, fn func(presale.Stores) error) error {
	return r.inner.Run(ctx, func(s presale.Stores) error {
		s.Tokens = failingTokens{s.Tokens}
		return fn(s)
	})
}

func TestBuy_FalloDelColaboradorRevierte(t *testing.T) {
	f := newFixture(t, func(inner presale.TxRunner) presale.TxRunner { return failingRunner{inner: inner} })
	f.clock.Set(opening)

	err := f.buy(t, alice, "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger no disponible")
	assert.Equal(t, "internal", presale.RejectReason(err))

	c, _ := f.engine.ContributionOf(context.Background(), alice)
	assert.True(t, c.IsZero())
	assert.True(t, f.balances(t).wallet.IsZero())
}

func TestWithdraw_Lock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.clock.Set(opening)
	require.NoError(t, f.buy(t, alice, "10"))

	f.clock.Set(closing)
	_, err := f.engine.WithdrawTokens(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrLockPeriodNotReached)

	f.clock.Set(lockTime.Add(-time.Second))
	_, err = f.engine.WithdrawTokens(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrLockPeriodNotReached)

	f.clock.Set(lockTime)
	w, err := f.engine.WithdrawTokens(ctx, alice)
	require.NoError(t, err)
	assert.True(t, w.Tokens.Eq(tokens(t, "1000")))

	b := f.balances(t)
	assert.True(t, b.alice.Eq(tokens(t, "1000")))
	assert.True(t, b.vault.IsZero())

	_, err = f.engine.WithdrawTokens(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrNothingDue, "segundo retiro")
	assert.True(t, f.balances(t).alice.Eq(tokens(t, "1000")), "el segundo retiro no cambia nada")

	_, err = f.engine.WithdrawTokens(ctx, carol)
	assert.ErrorIs(t, err, domain.ErrNothingDue, "cuenta que nunca compró")

	_, err = f.engine.WithdrawTokens(ctx, common.Address{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sum, err := f.engine.Account(ctx, alice)
	require.NoError(t, err)
	assert.True(t, sum.PendingTokens.IsZero())
	assert.Len(t, sum.Withdrawals, 1)
}

func TestWithdraw_CuentaQuitadaDeWhitelist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.clock.Set(opening)
	require.NoError(t, f.buy(t, alice, "5"))
	require.NoError(t, f.store.Whitelist().Set(ctx, alice, false, "test"))

	assert.ErrorIs(t, f.buy(t, alice, "5"), domain.ErrNotWhitelisted)

	f.clock.Set(lockTime)
	w, err := f.engine.WithdrawTokens(ctx, alice)
	require.NoError(t, err)
	assert.True(t, w.Tokens.Eq(tokens(t, "500")))
}

func TestConservacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.clock.Set(opening)
	require.NoError(t, f.buy(t, alice, "5"))
	require.NoError(t, f.buy(t, bob, "17.25"))
	require.NoError(t, f.buy(t, alice, "3"))

	check := func() {
		b := f.balances(t)
		pa, _ := f.engine.BalanceOf(ctx, alice)
		pb, _ := f.engine.BalanceOf(ctx, bob)

		delivered := new(uint256.Int).Add(b.alice, b.bob)
		pending := new(uint256.Int).Add(pa, pb)
		sold := new(uint256.Int).Sub(f.supply, b.provider)

		assert.True(t, sold.Eq(new(uint256.Int).Add(delivered, pending)), "vendido = entregado + pendiente")
		assert.True(t, b.vault.Eq(pending), "el vault custodia exactamente lo pendiente")
		assert.True(t, b.allowance.Eq(b.provider), "el allowance baja al mismo ritmo que el balance del provider")

		st, err := f.engine.Status(ctx)
		require.NoError(t, err)
		credited := new(uint256.Int).Mul(st.WeiRaised, uint256.NewInt(st.Rate))
		assert.True(t, sold.Eq(credited), "tokens acreditados = rate × wei recaudado: %s vs %s", sold.Dec(), credited.Dec())
		assert.Equal(t, "25250000000000000000", st.WeiRaised.Dec())
	}
	check()

	f.clock.Set(lockTime)
	_, err := f.engine.WithdrawTokens(ctx, bob)
	require.NoError(t, err)
	check()
}

func TestBuy_ConcurrenteRespetaMaximo(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(opening)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		amount   = eth(t, "25")
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Buy(context.Background(), presale.BuyInput{Beneficiary: alice, Amount: amount})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted, "250 / 25 compras como máximo")
	c, _ := f.engine.ContributionOf(context.Background(), alice)
	assert.True(t, c.Eq(eth(t, "250")))
}

func TestRejectReason(t *testing.T) {
	assert.Equal(t, "below_min_cap", presale.RejectReason(domain.ErrBelowMinimumCap))
	assert.Equal(t, "insufficient_allowance", presale.RejectReason(errors.Join(errors.New("x"), domain.ErrInsufficientAllowance)))
	assert.Equal(t, "internal", presale.RejectReason(errors.New("boom")))
}
