package presale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/jhoicas/presale-api/internal/domain"
	"github.com/jhoicas/presale-api/internal/domain/entity"
	domainpresale "github.com/jhoicas/presale-api/internal/domain/presale"
)

// Engine máquina de estados de la preventa. La fase no se guarda: se deriva del reloj en cada llamada.
// Compras y retiros corren dentro de una única transacción (TxRunner) y se revierten completos si
// cualquier paso falla.
type Engine struct {
	params  domainpresale.Params
	clock   domainpresale.Clock
	tx      TxRunner
	log     zerolog.Logger
	metrics Recorder
}

// Option configura el motor.
type Option func(*Engine)

// WithLogger inyecta el logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRecorder inyecta las métricas.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.metrics = r
		}
	}
}

// NewEngine valida los parámetros y construye el motor.
func NewEngine(params domainpresale.Params, clock domainpresale.Clock, tx TxRunner, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = domainpresale.SystemClock{}
	}
	if tx == nil {
		return nil, fmt.Errorf("engine: tx runner requerido")
	}
	e := &Engine{
		params:  params,
		clock:   clock,
		tx:      tx,
		log:     zerolog.Nop(),
		metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if params.LockBeforeClose() {
		e.log.Warn().
			Time("lock_time", params.LockTime).
			Time("closing_time", params.Window.Closing).
			Msg("lockTime anterior al cierre de la venta")
	}
	return e, nil
}

// Params parámetros inmutables del motor.
func (e *Engine) Params() domainpresale.Params { return e.params }

// Phase fase actual según el reloj.
func (e *Engine) Phase() domainpresale.Phase {
	return e.params.Window.PhaseAt(e.clock.Now())
}

// BuyInput entrada de una compra. Payer vacío = el propio beneficiario.
type BuyInput struct {
	Payer       common.Address
	Beneficiary common.Address
	Amount      *uint256.Int
}

// Buy acepta un pago durante la ventana abierta y acredita tokens al beneficiario.
// Orden de validación (el primer fallo gana): whitelist, ventana, monto > 0, caps.
// Efectos en la misma tx: contribución, crédito pendiente, pago a la wallet, tokens provider -> vault.
func (e *Engine) Buy(ctx context.Context, in BuyInput) (*entity.Purchase, error) {
	p, err := e.buy(ctx, in)
	if err != nil {
		reason := RejectReason(err)
		e.metrics.PurchaseRejected(reason)
		e.log.Warn().Err(err).
			Str("beneficiary", in.Beneficiary.Hex()).
			Str("reason", reason).
			Msg("compra rechazada")
		return nil, err
	}
	e.metrics.PurchaseAccepted(p.AmountWei, p.Tokens)
	e.log.Info().
		Str("purchase_id", p.ID).
		Str("payer", p.Payer.Hex()).
		Str("beneficiary", p.Beneficiary.Hex()).
		Str("amount_wei", p.AmountWei.Dec()).
		Str("tokens", p.Tokens.Dec()).
		Msg("compra aceptada")
	return p, nil
}

func (e *Engine) buy(ctx context.Context, in BuyInput) (*entity.Purchase, error) {
	if entity.IsZeroAccount(in.Beneficiary) {
		return nil, domain.ErrInvalidInput
	}
	payer := in.Payer
	if entity.IsZeroAccount(payer) {
		payer = in.Beneficiary
	}
	now := e.clock.Now()

	var out *entity.Purchase
	err := e.tx.Run(ctx, func(s Stores) error {
		ok, err := s.Whitelist.IsWhitelisted(ctx, in.Beneficiary)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotWhitelisted
		}
		if !e.params.Window.IsOpen(now) {
			return domain.ErrSaleNotOpen
		}
		if in.Amount == nil || in.Amount.IsZero() {
			return domain.ErrZeroAmount
		}
		amount := in.Amount.Clone()

		if _, err := domainpresale.NewCapLedger(s.Contributions, e.params.Caps).
			RecordAndCheck(ctx, in.Beneficiary, amount); err != nil {
			return err
		}
		tokens, err := e.params.Rate.TokensFor(amount)
		if err != nil {
			return err
		}
		if _, err := domainpresale.NewEscrowLedger(s.Escrow).Credit(ctx, in.Beneficiary, tokens); err != nil {
			return err
		}
		if err := s.Payments.Forward(ctx, payer, e.params.Wallet, amount); err != nil {
			return fmt.Errorf("reenviar pago: %w", err)
		}
		if err := s.Tokens.TransferFrom(ctx, e.params.Vault, e.params.Provider, e.params.Vault, tokens); err != nil {
			return fmt.Errorf("debitar allowance del provider: %w", err)
		}

		p := &entity.Purchase{
			ID:          uuid.New().String(),
			Payer:       payer,
			Beneficiary: in.Beneficiary,
			AmountWei:   amount,
			Tokens:      tokens,
			CreatedAt:   now,
		}
		if err := s.Purchases.Create(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WithdrawTokens entrega todo el crédito pendiente de la cuenta una vez alcanzado lockTime.
// No exige whitelist: una cuenta retirada de la lista conserva lo ya comprado.
func (e *Engine) WithdrawTokens(ctx context.Context, account common.Address) (*entity.Withdrawal, error) {
	w, err := e.withdraw(ctx, account)
	if err != nil {
		reason := RejectReason(err)
		e.metrics.WithdrawalRejected(reason)
		e.log.Warn().Err(err).
			Str("account", account.Hex()).
			Str("reason", reason).
			Msg("retiro rechazado")
		return nil, err
	}
	e.metrics.WithdrawalAccepted(w.Tokens)
	e.log.Info().
		Str("withdrawal_id", w.ID).
		Str("account", w.Account.Hex()).
		Str("tokens", w.Tokens.Dec()).
		Msg("tokens retirados")
	return w, nil
}

func (e *Engine) withdraw(ctx context.Context, account common.Address) (*entity.Withdrawal, error) {
	if entity.IsZeroAccount(account) {
		return nil, domain.ErrInvalidInput
	}
	now := e.clock.Now()
	if !e.lockReached(now) {
		return nil, domain.ErrLockPeriodNotReached
	}

	var out *entity.Withdrawal
	err := e.tx.Run(ctx, func(s Stores) error {
		tokens, err := domainpresale.NewEscrowLedger(s.Escrow).Drain(ctx, account)
		if err != nil {
			return err
		}
		if err := s.Tokens.Transfer(ctx, e.params.Vault, account, tokens); err != nil {
			return fmt.Errorf("entregar tokens: %w", err)
		}
		w := &entity.Withdrawal{
			ID:        uuid.New().String(),
			Account:   account,
			Tokens:    tokens,
			CreatedAt: now,
		}
		if err := s.Withdrawals.Create(ctx, w); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RejectReason etiqueta estable de un rechazo (métricas y logs).
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrZeroAmount):
		return "zero_amount"
	case errors.Is(err, domain.ErrSaleNotOpen):
		return "sale_not_open"
	case errors.Is(err, domain.ErrNotWhitelisted):
		return "not_whitelisted"
	case errors.Is(err, domain.ErrBelowMinimumCap):
		return "below_min_cap"
	case errors.Is(err, domain.ErrAboveMaximumCap):
		return "above_max_cap"
	case errors.Is(err, domain.ErrLockPeriodNotReached):
		return "lock_period_not_reached"
	case errors.Is(err, domain.ErrNothingDue):
		return "nothing_due"
	case errors.Is(err, domain.ErrInsufficientAllowance):
		return "insufficient_allowance"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrArithmeticOverflow):
		return "overflow"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}

// lockReached now >= lockTime.
func (e *Engine) lockReached(now time.Time) bool {
	return !now.Before(e.params.LockTime)
}
