package presale

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jhoicas/presale-api/internal/domain/repository"
)

// PaymentSink recibe el pago en moneda nativa y lo reenvía a la wallet beneficiaria.
type PaymentSink interface {
	Forward(ctx context.Context, from, to common.Address, amount *uint256.Int) error
	BalanceOf(ctx context.Context, account common.Address) (*uint256.Int, error)
}

// TokenLedger colaborador externo del token fungible (balance/allowance estilo ERC-20).
// El motor nunca custodia tokens propios: mueve los del provider dentro del allowance concedido al vault.
type TokenLedger interface {
	BalanceOf(ctx context.Context, account common.Address) (*uint256.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*uint256.Int, error)
	// TransferFrom mueve amount de from a to consumiendo allowance(from, spender).
	TransferFrom(ctx context.Context, spender, from, to common.Address, amount *uint256.Int) error
	Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) error
	// Mint y Approve solo se usan al sembrar el entorno (seed / modo memory).
	Mint(ctx context.Context, to common.Address, amount *uint256.Int) error
	Approve(ctx context.Context, owner, spender common.Address, amount *uint256.Int) error
}

// Stores repositorios y colaboradores atados a una misma transacción.
type Stores struct {
	Contributions repository.ContributionRepository
	Escrow        repository.EscrowRepository
	Whitelist     repository.WhitelistRepository
	Purchases     repository.PurchaseRepository
	Withdrawals   repository.WithdrawalRepository
	Payments      PaymentSink
	Tokens        TokenLedger
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
// Garantiza que compra y retiro sean todo-o-nada, incluidos los movimientos de pago y tokens.
type TxRunner interface {
	Run(ctx context.Context, fn func(s Stores) error) error
}

// Recorder métricas del motor. La implementación Prometheus vive en infrastructure/metrics.
type Recorder interface {
	PurchaseAccepted(amountWei, tokens *uint256.Int)
	PurchaseRejected(reason string)
	WithdrawalAccepted(tokens *uint256.Int)
	WithdrawalRejected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) PurchaseAccepted(_, _ *uint256.Int) {}
func (nopRecorder) PurchaseRejected(string)            {}
func (nopRecorder) WithdrawalAccepted(*uint256.Int)    {}
func (nopRecorder) WithdrawalRejected(string)          {}
