package entity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Purchase registro de auditoría de una compra aceptada (equivale al evento TokensPurchased).
// Payer paga; Beneficiary es quien acumula contribución y crédito pendiente.
type Purchase struct {
	ID          string
	Payer       common.Address
	Beneficiary common.Address
	AmountWei   *uint256.Int
	Tokens      *uint256.Int
	CreatedAt   time.Time
}
