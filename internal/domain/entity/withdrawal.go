package entity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Withdrawal registro de un retiro de tokens tras el lock.
type Withdrawal struct {
	ID        string
	Account   common.Address
	Tokens    *uint256.Int
	CreatedAt time.Time
}
