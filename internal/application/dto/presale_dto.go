package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountDTO monto en unidades mínimas (string decimal exacto) y su lectura con 18 decimales.
type AmountDTO struct {
	Units     string          `json:"units"`
	Formatted decimal.Decimal `json:"formatted"`
}

// BuyRequest body para POST /api/presale/purchases.
// Se acepta amount_wei (entero exacto) o amount_eth (decimal); amount_wei tiene prioridad.
type BuyRequest struct {
	Payer       string `json:"payer,omitempty"` // vacío = beneficiary
	Beneficiary string `json:"beneficiary"`
	AmountWei   string `json:"amount_wei,omitempty"`
	AmountETH   string `json:"amount_eth,omitempty"`
}

// PurchaseResponse compra registrada.
type PurchaseResponse struct {
	ID          string    `json:"id"`
	Payer       string    `json:"payer"`
	Beneficiary string    `json:"beneficiary"`
	Amount      AmountDTO `json:"amount"`
	Tokens      AmountDTO `json:"tokens"`
	CreatedAt   time.Time `json:"created_at"`
}

// WithdrawRequest body para POST /api/presale/withdrawals.
type WithdrawRequest struct {
	Account string `json:"account"`
}

// WithdrawalResponse retiro registrado.
type WithdrawalResponse struct {
	ID        string    `json:"id"`
	Account   string    `json:"account"`
	Tokens    AmountDTO `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusResponse estado público de la preventa.
type StatusResponse struct {
	Now             time.Time `json:"now"`
	Phase           string    `json:"phase"`
	IsOpen          bool      `json:"is_open"`
	HasClosed       bool      `json:"has_closed"`
	LockReached     bool      `json:"lock_reached"`
	Rate            uint64    `json:"rate"`
	Wallet          string    `json:"wallet"`
	Token           string    `json:"token"`
	Provider        string    `json:"provider"`
	Vault           string    `json:"vault"`
	OpeningTime     time.Time `json:"opening_time"`
	ClosingTime     time.Time `json:"closing_time"`
	LockTime        time.Time `json:"lock_time"`
	MinCap          AmountDTO `json:"min_cap"`
	MaxCap          AmountDTO `json:"max_cap"`
	WeiRaised       AmountDTO `json:"wei_raised"`
	RemainingTokens AmountDTO `json:"remaining_tokens"`
}

// AccountResponse estado de una cuenta en la preventa.
type AccountResponse struct {
	Account       string               `json:"account"`
	Whitelisted   bool                 `json:"whitelisted"`
	Contribution  AmountDTO            `json:"contribution"`
	PendingTokens AmountDTO            `json:"pending_tokens"`
	TokenBalance  AmountDTO            `json:"token_balance"`
	Withdrawals   []WithdrawalResponse `json:"withdrawals"`
}

// WhitelistBatchRequest body para POST /api/whitelist.
type WhitelistBatchRequest struct {
	Accounts []string `json:"accounts"`
}
