package http

import (
	"github.com/holiman/uint256"

	"github.com/jhoicas/presale-api/internal/application/dto"
	"github.com/jhoicas/presale-api/internal/application/presale"
	"github.com/jhoicas/presale-api/internal/domain/entity"
	domainpresale "github.com/jhoicas/presale-api/internal/domain/presale"
)

func toAmountDTO(v *uint256.Int) dto.AmountDTO {
	if v == nil {
		v = new(uint256.Int)
	}
	return dto.AmountDTO{Units: v.Dec(), Formatted: domainpresale.FormatUnits(v, domainpresale.Decimals)}
}

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:          p.ID,
		Payer:       p.Payer.Hex(),
		Beneficiary: p.Beneficiary.Hex(),
		Amount:      toAmountDTO(p.AmountWei),
		Tokens:      toAmountDTO(p.Tokens),
		CreatedAt:   p.CreatedAt,
	}
}

func toWithdrawalResponse(w *entity.Withdrawal) dto.WithdrawalResponse {
	return dto.WithdrawalResponse{
		ID:        w.ID,
		Account:   w.Account.Hex(),
		Tokens:    toAmountDTO(w.Tokens),
		CreatedAt: w.CreatedAt,
	}
}

func toStatusResponse(s *presale.Status) dto.StatusResponse {
	return dto.StatusResponse{
		Now:             s.Now,
		Phase:           string(s.Phase),
		IsOpen:          s.IsOpen,
		HasClosed:       s.HasClosed,
		LockReached:     s.LockReached,
		Rate:            s.Rate,
		Wallet:          s.Wallet.Hex(),
		Token:           s.Token.Hex(),
		Provider:        s.Provider.Hex(),
		Vault:           s.Vault.Hex(),
		OpeningTime:     s.OpeningTime,
		ClosingTime:     s.ClosingTime,
		LockTime:        s.LockTime,
		MinCap:          toAmountDTO(s.MinCap),
		MaxCap:          toAmountDTO(s.MaxCap),
		WeiRaised:       toAmountDTO(s.WeiRaised),
		RemainingTokens: toAmountDTO(s.RemainingTokens),
	}
}

func toAccountResponse(a *presale.AccountSummary) dto.AccountResponse {
	out := dto.AccountResponse{
		Account:       a.Account.Hex(),
		Whitelisted:   a.Whitelisted,
		Contribution:  toAmountDTO(a.Contribution),
		PendingTokens: toAmountDTO(a.PendingTokens),
		TokenBalance:  toAmountDTO(a.TokenBalance),
		Withdrawals:   make([]dto.WithdrawalResponse, 0, len(a.Withdrawals)),
	}
	for _, w := range a.Withdrawals {
		out.Withdrawals = append(out.Withdrawals, toWithdrawalResponse(w))
	}
	return out
}
