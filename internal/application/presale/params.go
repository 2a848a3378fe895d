package presale

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/jhoicas/presale-api/internal/domain/entity"
	domainpresale "github.com/jhoicas/presale-api/internal/domain/presale"
	"github.com/jhoicas/presale-api/pkg/config"
)

// ParamsFromConfig traduce la configuración de despliegue a parámetros del motor.
func ParamsFromConfig(cfg config.PreSaleConfig) (domainpresale.Params, error) {
	var p domainpresale.Params

	rate, err := domainpresale.NewRate(cfg.Rate)
	if err != nil {
		return p, fmt.Errorf("PRESALE_RATE: %w", err)
	}
	wallet, err := entity.ParseAccount(cfg.Beneficiary)
	if err != nil {
		return p, fmt.Errorf("PRESALE_BENEFICIARY: %w", err)
	}
	provider, err := entity.ParseAccount(cfg.Provider)
	if err != nil {
		return p, fmt.Errorf("PRESALE_PROVIDER: %w", err)
	}
	vault, err := entity.ParseAccount(cfg.Vault)
	if err != nil {
		return p, fmt.Errorf("PRESALE_VAULT: %w", err)
	}
	var token common.Address
	if cfg.Token != "" {
		if token, err = entity.ParseAccount(cfg.Token); err != nil {
			return p, fmt.Errorf("PRESALE_TOKEN: %w", err)
		}
	}
	window, err := domainpresale.NewSaleWindow(time.Unix(cfg.OpeningTime, 0), time.Unix(cfg.ClosingTime, 0))
	if err != nil {
		return p, err
	}
	minCap, err := domainpresale.ParseEther(cfg.MinCapETH)
	if err != nil {
		return p, fmt.Errorf("PRESALE_MIN_CAP_ETH: %w", err)
	}
	maxCap, err := domainpresale.ParseEther(cfg.MaxCapETH)
	if err != nil {
		return p, fmt.Errorf("PRESALE_MAX_CAP_ETH: %w", err)
	}

	p = domainpresale.Params{
		Rate:     rate,
		Wallet:   wallet,
		Token:    token,
		Provider: provider,
		Vault:    vault,
		Window:   window,
		LockTime: time.Unix(cfg.LockTime(), 0),
		Caps:     domainpresale.Caps{Min: minCap, Max: maxCap},
	}
	return p, p.Validate()
}

// SeedProvider acuña supply (tokens enteros) al provider y aprueba al vault por ese monto,
// así el vault puede mover todo el supply vía TransferFrom.
func SeedProvider(ctx context.Context, tx TxRunner, params domainpresale.Params, supply string) (*uint256.Int, error) {
	amount, err := domainpresale.ParseUnits(supply, domainpresale.Decimals)
	if err != nil {
		return nil, err
	}
	err = tx.Run(ctx, func(s Stores) error {
		if err := s.Tokens.Mint(ctx, params.Provider, amount); err != nil {
			return err
		}
		return s.Tokens.Approve(ctx, params.Provider, params.Vault, amount)
	})
	if err != nil {
		return nil, fmt.Errorf("sembrar provider: %w", err)
	}
	return amount, nil
}
