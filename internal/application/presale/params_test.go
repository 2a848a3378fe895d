package presale_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/presale-api/internal/application/presale"
	"github.com/jhoicas/presale-api/internal/infrastructure/memory"
	"github.com/jhoicas/presale-api/pkg/config"
)

func sepoliaConfig() config.PreSaleConfig {
	return config.PreSaleConfig{
		Network:     "sepolia",
		Rate:        350000,
		Beneficiary: wallet.Hex(),
		Provider:    provider.Hex(),
		Vault:       vault.Hex(),
		OpeningTime: 1679612400,
		ClosingTime: 1679954400,
		LockSeconds: config.DefaultLockSeconds,
		MinCapETH:   "5",
		MaxCapETH:   "250",
	}
}

func TestParamsFromConfig(t *testing.T) {
	p, err := presale.ParamsFromConfig(sepoliaConfig())
	require.NoError(t, err)

	assert.Equal(t, uint64(350000), p.Rate.Uint64())
	assert.Equal(t, wallet, p.Wallet)
	assert.Equal(t, int64(1679954400+15778800), p.LockTime.Unix())
	assert.True(t, p.Caps.Min.Eq(eth(t, "5")))
	assert.True(t, p.Caps.Max.Eq(eth(t, "250")))
	assert.Equal(t, common.Address{}, p.Token, "token opcional")
}

func TestParamsFromConfig_Errores(t *testing.T) {
	cases := map[string]struct {
		mutate func(c *config.PreSaleConfig)
		want   string
	}{
		"rate cero":           {func(c *config.PreSaleConfig) { c.Rate = 0 }, "PRESALE_RATE"},
		"sin beneficiario":    {func(c *config.PreSaleConfig) { c.Beneficiary = "" }, "PRESALE_BENEFICIARY"},
		"provider inválido":   {func(c *config.PreSaleConfig) { c.Provider = "0x123" }, "PRESALE_PROVIDER"},
		"vault cero":          {func(c *config.PreSaleConfig) { c.Vault = "0x0000000000000000000000000000000000000000" }, "PRESALE_VAULT"},
		"token inválido":      {func(c *config.PreSaleConfig) { c.Token = "nope" }, "PRESALE_TOKEN"},
		"cap mínimo inválido": {func(c *config.PreSaleConfig) { c.MinCapETH = "-1" }, "PRESALE_MIN_CAP_ETH"},
		"cap máximo inválido": {func(c *config.PreSaleConfig) { c.MaxCapETH = "x" }, "PRESALE_MAX_CAP_ETH"},
		"ventana invertida":   {func(c *config.PreSaleConfig) { c.OpeningTime = c.ClosingTime }, "ventana"},
		"min sobre max":       {func(c *config.PreSaleConfig) { c.MinCapETH = "300" }, "caps"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := sepoliaConfig()
			tc.mutate(&cfg)
			_, err := presale.ParamsFromConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSeedProvider(t *testing.T) {
	ctx := context.Background()
	p, err := presale.ParamsFromConfig(sepoliaConfig())
	require.NoError(t, err)
	store := memory.NewStore()

	supply, err := presale.SeedProvider(ctx, store, p, "1000")
	require.NoError(t, err)
	assert.True(t, supply.Eq(tokens(t, "1000")))

	require.NoError(t, store.Run(ctx, func(s presale.Stores) error {
		bal, _ := s.Tokens.BalanceOf(ctx, provider)
		allowance, _ := s.Tokens.Allowance(ctx, provider, vault)
		assert.True(t, bal.Eq(supply))
		assert.True(t, allowance.Eq(supply))
		return nil
	}))

	_, err = presale.SeedProvider(ctx, store, p, "abc")
	assert.Error(t, err)
}
