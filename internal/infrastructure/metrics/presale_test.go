package metrics

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainpresale "github.com/jhoicas/presale-api/internal/domain/presale"
)

func TestPresaleMetrics_Purchases(t *testing.T) {
	m := NewPresaleMetrics(prometheus.NewRegistry())

	wei, err := domainpresale.ParseEther("5")
	require.NoError(t, err)
	tokens, err := domainpresale.ParseUnits("500", domainpresale.Decimals)
	require.NoError(t, err)

	m.PurchaseAccepted(wei, tokens)
	m.PurchaseAccepted(wei, tokens)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.purchases))
	assert.InDelta(t, 10.0, testutil.ToFloat64(m.etherRaised), 1e-9)
	assert.InDelta(t, 1000.0, testutil.ToFloat64(m.tokensSold), 1e-9)
}

func TestPresaleMetrics_Rejections(t *testing.T) {
	m := NewPresaleMetrics(prometheus.NewRegistry())

	m.PurchaseRejected("below_min_cap")
	m.PurchaseRejected("below_min_cap")
	m.WithdrawalRejected("")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.rejections.WithLabelValues("buy", "below_min_cap")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rejections.WithLabelValues("withdraw", "unknown")))
}

func TestPresaleMetrics_Withdrawals(t *testing.T) {
	m := NewPresaleMetrics(prometheus.NewRegistry())
	m.WithdrawalAccepted(uint256.NewInt(0))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.withdrawals))
}

func TestPresaleMetrics_NilSafe(t *testing.T) {
	var m *PresaleMetrics
	assert.NotPanics(t, func() {
		m.PurchaseAccepted(uint256.NewInt(1), uint256.NewInt(1))
		m.PurchaseRejected("x")
		m.WithdrawalAccepted(nil)
		m.WithdrawalRejected("x")
	})
}
