// Package metrics implementa el Recorder del motor de preventa sobre Prometheus.
package metrics

import (
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/presale-api/internal/application/presale"
	domainpresale "github.com/jhoicas/presale-api/internal/domain/presale"
)

var _ presale.Recorder = (*PresaleMetrics)(nil)

type PresaleMetrics struct {
	purchases       prometheus.Counter
	rejections      *prometheus.CounterVec
	withdrawals     prometheus.Counter
	etherRaised     prometheus.Counter
	tokensSold      prometheus.Counter
	tokensWithdrawn prometheus.Counter
}

// NewPresaleMetrics crea y registra los colectores en reg (prometheus.DefaultRegisterer si es nil).
func NewPresaleMetrics(reg prometheus.Registerer) *PresaleMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PresaleMetrics{
		purchases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presale_purchases_total",
			Help: "Count of accepted purchases.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presale_rejections_total",
			Help: "Count of rejected purchases and withdrawals by operation and reason.",
		}, []string{"operation", "reason"}),
		withdrawals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presale_withdrawals_total",
			Help: "Count of completed token withdrawals.",
		}),
		etherRaised: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presale_ether_raised",
			Help: "Native currency raised, in ether (approximate).",
		}),
		tokensSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presale_tokens_sold",
			Help: "Tokens credited to buyers, in whole tokens (approximate).",
		}),
		tokensWithdrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presale_tokens_withdrawn",
			Help: "Tokens delivered to buyers, in whole tokens (approximate).",
		}),
	}
	reg.MustRegister(m.purchases, m.rejections, m.withdrawals, m.etherRaised, m.tokensSold, m.tokensWithdrawn)
	return m
}

func (m *PresaleMetrics) PurchaseAccepted(amountWei, tokens *uint256.Int) {
	if m == nil {
		return
	}
	m.purchases.Inc()
	m.etherRaised.Add(units(amountWei))
	m.tokensSold.Add(units(tokens))
}

func (m *PresaleMetrics) PurchaseRejected(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues("buy", label(reason)).Inc()
}

func (m *PresaleMetrics) WithdrawalAccepted(tokens *uint256.Int) {
	if m == nil {
		return
	}
	m.withdrawals.Inc()
	m.tokensWithdrawn.Add(units(tokens))
}

func (m *PresaleMetrics) WithdrawalRejected(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues("withdraw", label(reason)).Inc()
}

func label(reason string) string {
	if reason == "" {
		return "unknown"
	}
	return reason
}

// units convierte de unidades base (18 decimales) a float para los contadores.
func units(v *uint256.Int) float64 {
	if v == nil {
		return 0
	}
	return domainpresale.FormatUnits(v, domainpresale.Decimals).InexactFloat64()
}
