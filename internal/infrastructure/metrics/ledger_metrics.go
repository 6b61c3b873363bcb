// Package metrics expone contadores Prometheus del libro de movimientos.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.Recorder = (*LedgerMetrics)(nil)

// LedgerMetrics implementa inventory.Recorder sobre un registro Prometheus propio.
type LedgerMetrics struct {
	registry *prometheus.Registry
	created  *prometheus.CounterVec
	lines    *prometheus.CounterVec
	decided  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewLedgerMetrics registra los contadores bajo el namespace dado, más los collectors de Go y proceso.
func NewLedgerMetrics(namespace string) *LedgerMetrics {
	reg := prometheus.NewRegistry()
	m := &LedgerMetrics{
		registry: reg,
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_created_total",
			Help:      "Transacciones registradas por tipo y estado inicial.",
		}, []string{"type", "status"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_lines_total",
			Help:      "Líneas registradas por tipo de transacción.",
		}, []string{"type"}),
		decided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_decided_total",
			Help:      "Solicitudes resueltas por decisión.",
		}, []string{"decision"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insufficient_stock_total",
			Help:      "Operaciones rechazadas por stock insuficiente.",
		}, []string{"operation"}),
	}
	reg.MustRegister(
		m.created, m.lines, m.decided, m.rejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *LedgerMetrics) TransactionCreated(txType, status string, lines int) {
	m.created.WithLabelValues(txType, status).Inc()
	m.lines.WithLabelValues(txType).Add(float64(lines))
}

func (m *LedgerMetrics) TransactionDecided(decision string) {
	m.decided.WithLabelValues(decision).Inc()
}

func (m *LedgerMetrics) StockRejected(operation string) {
	m.rejected.WithLabelValues(operation).Inc()
}

// Handler expone el registro en formato de texto Prometheus.
func (m *LedgerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registro subyacente.
func (m *LedgerMetrics) Registry() *prometheus.Registry {
	return m.registry
}
