// Package metrics exposes Prometheus collectors for rwdb connection and
// statement activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsOpenedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rwdb_connections_opened_total",
		Help: "Database sessions established, by routing mode.",
	}, []string{"mode"})

	ConnectionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rwdb_connection_errors_total",
		Help: "Failed connect or charset negotiation attempts, by routing mode.",
	}, []string{"mode"})

	StatementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rwdb_statements_total",
		Help: "Statements executed, by connection mode and outcome.",
	}, []string{"mode", "status"})

	StatementDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rwdb_statement_duration_seconds",
		Help:    "Time spent executing a statement on the server.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"mode"})

	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rwdb_transactions_total",
		Help: "Transaction control calls on the write connection, by action.",
	}, []string{"action"})
)

// Recorder receives facade events.
type Recorder interface {
	ConnectionOpened(mode string)
	ConnectionFailed(mode string)
	Statement(mode string, d time.Duration, err error)
	Transaction(action string)
}

// Prometheus records into the package collectors.
type Prometheus struct{}

var _ Recorder = Prometheus{}

func (Prometheus) ConnectionOpened(mode string) {
	ConnectionsOpenedTotal.WithLabelValues(mode).Inc()
}

func (Prometheus) ConnectionFailed(mode string) {
	ConnectionErrorsTotal.WithLabelValues(mode).Inc()
}

func (Prometheus) Statement(mode string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StatementsTotal.WithLabelValues(mode, status).Inc()
	StatementDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (Prometheus) Transaction(action string) {
	TransactionsTotal.WithLabelValues(action).Inc()
}

// Nop discards every event.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) ConnectionOpened(string) {}
func (Nop) ConnectionFailed(string) {}
func (Nop) Statement(string, time.Duration, error) {}
func (Nop) Transaction(string) {}
