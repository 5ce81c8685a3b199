package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "poupa_"

	resultSuccess = "success"
	resultInvalid = "invalid"
	resultError   = "error"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	estimateTotal  *prometheus.CounterVec
	proposalTotal  *prometheus.CounterVec
	batchScenarios *prometheus.CounterVec
	exportTotal    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		estimateTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "estimates_total",
				Help: "Total estimates by strategy and result",
			},
			[]string{"strategy", "result"},
		),
		proposalTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "proposal_requests_total",
				Help: "Total proposal requests by service and result",
			},
			[]string{"service", "result"},
		),
		batchScenarios: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "batch_scenarios_total",
				Help: "Total batch scenarios by result",
			},
			[]string{"result"},
		),
		exportTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total estimate exports by format and result",
			},
			[]string{"format", "result"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequests, m.httpLatency, m.estimateTotal,
		m.proposalTotal, m.batchScenarios, m.exportTotal,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeHTTP(route, code string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, code).Inc()
	m.httpLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeEstimate(strategy, result string) {
	m.estimateTotal.WithLabelValues(strategy, result).Inc()
}

func (m *Metrics) observeProposal(service, result string) {
	m.proposalTotal.WithLabelValues(service, result).Inc()
}

func (m *Metrics) observeBatch(succeeded, invalid, failed int) {
	m.batchScenarios.WithLabelValues(resultSuccess).Add(float64(succeeded))
	m.batchScenarios.WithLabelValues(resultInvalid).Add(float64(invalid))
	m.batchScenarios.WithLabelValues(resultError).Add(float64(failed))
}

func (m *Metrics) observeExport(format, result string) {
	m.exportTotal.WithLabelValues(format, result).Inc()
}
