package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/provider"
)

// Metrics holds the Prometheus counters of a run. It implements provider.FetchObserver.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal *prometheus.CounterVec // labels: provider, outcome
	RetriesTotal  *prometheus.CounterVec // labels: kind
	PagesTotal    prometheus.Counter
	FetchedTotal  prometheus.Counter
	TickersTotal  *prometheus.CounterVec // labels: outcome
}

// NewMetrics creates the counters on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "argo_bars_requests_total",
			Help: "HTTP attempts against the bars provider",
		}, []string{"provider", "outcome"}),
		RetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "argo_bars_retries_total",
			Help: "Retries scheduled after a failed attempt",
		}, []string{"kind"}),
		PagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "argo_bars_pages_total",
			Help: "Pages received from the provider",
		}),
		FetchedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "argo_bars_fetched_total",
			Help: "Bars received from the provider, warm-up included",
		}),
		TickersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "argo_bars_tickers_total",
			Help: "Processed tickers by outcome",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RetriesTotal,
		m.PagesTotal,
		m.FetchedTotal,
		m.TickersTotal,
	)

	return m
}

// Registry returns the registry the counters live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) OnRequest(event provider.RequestEvent) {
	m.RequestsTotal.WithLabelValues(string(event.Provider), event.Outcome.String()).Inc()
}

func (m *Metrics) OnPage(event provider.PageEvent) {
	m.PagesTotal.Inc()
	m.FetchedTotal.Add(float64(event.PageBars))
}

func (m *Metrics) OnRetry(event provider.RetryEvent) {
	m.RetriesTotal.WithLabelValues(event.Kind.String()).Inc()
}

// ObserveTicker counts a finished ticker, e.g. "success", "no_data" or "failed".
func (m *Metrics) ObserveTicker(outcome string) {
	m.TickersTotal.WithLabelValues(outcome).Inc()
}

// WriteToTextfile writes the registry in the text exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write metrics to %s", path)
	}

	return nil
}
