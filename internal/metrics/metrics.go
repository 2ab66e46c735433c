package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "issuance"

// Metrics holds the Prometheus collectors of a service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	operations   *prometheus.CounterVec
	tokensIssued *prometheus.CounterVec
	withdrawn    prometheus.Counter

	relayPublished prometheus.Counter
	relayFailures  *prometheus.CounterVec
	relayBacklog   prometheus.Gauge
}

// New registers the collectors on reg. reg must also be a Gatherer to expose them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}

	m.requestCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)
	m.requestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "route"},
	)

	m.operations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Engine operations by name and result",
		},
		[]string{"operation", "result"},
	)
	m.tokensIssued = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "tokens_issued_total",
			Help:      "Tokens issued by mint path",
		},
		[]string{"path"},
	)
	m.withdrawn = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "treasury",
		Name:      "withdrawals_total",
		Help:      "Successful treasury withdrawals",
	})

	m.relayPublished = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "events_published_total",
		Help:      "Outbox events delivered",
	})
	m.relayFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "event_failures_total",
			Help:      "Outbox event delivery failures by event type",
		},
		[]string{"event_type"},
	)
	m.relayBacklog = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "backlog",
		Help:      "Undelivered events fetched in the last cycle",
	})

	return m
}

// ObserveRequest records one API request
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestCounter.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveOperation records the result of an engine operation
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

// TokenIssued records an issued token
func (m *Metrics) TokenIssued(path string) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(path).Inc()
}

// Withdrawn records a treasury withdrawal
func (m *Metrics) Withdrawn() {
	if m == nil {
		return
	}
	m.withdrawn.Inc()
}

// EventsPublished records delivered outbox events
func (m *Metrics) EventsPublished(n int) {
	if m == nil {
		return
	}
	m.relayPublished.Add(float64(n))
}

// EventFailed records a failed outbox delivery
func (m *Metrics) EventFailed(eventType string) {
	if m == nil {
		return
	}
	m.relayFailures.WithLabelValues(eventType).Inc()
}

// SetBacklog records the number of pending outbox events
func (m *Metrics) SetBacklog(n int) {
	if m == nil {
		return
	}
	m.relayBacklog.Set(float64(n))
}

// Handler exposes the registered collectors
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
