package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/matzehuels/labindex/pkg/observability"
)

const defaultNamespace = "labindex"

// Manager holds the metrics of one catalog build. It implements both
// [observability.PipelineHooks] and [observability.HTTPHooks].
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry
	httpClient       *http.Client

	// Listing
	reposListed   prometheus.Gauge
	reposSelected prometheus.Gauge
	listDuration  prometheus.Gauge

	// Probing
	probes         *prometheus.CounterVec
	probeDuration  prometheus.Histogram
	fallbackChecks *prometheus.CounterVec

	// Build outcome
	items             prometheus.Gauge
	buildDuration     prometheus.Gauge
	buildSuccess      prometheus.Gauge
	lastSuccessUnix   prometheus.Gauge
	buildErrorsByStep *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

var (
	_ observability.PipelineHooks = (*Manager)(nil)
	_ observability.HTTPHooks     = (*Manager)(nil)
)

// NewManager creates a metrics manager on a private registry unless
// [WithPrometheusRegistry] supplies one.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
		httpClient:       http.DefaultClient,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.reposListed = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "repositories_listed",
		Help:      "Public repositories returned by the organization listing",
	})
	m.reposSelected = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "repositories_selected",
		Help:      "Repositories left after the allow and block lists",
	})
	m.listDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "list_duration_seconds",
		Help:      "Time spent paging through the repository listing",
	})

	m.probes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "probes_total",
		Help:      "Site probes by outcome",
	}, []string{"status"})
	m.probeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "probe_duration_seconds",
		Help:      "Duration of one repository site probe",
		Buckets:   m.histogramBuckets,
	})
	m.fallbackChecks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "fallback_checks_total",
		Help:      "Contents API checks for the YAML metadata file",
	}, []string{"found"})

	m.items = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "catalog_items",
		Help:      "Items in the written catalog",
	})
	m.buildDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "build_duration_seconds",
		Help:      "Duration of the last catalog build",
	})
	m.buildSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "build_success",
		Help:      "1 if the last catalog build succeeded, 0 otherwise",
	})
	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful catalog build",
	})
	m.buildErrorsByStep = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "build_errors_total",
		Help:      "Failed builds by the step that failed",
	}, []string{"step"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Outgoing HTTP requests by host and status code",
	}, []string{"method", "host", "code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Outgoing HTTP request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "host"})
	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "errors_total",
		Help:      "Outgoing HTTP requests that failed without a response",
	}, []string{"method", "host"})
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// =============================================================================
// Pipeline hooks
// =============================================================================

// OnListComplete records repository counts.
func (m *Manager) OnListComplete(_ context.Context, _ string, listed, selected int, duration time.Duration, err error) {
	m.listDuration.Set(duration.Seconds())
	if err != nil {
		m.buildErrorsByStep.WithLabelValues("list").Inc()
		return
	}
	m.reposListed.Set(float64(listed))
	m.reposSelected.Set(float64(selected))
}

// OnProbe records one site probe.
func (m *Manager) OnProbe(_ context.Context, _ string, status string, duration time.Duration) {
	m.probes.WithLabelValues(status).Inc()
	m.probeDuration.Observe(duration.Seconds())
}

// OnFallbackCheck records one contents API check.
func (m *Manager) OnFallbackCheck(_ context.Context, _ string, found bool) {
	m.fallbackChecks.WithLabelValues(strconv.FormatBool(found)).Inc()
}

// OnBuildComplete records the build outcome.
func (m *Manager) OnBuildComplete(_ context.Context, _ string, items int, duration time.Duration, err error) {
	m.buildDuration.Set(duration.Seconds())
	if err != nil {
		m.buildSuccess.Set(0)
		return
	}
	m.items.Set(float64(items))
	m.buildSuccess.Set(1)
	m.lastSuccessUnix.SetToCurrentTime()
}

// =============================================================================
// HTTP hooks
// =============================================================================

// OnRequest is a no-op; requests are counted once their outcome is known.
func (m *Manager) OnRequest(context.Context, string, string, string) {}

// OnResponse records a completed request.
func (m *Manager) OnResponse(_ context.Context, method, host, _ string, statusCode int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, host, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, host).Observe(duration.Seconds())
}

// OnError records a request that produced no response.
func (m *Manager) OnError(_ context.Context, method, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(method, host).Inc()
}

// =============================================================================
// Pushgateway
// =============================================================================

// Push replaces the metrics of job on the Pushgateway at url, grouped by
// organization.
func (m *Manager) Push(ctx context.Context, url, job, org string) error {
	pusher := push.New(url, job).
		Gatherer(m.registry).
		Client(m.httpClient)
	if org != "" {
		pusher = pusher.Grouping("org", org)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}
	return nil
}
