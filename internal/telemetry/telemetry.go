package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the prometheus collectors for the brief pipeline.
// All methods are safe on a nil receiver so callers that run without
// telemetry can pass nil instead of a no-op implementation.
type Metrics struct {
	cycles             *prometheus.CounterVec
	cycleDuration      prometheus.Histogram
	articlesFetched    prometheus.Counter
	articlesSummarized prometheus.Counter
	summaryFailures    prometheus.Counter
	fetchFailures      prometheus.Counter
	deliveries         *prometheus.CounterVec
}

// New registers the pipeline collectors with reg and returns the handle.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newsbrief_cycles_total",
			Help: "Completed brief cycles by status.",
		}, []string{"status"}),
		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsbrief_cycle_duration_seconds",
			Help:    "Wall-clock duration of one brief cycle.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		articlesFetched: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsbrief_articles_fetched_total",
			Help: "Articles returned by the search API before deduplication.",
		}),
		articlesSummarized: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsbrief_articles_summarized_total",
			Help: "Articles that received a summary.",
		}),
		summaryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsbrief_summary_failures_total",
			Help: "Articles dropped because summarization failed.",
		}),
		fetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsbrief_fetch_failures_total",
			Help: "Topics whose article search failed.",
		}),
		deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newsbrief_deliveries_total",
			Help: "Delivery attempts by sink and status.",
		}, []string{"sink", "status"}),
	}
}

// CycleFinished records one completed cycle and its duration.
func (m *Metrics) CycleFinished(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(status).Inc()
	m.cycleDuration.Observe(elapsed.Seconds())
}

// ArticlesFetched adds n to the fetched-article counter.
func (m *Metrics) ArticlesFetched(n int) {
	if m == nil {
		return
	}
	m.articlesFetched.Add(float64(n))
}

// ArticleSummarized records one successful summary.
func (m *Metrics) ArticleSummarized() {
	if m == nil {
		return
	}
	m.articlesSummarized.Inc()
}

// SummaryFailure records one dropped article.
func (m *Metrics) SummaryFailure() {
	if m == nil {
		return
	}
	m.summaryFailures.Inc()
}

// FetchFailure records one topic whose search failed.
func (m *Metrics) FetchFailure() {
	if m == nil {
		return
	}
	m.fetchFailures.Inc()
}

// Delivery records one sink attempt ("file" or "email") and its outcome.
func (m *Metrics) Delivery(sink string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.deliveries.WithLabelValues(sink, status).Inc()
}
