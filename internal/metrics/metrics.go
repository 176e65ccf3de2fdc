package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the tap's Prometheus collectors. A nil *Metrics is valid
// and records nothing, so callers don't have to branch on observability
// being enabled.
type Metrics struct {
	RecordsEmitted *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	PageDuration   *prometheus.HistogramVec
	StreamsSkipped prometheus.Counter
}

// New creates the collectors and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tap_socrata_records_emitted_total",
				Help: "Total number of RECORD messages emitted",
			},
			[]string{"stream"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tap_socrata_http_requests_total",
				Help: "Total number of upstream API requests",
			},
			[]string{"endpoint", "code"},
		),
		PageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "tap_socrata_page_duration_seconds",
				Help: "Duration of record page fetches",
			},
			[]string{"stream"},
		),
		StreamsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tap_socrata_streams_skipped_total",
				Help: "Streams skipped because their bookmark was up to date",
			},
		),
	}

	reg.MustRegister(m.RecordsEmitted, m.HTTPRequests, m.PageDuration, m.StreamsSkipped)
	return m
}

// ObserveRequest records one upstream request outcome.
func (m *Metrics) ObserveRequest(endpoint, code string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(endpoint, code).Inc()
}

// AddRecords counts emitted records for a stream.
func (m *Metrics) AddRecords(stream string, n int) {
	if m == nil {
		return
	}
	m.RecordsEmitted.WithLabelValues(stream).Add(float64(n))
}

// ObservePage records the duration of one page fetch.
func (m *Metrics) ObservePage(stream string, seconds float64) {
	if m == nil {
		return
	}
	m.PageDuration.WithLabelValues(stream).Observe(seconds)
}

// SkipStream counts a stream skipped by its bookmark.
func (m *Metrics) SkipStream() {
	if m == nil {
		return
	}
	m.StreamsSkipped.Inc()
}
