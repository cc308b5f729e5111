// Package metrics provides Prometheus metrics for the quoting pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder groups the pipeline metrics. Each Recorder registers on its own
// registerer so tests can use a fresh registry.
type Recorder struct {
	Documents      *prometheus.CounterVec
	Parts          prometheus.Counter
	SurchargeParts prometheus.Counter
	UnpricedCodes  *prometheus.CounterVec
	QuoteTotal     prometheus.Histogram
	Duration       *prometheus.HistogramVec
	PriceUpdates   prometheus.Counter
}

// NewRecorder registers the metrics on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		Documents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "houtcalc_documents_total",
				Help: "Documents processed, by outcome",
			},
			[]string{"status"},
		),
		Parts: f.NewCounter(prometheus.CounterOpts{
			Name: "houtcalc_parts_total",
			Help: "Parts priced",
		}),
		SurchargeParts: f.NewCounter(prometheus.CounterOpts{
			Name: "houtcalc_surcharge_parts_total",
			Help: "Parts that required planing",
		}),
		UnpricedCodes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "houtcalc_unpriced_codes_total",
				Help: "Quotes that contained an operation code missing from the price table",
			},
			[]string{"code"},
		),
		QuoteTotal: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "houtcalc_quote_total",
			Help:    "Quote totals in currency units",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000},
		}),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "houtcalc_stage_duration_seconds",
				Help:    "Time spent per pipeline stage",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		PriceUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "houtcalc_price_updates_total",
			Help: "Saved price table revisions",
		}),
	}
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.Duration.WithLabelValues(stage).Observe(d.Seconds())
}

// Timer is a helper for measuring duration.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
