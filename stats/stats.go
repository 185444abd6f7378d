package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stats is the exporter's own telemetry: counts of scrapes served and
// upstream fetches attempted. It says nothing about the translated Riak
// metrics themselves, which pass through untouched.
type Stats struct {
	register prometheus.Registerer

	ScrapesTotal        prometheus.Counter
	ScrapeFailuresTotal prometheus.Counter
	ScrapeDuration      prometheus.Histogram

	FetchesTotal       *prometheus.CounterVec
	FetchFailuresTotal *prometheus.CounterVec
	FetchDuration      prometheus.Histogram
}

func NewStats(namespace, subsystem string, registry prometheus.Registerer) *Stats {
	s := &Stats{
		register: registry,
		ScrapesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "scrapes_total",
			Help:      "Total number of scrape requests served",
		}),
		ScrapeFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "scrape_failures_total",
			Help:      "Total number of scrape requests that returned an error",
		}),
		ScrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:                   namespace,
			Subsystem:                   subsystem,
			Name:                        "scrape_duration_seconds",
			NativeHistogramBucketFactor: 1.1,
		}),
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fetches_total",
			Help:      "Total number of upstream fetches attempted",
		}, []string{"endpoint"}),
		FetchFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fetch_failures_total",
			Help:      "Total number of upstream fetches that failed",
		}, []string{"endpoint"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:                   namespace,
			Subsystem:                   subsystem,
			Name:                        "fetch_duration_seconds",
			NativeHistogramBucketFactor: 1.1,
		}),
	}
	registry.MustRegister(
		s.ScrapesTotal,
		s.ScrapeFailuresTotal,
		s.ScrapeDuration,
		s.FetchesTotal,
		s.FetchFailuresTotal,
		s.FetchDuration,
	)
	return s
}
