package types

import (
	"reflect"
	"time"
)

// Config holds the process-wide settings for the exporter.
// It is constructed once at startup and never mutated afterwards;
// every component reads from the same immutable value.
type Config struct {
	// StatsURL is the URL of the Riak stats endpoint.
	StatsURL string
	// ReplStatsURL is the URL of the Riak replication stats endpoint.
	ReplStatsURL string
	// ListenAddress is the address the exporter binds to.
	ListenAddress string
	// ListenPort is the port the exporter binds to.
	ListenPort int
	// MetricsPath is the HTTP path the exposition document is served on.
	MetricsPath string
	// FetchTimeout specifies the duration a single upstream fetch will wait
	// for a response before timing out.
	FetchTimeout time.Duration
	// PropagateFetchErrors controls whether an upstream fetch failure fails
	// the whole scrape with a 500. When false the failed source contributes
	// zero metrics and the scrape still succeeds.
	PropagateFetchErrors bool
}

const (
	DefaultStatsURL      = "http://localhost:8098/stats"
	DefaultReplStatsURL  = "http://localhost:8098/riak-repl/stats"
	DefaultListenAddress = "0.0.0.0"
	DefaultListenPort    = 8097
	DefaultMetricsPath   = "/metrics"
	DefaultFetchTimeout  = 5 * time.Second
)

// DefaultConfig returns the configuration the reference deployment runs with.
func DefaultConfig() Config {
	return Config{
		StatsURL:             DefaultStatsURL,
		ReplStatsURL:         DefaultReplStatsURL,
		ListenAddress:        DefaultListenAddress,
		ListenPort:           DefaultListenPort,
		MetricsPath:          DefaultMetricsPath,
		FetchTimeout:         DefaultFetchTimeout,
		PropagateFetchErrors: true,
	}
}

func (c Config) Equals(other Config) bool {
	return reflect.DeepEqual(c, other)
}
