package types

import (
	"iter"

	"github.com/prometheus/prometheus/model/labels"
)

// Document is the raw JSON body of one upstream stats response. It is an
// immutable snapshot scoped to a single scrape and must not be mutated.
type Document []byte

// Metric is one flattened observation: an exposition-format name, an
// optional label set and a float64 value. Label order is deterministic
// because labels.Labels sorts on construction.
type Metric struct {
	Name   string
	Labels labels.Labels
	Value  float64
}

// MetricStream is a lazy, finite sequence of metrics produced by one
// flatten call. It is single-pass: consume it exactly once.
type MetricStream = iter.Seq[Metric]
