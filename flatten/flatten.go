package flatten

import (
	"errors"

	"github.com/buger/jsonparser"
	"github.com/prometheus/prometheus/model/labels"

	"github.com/basho-labs/riak-exporter/types"
)

// Keys in the replication stats document that carry per-cluster
// sub-documents worth flattening into labeled metrics.
const (
	keyFullsyncCoordinator = "fullsync_coordinator"
	keyRealtimeQueueStats  = "realtime_queue_stats"
	keyConsumers           = "consumers"
)

// errStop aborts a document walk once the consumer stops pulling.
var errStop = errors.New("stop iteration")

// Metrics lazily flattens the top level of doc into a metric stream.
// Numeric and boolean values become `<prefix>_<key>` metrics in document
// key order; strings, nulls and composites are skipped. The stream is
// single-pass.
func Metrics(doc types.Document, prefix string) types.MetricStream {
	return func(yield func(types.Metric) bool) {
		_ = jsonparser.ObjectEach(doc, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
			return emitScalar(yield, prefix+"_"+string(key), labels.EmptyLabels(), value, dt)
		})
	}
}

// ReplMetrics flattens a replication stats document. On top of the plain
// top-level rules it descends into fullsync_coordinator and
// realtime_queue_stats, emitting per-cluster fields labeled with
// cluster="<id>". Traversal never goes deeper than those sub-documents.
func ReplMetrics(doc types.Document, prefix string) types.MetricStream {
	return func(yield func(types.Metric) bool) {
		_ = jsonparser.ObjectEach(doc, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
			if err := emitScalar(yield, prefix+"_"+string(key), labels.EmptyLabels(), value, dt); err != nil {
				return err
			}
			switch {
			case string(key) == keyFullsyncCoordinator && dt == jsonparser.Object:
				return emitClusterFields(yield, prefix+"_"+keyFullsyncCoordinator, value)
			case string(key) == keyRealtimeQueueStats && dt == jsonparser.Object:
				return emitQueueStats(yield, prefix+"_"+keyRealtimeQueueStats, value)
			}
			return nil
		})
	}
}

// emitQueueStats walks the realtime_queue_stats sub-document: scalar
// fields are emitted under base, and the optional consumers mapping is
// flattened per cluster.
func emitQueueStats(yield func(types.Metric) bool, base string, doc []byte) error {
	return jsonparser.ObjectEach(doc, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		if err := emitScalar(yield, base+"_"+string(key), labels.EmptyLabels(), value, dt); err != nil {
			return err
		}
		if string(key) == keyConsumers && dt == jsonparser.Object {
			return emitClusterFields(yield, base+"_"+keyConsumers, value)
		}
		return nil
	})
}

// emitClusterFields walks a mapping of cluster id to field sub-mappings,
// emitting `<base>_<field>{cluster="<id>"}` for every scalar field.
func emitClusterFields(yield func(types.Metric) bool, base string, doc []byte) error {
	return jsonparser.ObjectEach(doc, func(cluster, fields []byte, dt jsonparser.ValueType, _ int) error {
		if dt != jsonparser.Object {
			return nil
		}
		lbls := labels.FromStrings("cluster", string(cluster))
		return jsonparser.ObjectEach(fields, func(key, value []byte, fdt jsonparser.ValueType, _ int) error {
			return emitScalar(yield, base+"_"+string(key), lbls, value, fdt)
		})
	})
}

// emitScalar yields one metric when value is numeric or boolean and is a
// no-op for every other value type. Booleans map to 1 and 0.
func emitScalar(yield func(types.Metric) bool, name string, lbls labels.Labels, value []byte, dt jsonparser.ValueType) error {
	v, ok := scalarValue(value, dt)
	if !ok {
		return nil
	}
	if !yield(types.Metric{Name: name, Labels: lbls, Value: v}) {
		return errStop
	}
	return nil
}

func scalarValue(value []byte, dt jsonparser.ValueType) (float64, bool) {
	switch dt {
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(value)
		if err != nil {
			return 0, false
		}
		return f, true
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return 0, false
		}
		if b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
