package flatten

import (
	"slices"
	"testing"

	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/stretchr/testify/require"

	"github.com/basho-labs/riak-exporter/types"
)

func TestTopLevelScalars(t *testing.T) {
	doc := types.Document(`{"vnode_gets": 42, "vnode_puts": 17, "cpu_avg1": 0.5}`)
	got := slices.Collect(Metrics(doc, "riak"))

	require.Equal(t, []types.Metric{
		{Name: "riak_vnode_gets", Labels: labels.EmptyLabels(), Value: 42},
		{Name: "riak_vnode_puts", Labels: labels.EmptyLabels(), Value: 17},
		{Name: "riak_cpu_avg1", Labels: labels.EmptyLabels(), Value: 0.5},
	}, got)
	for _, m := range got {
		require.True(t, model.IsValidMetricName(model.LabelValue(m.Name)))
	}
}

func TestNonScalarsSkipped(t *testing.T) {
	doc := types.Document(`{
		"vnode_gets": 42,
		"ring_members": ["a", "b"],
		"nodename": "riak@127.0.0.1",
		"disk": {"used": 10},
		"storage_backend": null
	}`)
	got := slices.Collect(Metrics(doc, "riak"))

	require.Equal(t, []types.Metric{
		{Name: "riak_vnode_gets", Labels: labels.EmptyLabels(), Value: 42},
	}, got)
}

func TestBooleans(t *testing.T) {
	doc := types.Document(`{"riak_kv_up": true, "riak_search_up": false}`)
	got := slices.Collect(Metrics(doc, "riak"))

	require.Equal(t, []types.Metric{
		{Name: "riak_riak_kv_up", Labels: labels.EmptyLabels(), Value: 1},
		{Name: "riak_riak_search_up", Labels: labels.EmptyLabels(), Value: 0},
	}, got)
}

func TestEmptyDocument(t *testing.T) {
	got := slices.Collect(Metrics(types.Document(`{}`), "riak"))
	require.Empty(t, got)
}

func TestDeterministic(t *testing.T) {
	doc := types.Document(`{"a": 1, "z": 2, "b": 3, "m": true}`)
	first := slices.Collect(Metrics(doc, "riak"))
	second := slices.Collect(Metrics(doc, "riak"))

	require.Len(t, first, 4)
	require.Equal(t, first, second)
}

func TestStreamStopsWhenConsumerStops(t *testing.T) {
	doc := types.Document(`{"a": 1, "b": 2, "c": 3}`)
	var got []types.Metric
	for m := range Metrics(doc, "riak") {
		got = append(got, m)
		break
	}
	require.Len(t, got, 1)
	require.Equal(t, "riak_a", got[0].Name)
}

func TestReplFullsyncCoordinator(t *testing.T) {
	doc := types.Document(`{"fullsync_coordinator": {"clusterA": {"queue_length": 3}}}`)
	got := slices.Collect(ReplMetrics(doc, "riak_repl"))

	require.Equal(t, []types.Metric{
		{
			Name:   "riak_repl_fullsync_coordinator_queue_length",
			Labels: labels.FromStrings("cluster", "clusterA"),
			Value:  3,
		},
	}, got)
}

func TestReplRealtimeQueueStats(t *testing.T) {
	doc := types.Document(`{
		"server_fullsyncs": 1,
		"realtime_queue_stats": {
			"bytes": 1024,
			"overload_drops": 0,
			"consumers": {
				"clusterA": {"pending": 5, "unacked": 2},
				"clusterB": {"pending": 0}
			}
		}
	}`)
	got := slices.Collect(ReplMetrics(doc, "riak_repl"))

	require.Equal(t, []types.Metric{
		{Name: "riak_repl_server_fullsyncs", Labels: labels.EmptyLabels(), Value: 1},
		{Name: "riak_repl_realtime_queue_stats_bytes", Labels: labels.EmptyLabels(), Value: 1024},
		{Name: "riak_repl_realtime_queue_stats_overload_drops", Labels: labels.EmptyLabels(), Value: 0},
		{
			Name:   "riak_repl_realtime_queue_stats_consumers_pending",
			Labels: labels.FromStrings("cluster", "clusterA"),
			Value:  5,
		},
		{
			Name:   "riak_repl_realtime_queue_stats_consumers_unacked",
			Labels: labels.FromStrings("cluster", "clusterA"),
			Value:  2,
		},
		{
			Name:   "riak_repl_realtime_queue_stats_consumers_pending",
			Labels: labels.FromStrings("cluster", "clusterB"),
			Value:  0,
		},
	}, got)
}

func TestReplDeeperNestingIgnored(t *testing.T) {
	doc := types.Document(`{
		"fullsync_coordinator": {
			"clusterA": {
				"queue_length": 3,
				"workers": {"busy": 2},
				"state": "running"
			}
		},
		"realtime_queue_stats": {
			"consumers": {
				"clusterA": {"pending": 1, "errs": ["boom"]}
			}
		}
	}`)
	got := slices.Collect(ReplMetrics(doc, "riak_repl"))

	require.Equal(t, []types.Metric{
		{
			Name:   "riak_repl_fullsync_coordinator_queue_length",
			Labels: labels.FromStrings("cluster", "clusterA"),
			Value:  3,
		},
		{
			Name:   "riak_repl_realtime_queue_stats_consumers_pending",
			Labels: labels.FromStrings("cluster", "clusterA"),
			Value:  1,
		},
	}, got)
}

func TestReplNonObjectSpecialKeys(t *testing.T) {
	doc := types.Document(`{"fullsync_coordinator": 7, "realtime_queue_stats": "down"}`)
	got := slices.Collect(ReplMetrics(doc, "riak_repl"))

	// A scalar under a special key still follows the top-level rules.
	require.Equal(t, []types.Metric{
		{Name: "riak_repl_fullsync_coordinator", Labels: labels.EmptyLabels(), Value: 7},
	}, got)
}
