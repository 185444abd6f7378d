package exposition

import (
	"strings"

	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"

	"github.com/basho-labs/riak-exporter/types"
)

// Render consumes stream and returns the exposition text: one
// `name value` or `name{k="v"} value` line per metric, each terminated
// by a newline. An empty stream renders to the empty string. Label
// values are written verbatim; cluster ids are not escaped.
func Render(stream types.MetricStream) string {
	var sb strings.Builder
	for m := range stream {
		sb.WriteString(m.Name)
		if !m.Labels.IsEmpty() {
			sb.WriteByte('{')
			first := true
			m.Labels.Range(func(l labels.Label) {
				if !first {
					sb.WriteByte(',')
				}
				first = false
				sb.WriteString(l.Name)
				sb.WriteString(`="`)
				sb.WriteString(l.Value)
				sb.WriteByte('"')
			})
			sb.WriteByte('}')
		}
		sb.WriteByte(' ')
		sb.WriteString(model.SampleValue(m.Value).String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
