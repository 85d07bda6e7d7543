package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	LabelRoute     = "route"
	LabelMethod    = "method"
	LabelOperation = "operation"
	LabelEngine    = "engine"
	LabelResource  = "resource"
)

// maxLabelValueLength caps label values to keep profile cardinality bounded
const maxLabelValueLength = 128

// highCardinalityLabels are dropped from profiling labels
var highCardinalityLabels = map[string]struct{}{
	"request_id":     {},
	"trace_id":       {},
	"span_id":        {},
	"invoice_number": {},
	"customer_id":    {},
}

// WithProfilingLabels runs fn with pprof labels attached so samples can be
// filtered in Pyroscope.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// HTTPRequestLabels labels a request by route template and method
func HTTPRequestLabels(route, method string) map[string]string {
	return map[string]string{LabelRoute: route, LabelMethod: method}
}

// OperationLabels labels a named unit of work
func OperationLabels(operation string, extra map[string]string) map[string]string {
	labels := map[string]string{LabelOperation: operation}
	for k, v := range extra {
		labels[k] = v
	}
	return labels
}

// labelPairs flattens labels into sorted key/value pairs, skipping empty and
// high-cardinality entries.
func labelPairs(labels map[string]string) []string {
	clean := make(map[string]string, len(labels))
	for k, v := range labels {
		k = sanitizeLabelKey(k)
		if k == "" || v == "" {
			continue
		}
		if _, skip := highCardinalityLabels[k]; skip {
			continue
		}
		if len(v) > maxLabelValueLength {
			v = v[:maxLabelValueLength]
		}
		clean[k] = v
	}

	keys := make([]string, 0, len(clean))
	for k := range clean {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, clean[k])
	}
	return pairs
}

// sanitizeLabelKey lowercases key and replaces anything outside [a-z0-9_]
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	var b strings.Builder
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
