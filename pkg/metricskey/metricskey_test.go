package metricskey

import (
	"sort"
	"testing"

	"github.com/effective-security/metrics"
	"github.com/stretchr/testify/assert"
)

func TestMetricsDefinitions(t *testing.T) {
	// Test that all metrics have valid names and help text
	allMetrics := []*metrics.Describe{
		&PerfManifestLoad,
		&PerfToolCall,
		&StatsToolAuthFailures,
		&StatsToolCallsFailed,
		&StatsToolCallsSucceeded,
		&StatsToolboxLoadsFailed,
		&StatsToolboxLoadsSucceeded,
	}

	names := make([]string, 0, len(allMetrics))
	for _, m := range allMetrics {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Help)
		assert.NotEmpty(t, m.RequiredTags)
		names = append(names, m.Name)
	}

	// names must be unique
	sort.Strings(names)
	for i := 1; i < len(names); i++ {
		assert.NotEqual(t, names[i-1], names[i])
	}
}
