// Package metricskey declares the metrics emitted by the Toolbox client.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolboxLoadsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_toolbox_loads_succeeded",
		Help:         "stats_toolbox_loads_succeeded provides total manifest loads succeeded",
		RequiredTags: []string{"server"},
	}

	StatsToolboxLoadsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_toolbox_loads_failed",
		Help:         "stats_toolbox_loads_failed provides total manifest loads failed",
		RequiredTags: []string{"server"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolAuthFailures = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_auth_failures",
		Help:         "stats_tool_auth_failures provides total tool calls rejected for missing auth",
		RequiredTags: []string{"tool"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfManifestLoad = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_manifest_load",
		Help:         "perf_manifest_load provides duration of manifest load",
		RequiredTags: []string{"server"},
	}
)
