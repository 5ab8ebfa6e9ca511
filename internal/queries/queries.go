// Package queries builds the KQL for the latency test report. The metric
// names match what the load generator and the backend simulator emit into
// Application Insights.
package queries

import (
	"fmt"
	"math"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/insights"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/report"
)

// Metric names emitted by the external collaborators.
const (
	MetricRequestLatency = "locust.request_latency"
	MetricBackendLatency = "aoai-simulator.latency.full"
)

const kqlTimeFormat = "2006-01-02T15:04:05Z"

// TimeRange renders the shared timestamp window clause with UTC second
// precision.
func TimeRange(start, stop time.Time) string {
	return fmt.Sprintf("timestamp > datetime(%s) and timestamp < datetime(%s)",
		start.UTC().Format(kqlTimeFormat), stop.UTC().Format(kqlTimeFormat))
}

// RecordCountSince counts records of the named metric from a point in time;
// the availability waiter polls it until it goes positive.
func RecordCountSince(metric string, since time.Time) string {
	return fmt.Sprintf(`customMetrics
| where timestamp >= datetime(%s) and name == "%s"
| count`, since.UTC().Format(kqlTimeFormat), metric)
}

// FrontendLatency charts the load generator's observed request latency in
// 10 second bins.
func FrontendLatency(start, stop time.Time) string {
	return fmt.Sprintf(`customMetrics
| where name == "%s" and %s
| project timestamp, valueSum, valueCount
| summarize latency_s = sum(valueSum)/sum(valueCount) by bin(timestamp, 10s)
| order by timestamp asc
| render timechart`, MetricRequestLatency, TimeRange(start, stop))
}

// BackendLatency charts the simulator-side latency split by emitting role, in
// 10 second bins. The result is long format: one row per role per bin.
func BackendLatency(start, stop time.Time) string {
	return fmt.Sprintf(`customMetrics
| where name == "%s" and %s
| project timestamp, cloud_RoleName, valueSum, valueCount
| summarize latency_s = sum(valueSum)/sum(valueCount) by cloud_RoleName, bin(timestamp, 10s)
| order by timestamp asc
| render timechart`, MetricBackendLatency, TimeRange(start, stop))
}

// BackendRoles are the simulator deployments expected in the back-end chart.
type BackendRoles struct {
	Primary   string // plotted blue
	Secondary string // plotted yellow
}

// StandardReport registers the latency report queries for a test window.
// The back-end query comes back long format and is pivoted on timestamp so
// each role becomes its own series; bins where a role is silent are filled
// with NaN and show as chart gaps.
func StandardReport(r *report.Runner, roles BackendRoles, start, stop time.Time) {
	r.Add(report.QuerySpec{
		Title:         "Front-end latency",
		Query:         FrontendLatency(start, stop),
		Chart:         true,
		SeriesColumns: []string{"latency_s"},
		ChartConfig: report.ChartConfig{
			Height:       10,
			SeriesColors: []asciigraph.AnsiColor{asciigraph.Blue},
		},
		Timespan:    "P1D",
		ShowQuery:   true,
		IncludeLink: true,
	})

	r.Add(report.QuerySpec{
		Title: fmt.Sprintf("Back-end latency (%s -> Blue, %s -> Yellow)", roles.Primary, roles.Secondary),
		Query: BackendLatency(start, stop),
		Chart: true,
		SeriesColumns: []string{
			"latency_s_" + roles.Secondary,
			"latency_s_" + roles.Primary,
		},
		ChartConfig: report.ChartConfig{
			Height:       10,
			SeriesColors: []asciigraph.AnsiColor{asciigraph.Yellow, asciigraph.Blue},
		},
		Group: &insights.GroupDefinition{
			IDColumn:     "timestamp",
			GroupColumn:  "cloud_RoleName",
			ValueColumn:  "latency_s",
			MissingValue: math.NaN(),
		},
		Timespan:    "P1D",
		ShowQuery:   true,
		IncludeLink: true,
	})
}
