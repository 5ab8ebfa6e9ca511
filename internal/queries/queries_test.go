package queries

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/insights"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/portal"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/report"
)

var (
	testStart = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	testStop  = time.Date(2026, 8, 31, 10, 5, 0, 0, time.UTC)
)

func TestTimeRange(t *testing.T) {
	clause := TimeRange(testStart, testStop)
	assert.Equal(t,
		"timestamp > datetime(2026-08-31T10:00:00Z) and timestamp < datetime(2026-08-31T10:05:00Z)",
		clause)
}

func TestTimeRange_NormalisesToUTC(t *testing.T) {
	local := time.FixedZone("UTC+2", 2*60*60)
	clause := TimeRange(testStart.In(local), testStop)
	assert.Contains(t, clause, "2026-08-31T10:00:00Z")
}

func TestRecordCountSince(t *testing.T) {
	q := RecordCountSince(MetricRequestLatency, testStop.Add(-10*time.Second))
	assert.Contains(t, q, `name == "locust.request_latency"`)
	assert.Contains(t, q, "datetime(2026-08-31T10:04:50Z)")
	assert.True(t, strings.HasSuffix(q, "| count"))
}

func TestLatencyQueries(t *testing.T) {
	front := FrontendLatency(testStart, testStop)
	assert.Contains(t, front, MetricRequestLatency)
	assert.Contains(t, front, "bin(timestamp, 10s)")
	assert.Contains(t, front, "order by timestamp asc")

	back := BackendLatency(testStart, testStop)
	assert.Contains(t, back, MetricBackendLatency)
	assert.Contains(t, back, "cloud_RoleName")
}

type roleClient struct {
	queries []string
}

func (c *roleClient) Query(ctx context.Context, query, timespan string) (insights.Table, error) {
	c.queries = append(c.queries, query)
	if strings.Contains(query, "cloud_RoleName") {
		return insights.Table{
			Columns: []string{"timestamp", "cloud_RoleName", "latency_s"},
			Rows: [][]any{
				{"t1", "sim-payg1", 0.1},
				{"t1", "sim-payg2", 0.5},
				{"t2", "sim-payg1", 0.2},
			},
		}, nil
	}
	return insights.Table{
		Columns: []string{"timestamp", "latency_s"},
		Rows:    [][]any{{"t1", 0.3}, {"t2", 0.4}},
	}, nil
}

func TestStandardReport(t *testing.T) {
	client := &roleClient{}
	var out bytes.Buffer
	runner := report.NewRunner(client, portal.Links{}, &out, nil)

	StandardReport(runner, BackendRoles{Primary: "sim-payg1", Secondary: "sim-payg2"}, testStart, testStop)

	failures := runner.RunAll(context.Background())
	require.Equal(t, 0, failures)
	require.Len(t, client.queries, 2)

	assert.Contains(t, out.String(), "Front-end latency")
	assert.Contains(t, out.String(), "Back-end latency")
	// The pivoted series names resolved, so both charts rendered.
	assert.Contains(t, out.String(), "Running query 2 of 2")
}
