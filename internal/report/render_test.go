package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/insights"
)

func TestWriteTable(t *testing.T) {
	table := insights.Table{
		Columns: []string{"timestamp", "latency_s"},
		Rows: [][]any{
			{"2026-01-01T00:00:00Z", 0.25},
			{"2026-01-01T00:00:10Z", nil},
		},
	}

	var out bytes.Buffer
	require.NoError(t, WriteTable(&out, table))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4, "header, underline, two data rows")
	assert.Contains(t, lines[0], "timestamp")
	assert.Contains(t, lines[0], "latency_s")
	assert.Contains(t, lines[2], "0.25")

	// Rows keep their original order.
	assert.Less(t, strings.Index(out.String(), "00:00:00Z"), strings.Index(out.String(), "00:00:10Z"))
}

func TestWriteChart(t *testing.T) {
	table := insights.Table{
		Columns: []string{"timestamp", "a", "b"},
		Rows: [][]any{
			{"t1", 1.0, 4.0},
			{"t2", 2.0, 5.0},
			{"t3", 3.0, 6.0},
		},
	}

	t.Run("plots the requested series", func(t *testing.T) {
		var out bytes.Buffer
		err := WriteChart(&out, table, []string{"a", "b"}, ChartConfig{Height: 5})
		require.NoError(t, err)
		assert.NotEmpty(t, out.String())
	})

	t.Run("unknown series column fails without output", func(t *testing.T) {
		var out bytes.Buffer
		err := WriteChart(&out, table, []string{"a", "nope"}, ChartConfig{})
		require.Error(t, err)
		assert.ErrorIs(t, err, insights.ErrUnknownColumn)
		assert.Empty(t, out.String())
	})

	t.Run("requires at least one series", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, WriteChart(&out, table, nil, ChartConfig{}))
	})

	t.Run("non-numeric values become gaps rather than errors", func(t *testing.T) {
		mixed := insights.Table{
			Columns: []string{"v"},
			Rows:    [][]any{{1.0}, {nil}, {3.0}},
		}
		var out bytes.Buffer
		require.NoError(t, WriteChart(&out, mixed, []string{"v"}, ChartConfig{}))
		assert.NotEmpty(t, out.String())
	})
}
