package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longTable() Table {
	return Table{
		Columns: []string{"timestamp", "role", "latency_s"},
		Rows: [][]any{
			{"t1", "payg1", 0.1},
			{"t1", "payg2", 0.5},
			{"t2", "payg1", 0.2},
			{"t2", "payg2", 0.6},
		},
	}
}

func TestTable_GroupBy(t *testing.T) {
	def := GroupDefinition{
		IDColumn:    "timestamp",
		GroupColumn: "role",
		ValueColumn: "latency_s",
	}

	t.Run("pivots long format to wide", func(t *testing.T) {
		out, err := longTable().GroupBy(def)
		require.NoError(t, err)

		assert.Equal(t, []string{"timestamp", "latency_s_payg1", "latency_s_payg2"}, out.Columns)
		require.Len(t, out.Rows, 2)
		assert.Equal(t, []any{"t1", 0.1, 0.5}, out.Rows[0])
		assert.Equal(t, []any{"t2", 0.2, 0.6}, out.Rows[1])
	})

	t.Run("column count is 1 plus distinct groups regardless of rows", func(t *testing.T) {
		in := longTable()
		in.Rows = append(in.Rows,
			[]any{"t3", "payg1", 0.3},
			[]any{"t4", "payg2", 0.4},
		)
		out, err := in.GroupBy(def)
		require.NoError(t, err)
		assert.Len(t, out.Columns, 3)
	})

	t.Run("fills missing combinations", func(t *testing.T) {
		in := Table{
			Columns: []string{"timestamp", "role", "latency_s"},
			Rows: [][]any{
				{"t1", "x", 1.0},
				{"t1", "y", 2.0},
				{"t2", "x", 3.0},
			},
		}
		out, err := in.GroupBy(GroupDefinition{
			IDColumn:     "timestamp",
			GroupColumn:  "role",
			ValueColumn:  "latency_s",
			MissingValue: "absent",
		})
		require.NoError(t, err)
		require.Len(t, out.Rows, 2)
		assert.Equal(t, []any{"t2", 3.0, "absent"}, out.Rows[1])
	})

	t.Run("missing value defaults to nil", func(t *testing.T) {
		in := Table{
			Columns: []string{"timestamp", "role", "latency_s"},
			Rows: [][]any{
				{"t1", "x", 1.0},
				{"t2", "y", 2.0},
			},
		}
		out, err := in.GroupBy(def)
		require.NoError(t, err)
		assert.Equal(t, []any{"t1", 1.0, nil}, out.Rows[0])
		assert.Equal(t, []any{"t2", nil, 2.0}, out.Rows[1])
	})

	t.Run("non-adjacent repeats of an id stay separate rows", func(t *testing.T) {
		// Only contiguous runs are grouped; call sites rely on the query
		// keeping ids time-ordered.
		in := Table{
			Columns: []string{"id", "group", "value"},
			Rows: [][]any{
				{1.0, "a", 10.0},
				{2.0, "b", 20.0},
				{1.0, "a", 30.0},
			},
		}
		out, err := in.GroupBy(GroupDefinition{
			IDColumn:    "id",
			GroupColumn: "group",
			ValueColumn: "value",
		})
		require.NoError(t, err)
		require.Len(t, out.Rows, 3)
		assert.Equal(t, 1.0, out.Rows[0][0])
		assert.Equal(t, 2.0, out.Rows[1][0])
		assert.Equal(t, 1.0, out.Rows[2][0])
	})

	t.Run("repeated id and group pair keeps the last value", func(t *testing.T) {
		in := Table{
			Columns: []string{"id", "group", "value"},
			Rows: [][]any{
				{"t1", "a", 1.0},
				{"t1", "a", 2.0},
			},
		}
		out, err := in.GroupBy(GroupDefinition{
			IDColumn:    "id",
			GroupColumn: "group",
			ValueColumn: "value",
		})
		require.NoError(t, err)
		require.Len(t, out.Rows, 1)
		assert.Equal(t, []any{"t1", 2.0}, out.Rows[0])
	})

	t.Run("empty input yields columns and zero rows", func(t *testing.T) {
		in := Table{Columns: []string{"timestamp", "role", "latency_s"}}
		out, err := in.GroupBy(def)
		require.NoError(t, err)
		assert.Equal(t, []string{"timestamp"}, out.Columns)
		assert.Empty(t, out.Rows)
	})

	t.Run("unknown column fails the pivot", func(t *testing.T) {
		_, err := longTable().GroupBy(GroupDefinition{
			IDColumn:    "timestamp",
			GroupColumn: "nope",
			ValueColumn: "latency_s",
		})
		assert.ErrorIs(t, err, ErrUnknownColumn)
	})

	t.Run("input table is untouched", func(t *testing.T) {
		in := longTable()
		_, err := in.GroupBy(def)
		require.NoError(t, err)
		assert.Equal(t, longTable(), in)
	})
}
