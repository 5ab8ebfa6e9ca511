// Package insights provides a client for the Application Insights query API
// and the tabular result model shared by the reporting pipeline.
package insights

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a column name is not present in a table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrMalformedResponse is returned when a query response does not match
	// the expected tables/columns/rows shape.
	ErrMalformedResponse = errors.New("malformed query response")

	// ErrDataNotAvailable is returned when the availability waiter exhausts
	// its attempt budget without seeing any telemetry.
	ErrDataNotAvailable = errors.New("no telemetry data available")
)

// Table is a columnar query result. Columns define the positional meaning of
// every row; each row has exactly one value per column. Tables are built once
// (from a query response or a pivot) and never mutated afterwards.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable builds a Table, checking that every row matches the column arity.
func NewTable(columns []string, rows [][]any) (Table, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return Table{}, fmt.Errorf("%w: row %d has %d values, want %d",
				ErrMalformedResponse, i, len(row), len(columns))
		}
	}
	return Table{Columns: columns, Rows: rows}, nil
}

// ColumnIndex resolves a column name to its position.
func (t Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q not in %v", ErrUnknownColumn, name, t.Columns)
}

// Column returns the values of a single column in row order.
func (t Table) Column(name string) ([]any, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}
