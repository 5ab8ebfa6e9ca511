package insights

import (
	"fmt"
	"sort"
)

// GroupDefinition configures a pivot from long format (one row per
// id/group/value triple) to wide format (one row per id, one column per
// distinct group value). MissingValue fills id/group combinations that never
// appear in the input; it defaults to nil.
type GroupDefinition struct {
	IDColumn     string
	GroupColumn  string
	ValueColumn  string
	MissingValue any
}

// GroupBy pivots the table according to def and returns a new table; the
// receiver is untouched. Output columns are the id column followed by
// "<value>_<group>" for each distinct group value, in sorted order so the
// result is reproducible.
//
// Rows are assumed to already be clustered by the id column: the pivot makes
// one forward pass and starts a new output row whenever the id changes from
// the previous row. An id that reappears in a later, non-adjacent block
// produces a second output row rather than being merged — callers rely on
// time-ordered results keeping ids contiguous. A repeated id/group pair
// within one block overwrites the earlier value.
func (t Table) GroupBy(def GroupDefinition) (Table, error) {
	idIdx, err := t.ColumnIndex(def.IDColumn)
	if err != nil {
		return Table{}, err
	}
	groupIdx, err := t.ColumnIndex(def.GroupColumn)
	if err != nil {
		return Table{}, err
	}
	valueIdx, err := t.ColumnIndex(def.ValueColumn)
	if err != nil {
		return Table{}, err
	}

	seen := make(map[string]bool)
	var groups []string
	for _, row := range t.Rows {
		g := fmt.Sprint(row[groupIdx])
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	sort.Strings(groups)

	slot := make(map[string]int, len(groups))
	columns := make([]string, 0, len(groups)+1)
	columns = append(columns, def.IDColumn)
	for i, g := range groups {
		slot[g] = i + 1
		columns = append(columns, def.ValueColumn+"_"+g)
	}

	var rows [][]any
	var current []any
	for _, row := range t.Rows {
		if current == nil || current[0] != row[idIdx] {
			if current != nil {
				rows = append(rows, current)
			}
			current = make([]any, len(columns))
			current[0] = row[idIdx]
			for i := 1; i < len(current); i++ {
				current[i] = def.MissingValue
			}
		}
		current[slot[fmt.Sprint(row[groupIdx])]] = row[valueIdx]
	}
	if current != nil {
		rows = append(rows, current)
	}

	return Table{Columns: columns, Rows: rows}, nil
}
