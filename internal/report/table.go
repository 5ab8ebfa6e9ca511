package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/insights"
)

// WriteTable prints the table with a header row, keeping the original row
// order.
func WriteTable(w io.Writer, table insights.Table) error {
	tw := tabwriter.NewWriter(w, 1, 1, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(table.Columns, "\t"))
	underlines := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		underlines[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(tw, strings.Join(underlines, "\t"))

	for _, row := range table.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func formatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(n) {
			return "NaN"
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	case string:
		return n
	default:
		return fmt.Sprint(n)
	}
}
