package report

import (
	"fmt"
	"io"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/insights"
)

// ChartConfig enumerates the recognised chart style options.
type ChartConfig struct {
	Height       int
	Width        int
	SeriesColors []asciigraph.AnsiColor
	Caption      string
}

// WriteChart plots the named columns of the table as line series sharing the
// x axis (row order). Every column is resolved before anything is written, so
// an unknown column never produces a partial chart. Non-numeric and nil
// values become NaN, which the plotter renders as a gap.
func WriteChart(w io.Writer, table insights.Table, columns []string, cfg ChartConfig) error {
	if len(columns) == 0 {
		return fmt.Errorf("chart: no series columns given")
	}

	series := make([][]float64, 0, len(columns))
	for _, name := range columns {
		idx, err := table.ColumnIndex(name)
		if err != nil {
			return err
		}
		values := make([]float64, len(table.Rows))
		for i, row := range table.Rows {
			if f, ok := insights.AsFloat(row[idx]); ok {
				values[i] = f
			} else {
				values[i] = math.NaN()
			}
		}
		series = append(series, values)
	}

	var opts []asciigraph.Option
	if cfg.Height > 0 {
		opts = append(opts, asciigraph.Height(cfg.Height))
	}
	if cfg.Width > 0 {
		opts = append(opts, asciigraph.Width(cfg.Width))
	}
	if len(cfg.SeriesColors) > 0 {
		opts = append(opts, asciigraph.SeriesColors(cfg.SeriesColors...))
	}
	if cfg.Caption != "" {
		opts = append(opts, asciigraph.Caption(cfg.Caption))
	}

	fmt.Fprintln(w, asciigraph.PlotMany(series, opts...))
	return nil
}
