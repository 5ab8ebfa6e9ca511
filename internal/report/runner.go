// Package report runs a registered batch of telemetry queries and renders
// each result as a table or an ASCII chart.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/insights"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/portal"
)

const defaultTimespan = "PT12H"

const (
	ansiYellow = "\x1b[93m"
	ansiRed    = "\x1b[91m"
	ansiReset  = "\x1b[0m"
)

// Validator inspects a (possibly pivoted) result and returns a non-empty
// message when the data does not look right.
type Validator func(insights.Table) string

// QuerySpec describes one query in the batch. Specs are registered with Add
// and never change afterwards.
type QuerySpec struct {
	// Title describes the behaviour the query checks.
	Title string

	// Query is the KQL to run.
	Query string

	// Validator, when set, judges the rendered result.
	Validator Validator

	// Timespan bounds how far back the query looks (ISO-8601 duration).
	// Empty means PT12H.
	Timespan string

	// Chart selects chart rendering over the default table.
	Chart bool

	// SeriesColumns are the columns plotted when Chart is set.
	SeriesColumns []string

	// Group, when set, pivots the result before rendering and validation.
	Group *insights.GroupDefinition

	// ChartConfig styles the chart.
	ChartConfig ChartConfig

	// ShowQuery prints the query text before the result.
	ShowQuery bool

	// IncludeLink prints a portal deep link for the query.
	IncludeLink bool
}

// Runner executes registered query specs strictly in order, isolating each
// spec's failures so one bad query never stops the rest of the batch.
type Runner struct {
	client QueryRunner
	links  portal.Links
	out    io.Writer
	logger *zap.Logger
	specs  []QuerySpec
}

// QueryRunner is satisfied by *insights.Client.
type QueryRunner = insights.QueryRunner

// NewRunner creates a batch runner writing its report to out. links may be
// zero; deep links are then skipped even for specs that ask for one.
func NewRunner(client QueryRunner, links portal.Links, out io.Writer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{client: client, links: links, out: out, logger: logger}
}

// Add registers a spec at the end of the batch.
func (r *Runner) Add(spec QuerySpec) {
	r.specs = append(r.specs, spec)
}

// RunAll executes every registered spec in registration order and returns the
// number of failed queries (transport, pivot/render, or validation). The
// caller decides whether a non-zero count fails the whole run.
func (r *Runner) RunAll(ctx context.Context) int {
	runID := uuid.NewString()
	failures := 0

	for i, spec := range r.specs {
		fmt.Fprintf(r.out, "\nRunning query %d of %d\n", i+1, len(r.specs))
		fmt.Fprintf(r.out, "%s%s%s\n", ansiYellow, spec.Title, ansiReset)

		if err := r.runOne(ctx, spec); err != nil {
			failures++
			fmt.Fprintf(r.out, "%sQuery %q failed: %v%s\n", ansiRed, spec.Title, err, ansiReset)
			r.logger.Warn("query failed",
				zap.String("run_id", runID),
				zap.String("title", spec.Title),
				zap.Error(err))
		}
	}

	r.logger.Info("batch complete",
		zap.String("run_id", runID),
		zap.Int("queries", len(r.specs)),
		zap.Int("failures", failures))
	return failures
}

func (r *Runner) runOne(ctx context.Context, spec QuerySpec) error {
	timespan := spec.Timespan
	if timespan == "" {
		timespan = defaultTimespan
	}

	if spec.ShowQuery {
		fmt.Fprintf(r.out, "%s\n\n", spec.Query)
	}
	if spec.IncludeLink && r.links.Configured() {
		if url, err := r.links.QueryURL(spec.Query, timespan); err == nil {
			fmt.Fprintf(r.out, "%s\n\n", portal.Hyperlink("Run in App Insights", url))
		}
	}

	table, err := r.client.Query(ctx, spec.Query, timespan)
	if err != nil {
		return err
	}

	if spec.Group != nil {
		table, err = table.GroupBy(*spec.Group)
		if err != nil {
			return err
		}
	}

	if spec.Chart {
		if err := WriteChart(r.out, table, spec.SeriesColumns, spec.ChartConfig); err != nil {
			return err
		}
	} else {
		if err := WriteTable(r.out, table); err != nil {
			return err
		}
	}

	if spec.Validator != nil {
		if msg := spec.Validator(table); msg != "" {
			return fmt.Errorf("validation failed: %s", msg)
		}
	}

	fmt.Fprintln(r.out)
	return nil
}
