package insights

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/metrics"
)

// QueryRunner is the part of Client the waiter and the report runner need.
type QueryRunner interface {
	Query(ctx context.Context, query, timespan string) (Table, error)
}

// WaiterConfig bounds the polling loop.
type WaiterConfig struct {
	// MaxAttempts is the total number of queries issued before giving up.
	MaxAttempts int

	// Interval is the pause between attempts.
	Interval time.Duration

	// Sleep suspends between attempts; nil means a context-aware
	// time.Timer wait. Tests inject their own to simulate time.
	Sleep func(ctx context.Context, d time.Duration) error

	// Metrics receives per-attempt instrumentation. Optional.
	Metrics *metrics.Collector
}

// Waiter polls a count-style query until telemetry has propagated to the
// store. Ingestion lags the emitting process by minutes, so analytic queries
// run only after the waiter confirms data is present.
type Waiter struct {
	runner QueryRunner
	cfg    WaiterConfig
	logger *zap.Logger
}

// NewWaiter creates a waiter over the given query runner.
func NewWaiter(runner QueryRunner, cfg WaiterConfig, logger *zap.Logger) *Waiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Waiter{runner: runner, cfg: cfg, logger: logger}
}

// WaitForData runs query (which must return a single count value) over a
// 1-day timespan until the count is positive. A failed or empty response
// counts as a spent attempt. Exhausting the budget returns
// ErrDataNotAvailable; cancelling ctx aborts the pause between attempts.
func (w *Waiter) WaitForData(ctx context.Context, query string) error {
	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		w.cfg.Metrics.ObserveWaiterAttempt()
		count, err := w.countOnce(ctx, query)
		if err != nil {
			w.logger.Warn("availability probe failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
		} else if count > 0 {
			w.logger.Info("telemetry data available",
				zap.Int("attempt", attempt),
				zap.Float64("count", count))
			return nil
		} else {
			w.logger.Info("waiting for telemetry data",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", w.cfg.MaxAttempts))
		}

		if attempt == w.cfg.MaxAttempts {
			break
		}
		if err := w.cfg.Sleep(ctx, w.cfg.Interval); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w after %d attempts", ErrDataNotAvailable, w.cfg.MaxAttempts)
}

func (w *Waiter) countOnce(ctx context.Context, query string) (float64, error) {
	table, err := w.runner.Query(ctx, query, "P1D")
	if err != nil {
		return 0, err
	}
	if len(table.Rows) == 0 || len(table.Rows[0]) == 0 {
		return 0, fmt.Errorf("%w: count query returned no rows", ErrMalformedResponse)
	}
	count, ok := AsFloat(table.Rows[0][0])
	if !ok {
		return 0, fmt.Errorf("%w: count value %v is not numeric", ErrMalformedResponse, table.Rows[0][0])
	}
	return count, nil
}

// AsFloat converts the numeric scalar types a decoded JSON row can hold.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
