// Package telemetry provides hierarchical timing collection for operations.
// It tracks how long loading, parsing and balancing take, as a tree that is
// printed with --telemetry.
//
// Collectors travel through the context, so instrumented code does not need
// extra parameters and pays nothing when telemetry is disabled.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	root := collector.Start("balance main.journal")
//	ctx = telemetry.WithRootTimer(ctx, root)
//
//	// Deeper in the call stack
//	timer := telemetry.StartTimer(ctx, "parser.parse main.journal")
//	defer timer.End()
//
//	root.End()
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/journal/output"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey int

const (
	collectorKey contextKey = iota
	rootTimerKey
)

// Collector is the main interface for collecting telemetry data.
type Collector interface {
	// Start begins timing an operation and returns a Timer.
	// The timer should be ended with End() when the operation completes.
	Start(name string) Timer

	// Report writes the collected timings to w. Styles may be nil for
	// plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation's timing.
// Timers support hierarchical nesting via Child().
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
// The collector can be retrieved later with FromContext.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context.
// If no collector is present, returns a collector that does nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithRootTimer stores the timer of the running command. Timers started
// with StartTimer nest below it.
func WithRootTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, rootTimerKey, timer)
}

// StartTimer starts a timer below the root timer of ctx, or on the
// collector of ctx when there is no root timer.
func StartTimer(ctx context.Context, name string) Timer {
	if root, ok := ctx.Value(rootTimerKey).(Timer); ok {
		return root.Child(name)
	}
	return FromContext(ctx).Start(name)
}
