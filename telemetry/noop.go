package telemetry

import (
	"io"

	"github.com/robinvdvleuten/journal/output"
)

// noOpCollector is a collector that does nothing.
type noOpCollector struct{}

func (noOpCollector) Start(name string) Timer {
	return noOpTimer{}
}

func (noOpCollector) Report(w io.Writer, styles *output.Styles) {}

// noOpTimer is a timer that does nothing.
type noOpTimer struct{}

func (noOpTimer) End() {}

func (noOpTimer) Child(name string) Timer {
	return noOpTimer{}
}
