// Package observe provides the trace hook injected into the aggregation
// and series computations. The default is a no-op so the computations
// stay side-effect-free; the CLI wires in the zerolog adapter.
package observe

import "github.com/rs/zerolog"

// Tracer receives diagnostic events from the core computations.
type Tracer interface {
	Trace(event string, fields map[string]interface{})
}

// NopTracer discards all events.
type NopTracer struct{}

// Trace implements Tracer.
func (NopTracer) Trace(string, map[string]interface{}) {}

// ZerologTracer forwards events to a zerolog logger at debug level.
type ZerologTracer struct {
	Logger zerolog.Logger
}

// Trace implements Tracer.
func (t ZerologTracer) Trace(event string, fields map[string]interface{}) {
	t.Logger.Debug().Fields(fields).Msg(event)
}
