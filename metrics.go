package mqrelay

import "time"

// Metrics captures relay-level telemetry.
type Metrics interface {
	// AddConsumed increments the count of pulled deliveries.
	AddConsumed(count int)
	// AddHandled increments the count of bodies handled successfully.
	AddHandled(count int)
	// AddDropped increments the count of acknowledged but undecodable deliveries.
	AddDropped(count int)
	// AddErrors increments the count of fatal errors.
	AddErrors(count int)
	// ObserveHandleDuration records the time spent in the handler.
	ObserveHandleDuration(duration time.Duration)
}

// NopMetrics is a no-op metrics recorder.
type NopMetrics struct{}

// AddConsumed implements Metrics.
func (NopMetrics) AddConsumed(int) {}

// AddHandled implements Metrics.
func (NopMetrics) AddHandled(int) {}

// AddDropped implements Metrics.
func (NopMetrics) AddDropped(int) {}

// AddErrors implements Metrics.
func (NopMetrics) AddErrors(int) {}

// ObserveHandleDuration implements Metrics.
func (NopMetrics) ObserveHandleDuration(time.Duration) {}
