package logging

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/velmie/mqrelay"
)

// Counters keeps running relay totals and writes them as one log line on Report.
type Counters struct {
	consumed   atomic.Int64
	handled    atomic.Int64
	dropped    atomic.Int64
	errors     atomic.Int64
	handleTime atomic.Int64
}

var _ mqrelay.Metrics = (*Counters)(nil)

// AddConsumed implements mqrelay.Metrics.
func (c *Counters) AddConsumed(n int) { c.consumed.Add(int64(n)) }

// AddHandled implements mqrelay.Metrics.
func (c *Counters) AddHandled(n int) { c.handled.Add(int64(n)) }

// AddDropped implements mqrelay.Metrics.
func (c *Counters) AddDropped(n int) { c.dropped.Add(int64(n)) }

// AddErrors implements mqrelay.Metrics.
func (c *Counters) AddErrors(n int) { c.errors.Add(int64(n)) }

// ObserveHandleDuration implements mqrelay.Metrics.
func (c *Counters) ObserveHandleDuration(d time.Duration) { c.handleTime.Add(int64(d)) }

// Report logs the totals at info level.
func (c *Counters) Report(logger zerolog.Logger) {
	logger.Info().
		Int64("consumed", c.consumed.Load()).
		Int64("handled", c.handled.Load()).
		Int64("dropped", c.dropped.Load()).
		Int64("errors", c.errors.Load()).
		Dur("handle_time", time.Duration(c.handleTime.Load())).
		Msg("relay totals")
}
