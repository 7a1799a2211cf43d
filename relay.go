package mqrelay

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// FailureHandler is called when the handler returns an error, before the relay stops.
type FailureHandler func(ctx context.Context, delivery Delivery, err error)

// Relay pulls deliveries from a Stream, acknowledges them and passes decoded bodies to a Handler.
// Exactly one delivery is in flight at a time.
type Relay struct {
	stream  Stream
	handler Handler
	cfg     RelayConfig
}

// NewRelay constructs a Relay with defaults and optional settings.
func NewRelay(stream Stream, handler Handler, opts ...RelayOption) *Relay {
	if stream == nil {
		panic("mqrelay: nil Stream")
	}
	if handler == nil {
		panic("mqrelay: nil Handler")
	}

	var cfg RelayConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	return &Relay{
		stream:  stream,
		handler: handler,
		cfg:     cfg,
	}
}

// Run processes deliveries until ctx is cancelled or a fatal error occurs.
// Cancellation between deliveries returns nil; every other stop, including a handler
// failure during shutdown, returns the error that caused it.
func (r *Relay) Run(ctx context.Context) error {
	for {
		if err := r.ProcessOnce(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) && !errors.Is(err, ErrHandle) {
				r.cfg.Logger.Info("relay stopped", "reason", err)

				return nil
			}
			r.cfg.Metrics.AddErrors(1)
			r.cfg.Logger.Warn("relay stopped", "err", err)

			return err
		}
	}
}

// ProcessOnce pulls, acknowledges, decodes and handles a single delivery.
// A payload that is not valid UTF-8 is acknowledged and dropped without error.
func (r *Relay) ProcessOnce(ctx context.Context) error {
	delivery, err := r.stream.Next(ctx)
	if err != nil {
		return err
	}
	r.cfg.Metrics.AddConsumed(1)

	if err := delivery.Ack(); err != nil {
		return fmt.Errorf("%w: tag %d: %w", ErrAck, delivery.Tag, err)
	}

	if !utf8.Valid(delivery.Body) {
		r.cfg.Logger.Info("consumed", "tag", delivery.Tag, "err", "invalid utf-8", "size", len(delivery.Body))
		r.cfg.Metrics.AddDropped(1)

		return nil
	}
	body := string(delivery.Body)
	r.cfg.Logger.Info("consumed", "tag", delivery.Tag, "body", body)

	return r.handle(ctx, delivery, body)
}

// handle runs the handler detached from ctx cancellation since the delivery is
// already acknowledged. Only HandlerTimeout bounds the call.
func (r *Relay) handle(ctx context.Context, delivery Delivery, body string) error {
	handleCtx := context.WithoutCancel(ctx)
	cancel := func() {}
	if r.cfg.HandlerTimeout > 0 {
		handleCtx, cancel = context.WithTimeout(handleCtx, r.cfg.HandlerTimeout)
	}
	start := r.cfg.Clock.Now()
	err := r.handler.Handle(handleCtx, body)
	r.cfg.Metrics.ObserveHandleDuration(r.cfg.Clock.Now().Sub(start))
	cancel()

	if err != nil {
		if r.cfg.ErrorHandler != nil {
			r.cfg.ErrorHandler(ctx, delivery, err)
		}

		return fmt.Errorf("%w: tag %d: %w", ErrHandle, delivery.Tag, err)
	}
	r.cfg.Metrics.AddHandled(1)

	return nil
}
