package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/velmie/mqrelay"
)

// Stream yields deliveries from a registered consumer.
type Stream struct {
	queue      string
	tag        string
	deliveries <-chan amqp.Delivery
	closes     <-chan *amqp.Error
}

var _ mqrelay.Stream = (*Stream)(nil)

// Next implements mqrelay.Stream.
func (s *Stream) Next(ctx context.Context) (mqrelay.Delivery, error) {
	select {
	case <-ctx.Done():
		return mqrelay.Delivery{}, ctx.Err()
	case d, ok := <-s.deliveries:
		if !ok {
			return mqrelay.Delivery{}, s.closeErr()
		}

		return mqrelay.Delivery{
			Tag:          d.DeliveryTag,
			Body:         d.Body,
			Acknowledger: d.Acknowledger,
		}, nil
	}
}

// Queue returns the consumed queue name.
func (s *Stream) Queue() string {
	return s.queue
}

// Tag returns the consumer tag.
func (s *Stream) Tag() string {
	return s.tag
}

func (s *Stream) closeErr() error {
	select {
	case reason, ok := <-s.closes:
		if ok && reason != nil {
			return fmt.Errorf("%w: %s: %w", mqrelay.ErrStreamClosed, s.queue, reason)
		}
	default:
	}

	return fmt.Errorf("%w: %s", mqrelay.ErrStreamClosed, s.queue)
}
