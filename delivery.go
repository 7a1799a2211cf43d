package mqrelay

import "context"

// Acknowledger confirms deliveries to the broker.
type Acknowledger interface {
	// Ack acknowledges the delivery with the given tag.
	Ack(tag uint64, multiple bool) error
}

// Delivery is a single message handed to the relay by a Stream.
type Delivery struct {
	Tag          uint64
	Body         []byte
	Acknowledger Acknowledger
}

// Ack acknowledges this delivery only.
func (d Delivery) Ack() error {
	if d.Acknowledger == nil {
		return ErrNoAcknowledger
	}

	return d.Acknowledger.Ack(d.Tag, false)
}

// Stream yields deliveries one at a time.
type Stream interface {
	// Next blocks until a delivery is available, the stream ends or ctx is done.
	// A closed stream returns an error wrapping ErrStreamClosed.
	Next(ctx context.Context) (Delivery, error)
}
