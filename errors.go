package mqrelay

import "errors"

var (
	// ErrConnect indicates that the broker connection could not be established.
	ErrConnect = errors.New("mqrelay: broker connect failed")
	// ErrChannel indicates that a broker channel could not be opened.
	ErrChannel = errors.New("mqrelay: channel open failed")
	// ErrDeclare indicates that the queue declaration failed.
	ErrDeclare = errors.New("mqrelay: queue declare failed")
	// ErrConsume indicates that consumer registration failed.
	ErrConsume = errors.New("mqrelay: consumer registration failed")
	// ErrStreamClosed signals that the delivery stream ended.
	ErrStreamClosed = errors.New("mqrelay: delivery stream closed")
	// ErrAck indicates that a delivery acknowledgement failed.
	ErrAck = errors.New("mqrelay: ack failed")
	// ErrHandle indicates that the message handler returned an error.
	ErrHandle = errors.New("mqrelay: handler failed")
	// ErrNoAcknowledger is returned when a delivery carries no acknowledger.
	ErrNoAcknowledger = errors.New("mqrelay: delivery has no acknowledger")
)
