package rabbitmq

import "errors"

// ErrChannelRequired is returned when a queue operation runs before OpenChannel.
var ErrChannelRequired = errors.New("mqrelay rabbitmq: channel is not open")
