package rabbitmq

import (
	"time"

	"github.com/velmie/mqrelay"
)

const (
	defaultHeartbeat      = 10 * time.Second
	defaultConnectionName = "mqrelay"
)

// Config defines connection behavior.
type Config struct {
	Heartbeat      time.Duration
	ConnectionName string
	Prefetch       int
	Logger         mqrelay.Logger
}

func (c Config) withDefaults() Config {
	if c.Heartbeat <= 0 {
		c.Heartbeat = defaultHeartbeat
	}
	if c.ConnectionName == "" {
		c.ConnectionName = defaultConnectionName
	}
	if c.Logger == nil {
		c.Logger = mqrelay.NopLogger{}
	}

	return c
}

// Option configures the Client.
type Option func(*Config)

// WithHeartbeat sets the AMQP heartbeat interval.
func WithHeartbeat(interval time.Duration) Option {
	return func(c *Config) {
		c.Heartbeat = interval
	}
}

// WithConnectionName sets the connection name shown in the broker management UI.
func WithConnectionName(name string) Option {
	return func(c *Config) {
		c.ConnectionName = name
	}
}

// WithPrefetch limits unacknowledged deliveries pushed to this consumer.
// Zero, the default, keeps the broker default of no limit.
func WithPrefetch(count int) Option {
	return func(c *Config) {
		c.Prefetch = count
	}
}

// WithLogger sets the client logger.
func WithLogger(logger mqrelay.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
