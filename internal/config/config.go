// Package config loads the relay configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// QueueName is the queue the relay consumes from.
	QueueName = "example_queue"
	// ConsumerTag identifies the relay's consumer registration.
	ConsumerTag = "my_consumer"
	// DefaultEnvFile is loaded when present.
	DefaultEnvFile = ".env"
)

// ErrMySQLURLRequired is returned when the persist variant has no database URL.
var ErrMySQLURLRequired = errors.New("config: MYSQL_CONNECTION_URL is required")

// Config is the process configuration. It is read once and passed by value.
type Config struct {
	AMQPAddr           string        `envconfig:"AMQP_ADDR" default:"amqp://127.0.0.1:5672/%2f"`
	MySQLConnectionURL string        `envconfig:"MYSQL_CONNECTION_URL"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat          string        `envconfig:"LOG_FORMAT" default:"json"`
	Heartbeat          time.Duration `envconfig:"AMQP_HEARTBEAT" default:"10s"`
	Prefetch           int           `envconfig:"AMQP_PREFETCH" default:"0"`
	ConnectTimeout     time.Duration `envconfig:"MYSQL_CONNECT_TIMEOUT" default:"10s"`
}

// Load reads env files (DefaultEnvFile when none are given) into the process environment
// and then decodes the environment into a Config. Missing files are ignored and variables
// already set in the environment take precedence over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// RequireMySQL validates the settings needed by the persist variant.
func (c Config) RequireMySQL() error {
	if c.MySQLConnectionURL == "" {
		return ErrMySQLURLRequired
	}

	return nil
}
