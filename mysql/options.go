package mysql

const (
	defaultTable  = "messages"
	defaultColumn = "body"
)

// Config defines MySQL store behavior.
type Config struct {
	Table  string
	Column string
}

func (c Config) withDefaults() Config {
	if c.Table == "" {
		c.Table = defaultTable
	}
	if c.Column == "" {
		c.Column = defaultColumn
	}

	return c
}

// Option configures the MySQL store.
type Option func(*Config)

// WithTable sets the target table. Use schema.table for a non-default schema.
func WithTable(name string) Option {
	return func(c *Config) {
		c.Table = name
	}
}

// WithColumn sets the text column receiving the message body.
func WithColumn(name string) Option {
	return func(c *Config) {
		c.Column = name
	}
}
