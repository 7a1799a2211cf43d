package rabbitmq

import (
	"errors"
	"fmt"
	"net/url"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/velmie/mqrelay"
)

const defaultLocale = "en_US"

type amqpChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	NotifyClose(c chan *amqp.Error) chan *amqp.Error
	Close() error
}

type amqpConnection interface {
	openChannel() (amqpChannel, error)
	IsClosed() bool
	Close() error
}

type dialedConnection struct {
	*amqp.Connection
}

func (c dialedConnection) openChannel() (amqpChannel, error) {
	ch, err := c.Channel()
	if err != nil {
		return nil, err
	}

	return ch, nil
}

// Client holds one broker connection and the channel used for consuming.
type Client struct {
	cfg    Config
	addr   string
	conn   amqpConnection
	ch     amqpChannel
	closes chan *amqp.Error
}

// Dial connects to the broker at addr.
func Dial(addr string, opts ...Option) (*Client, error) {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName(cfg.ConnectionName)

	conn, err := amqp.DialConfig(addr, amqp.Config{
		Heartbeat:  cfg.Heartbeat,
		Locale:     defaultLocale,
		Properties: props,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", mqrelay.ErrConnect, RedactAddr(addr), err)
	}
	cfg.Logger.Info("connected to broker", "addr", RedactAddr(addr))

	return newClient(dialedConnection{Connection: conn}, addr, cfg), nil
}

func newClient(conn amqpConnection, addr string, cfg Config) *Client {
	return &Client{
		cfg:  cfg.withDefaults(),
		addr: addr,
		conn: conn,
	}
}

// OpenChannel opens the channel used by DeclareQueue and Consume.
func (c *Client) OpenChannel() error {
	ch, err := c.conn.openChannel()
	if err != nil {
		return fmt.Errorf("%w: %w", mqrelay.ErrChannel, err)
	}
	if c.cfg.Prefetch > 0 {
		if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
			_ = ch.Close()

			return fmt.Errorf("%w: set qos: %w", mqrelay.ErrChannel, err)
		}
	}

	c.ch = ch
	c.closes = ch.NotifyClose(make(chan *amqp.Error, 1))

	return nil
}

// DeclareQueue ensures the queue exists using the broker defaults:
// non-durable, not auto-deleted, not exclusive, no arguments.
// Redeclaring an existing queue with the same parameters is a no-op on the broker.
func (c *Client) DeclareQueue(name string) (amqp.Queue, error) {
	if c.ch == nil {
		return amqp.Queue{}, fmt.Errorf("%w: %w", mqrelay.ErrDeclare, ErrChannelRequired)
	}

	queue, err := c.ch.QueueDeclare(
		name,
		false, // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("%w: %s: %w", mqrelay.ErrDeclare, name, err)
	}
	c.cfg.Logger.Info("queue declared", "queue", queue.Name, "messages", queue.Messages, "consumers", queue.Consumers)

	return queue, nil
}

// Consume registers a manually acknowledged consumer identified by tag.
func (c *Client) Consume(queue, tag string) (*Stream, error) {
	if c.ch == nil {
		return nil, fmt.Errorf("%w: %w", mqrelay.ErrConsume, ErrChannelRequired)
	}

	deliveries, err := c.ch.Consume(
		queue,
		tag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", mqrelay.ErrConsume, queue, err)
	}
	c.cfg.Logger.Info("consumer registered", "queue", queue, "tag", tag)

	return &Stream{queue: queue, tag: tag, deliveries: deliveries, closes: c.closes}, nil
}

// Close closes the channel and then the connection.
func (c *Client) Close() error {
	var errs []error
	if c.ch != nil {
		if err := c.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RedactAddr hides the password of an AMQP URI for logging.
func RedactAddr(addr string) string {
	u, err := url.Parse(addr)
	if err != nil {
		return "<invalid address>"
	}

	return u.Redacted()
}
