//go:build integration

package rabbitmq_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/velmie/mqrelay"
	"github.com/velmie/mqrelay/rabbitmq"
)

const (
	rabbitImage          = "rabbitmq:3.13-alpine"
	rabbitStartupTimeout = 2 * time.Minute
	queueName            = "example_queue"
	consumerTag          = "my_consumer"
)

func TestDeclareQueueIdempotentIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test disabled in short mode")
	}

	ctx := context.Background()
	addr := startRabbitMQContainer(t, ctx)

	client, err := rabbitmq.Dial(addr)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})
	require.NoError(t, client.OpenChannel())

	first, err := client.DeclareQueue(queueName)
	require.NoError(t, err)
	second, err := client.DeclareQueue(queueName)
	require.NoError(t, err)
	require.Equal(t, first.Name, second.Name)
}

func TestRelayEndToEndIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test disabled in short mode")
	}

	ctx := context.Background()
	addr := startRabbitMQContainer(t, ctx)

	client, err := rabbitmq.Dial(addr)
	require.NoError(t, err)
	require.NoError(t, client.OpenChannel())
	_, err = client.DeclareQueue(queueName)
	require.NoError(t, err)

	publish(t, ctx, addr, []byte("hello"), []byte{0xff, 0xfe}, []byte("bye"))

	stream, err := client.Consume(queueName, consumerTag)
	require.NoError(t, err)

	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var out bytes.Buffer
	printer := mqrelay.PrintHandler{W: &out}
	handler := mqrelay.HandlerFunc(func(ctx context.Context, body string) error {
		if err := printer.Handle(ctx, body); err != nil {
			return err
		}
		if body == "bye" {
			cancel()
		}
		return nil
	})

	require.NoError(t, mqrelay.NewRelay(stream, handler).Run(runCtx))
	require.Equal(t, "hello\nbye\n", out.String())
	require.NoError(t, client.Close())

	// unacknowledged deliveries would be requeued once the consumer is gone
	check, err := rabbitmq.Dial(addr)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = check.Close()
	})
	require.NoError(t, check.OpenChannel())
	queue, err := check.DeclareQueue(queueName)
	require.NoError(t, err)
	require.Zero(t, queue.Messages)
}

func TestStreamClosesWithConnectionIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test disabled in short mode")
	}

	ctx := context.Background()
	addr := startRabbitMQContainer(t, ctx)

	client, err := rabbitmq.Dial(addr)
	require.NoError(t, err)
	require.NoError(t, client.OpenChannel())
	_, err = client.DeclareQueue(queueName)
	require.NoError(t, err)
	stream, err := client.Consume(queueName, consumerTag)
	require.NoError(t, err)

	require.NoError(t, client.Close())

	nextCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err = stream.Next(nextCtx)
	require.ErrorIs(t, err, mqrelay.ErrStreamClosed)
}

func publish(t *testing.T, ctx context.Context, addr string, bodies ...[]byte) {
	t.Helper()
	conn, err := amqp.Dial(addr)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	for _, body := range bodies {
		err := ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
			ContentType: "text/plain",
			Body:        body,
		})
		require.NoError(t, err)
	}
}

func startRabbitMQContainer(t *testing.T, ctx context.Context) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        rabbitImage,
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5672/tcp"),
			wait.ForLog("Server startup complete"),
		).WithDeadline(rabbitStartupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("start rabbitmq container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("resolve host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5672/tcp")
	if err != nil {
		t.Fatalf("resolve port: %v", err)
	}

	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, mappedPort.Port())
}
