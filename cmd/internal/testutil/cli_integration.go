//go:build integration

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/go-sql-driver/mysql"
)

const (
	mysqlImage           = "mysql:8.0.36"
	mysqlAlias           = "mysql"
	mysqlDatabase        = "relay"
	mysqlUser            = "root"
	mysqlPassword        = "secret"
	rabbitImage          = "rabbitmq:3.13-alpine"
	rabbitAlias          = "rabbitmq"
	cliContainerImage    = "alpine:3.20"
	cliContainerPath     = "/cli"
	cliExitTimeout       = 2 * time.Minute
	mysqlStartupTimeout  = 2 * time.Minute
	rabbitStartupTimeout = 2 * time.Minute
)

// Environment is a MySQL server and a RabbitMQ broker on a shared docker network.
// Host* fields are reachable from the test process, the others from containers on Network.
type Environment struct {
	Network      *testcontainers.DockerNetwork
	DB           *sql.DB
	MySQLURL     string
	AMQPAddr     string
	HostAMQPAddr string
}

// StartEnvironment starts MySQL and RabbitMQ. It skips the test when docker is unavailable.
func StartEnvironment(t *testing.T, ctx context.Context) Environment {
	t.Helper()

	net, err := network.New(ctx)
	if err != nil {
		t.Skipf("create network: %v", err)
	}
	t.Cleanup(func() {
		_ = net.Remove(ctx)
	})

	env := Environment{Network: net}
	env.DB, env.MySQLURL = startMySQL(t, ctx, net)
	env.HostAMQPAddr, env.AMQPAddr = startRabbitMQ(t, ctx, net)

	return env
}

func startMySQL(t *testing.T, ctx context.Context, net *testcontainers.DockerNetwork) (*sql.DB, string) {
	t.Helper()

	port := nat.Port("3306/tcp")
	req := testcontainers.ContainerRequest{
		Image:        mysqlImage,
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": mysqlPassword,
			"MYSQL_DATABASE":      mysqlDatabase,
		},
		Networks: []string{net.Name},
		NetworkAliases: map[string][]string{
			net.Name: {mysqlAlias},
		},
		WaitingFor: wait.ForSQL(port, "mysql", func(host string, port nat.Port) string {
			return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", mysqlUser, mysqlPassword, host, port.Port(), mysqlDatabase)
		}).WithStartupTimeout(mysqlStartupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("start mysql container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("resolve mysql host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("resolve mysql port: %v", err)
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", mysqlUser, mysqlPassword, host, mappedPort.Port(), mysqlDatabase)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, fmt.Sprintf("mysql://%s:%s@%s:3306/%s", mysqlUser, mysqlPassword, mysqlAlias, mysqlDatabase)
}

func startRabbitMQ(t *testing.T, ctx context.Context, net *testcontainers.DockerNetwork) (string, string) {
	t.Helper()

	port := nat.Port("5672/tcp")
	req := testcontainers.ContainerRequest{
		Image:        rabbitImage,
		ExposedPorts: []string{string(port)},
		Networks:     []string{net.Name},
		NetworkAliases: map[string][]string{
			net.Name: {rabbitAlias},
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(port),
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
		t.Fatalf("resolve rabbitmq host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("resolve rabbitmq port: %v", err)
	}

	hostAddr := fmt.Sprintf("amqp://guest:guest@%s:%s/", host, mappedPort.Port())
	// guest is limited to loopback by default, so containers use a dedicated user
	createBrokerUser(t, ctx, container)

	return hostAddr, fmt.Sprintf("amqp://relay:relay@%s:5672/", rabbitAlias)
}

func createBrokerUser(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	cmds := [][]string{
		{"rabbitmqctl", "add_user", "relay", "relay"},
		{"rabbitmqctl", "set_permissions", "-p", "/", "relay", ".*", ".*", ".*"},
	}
	for _, cmd := range cmds {
		code, out, err := container.Exec(ctx, cmd)
		if err != nil || code != 0 {
			var logs []byte
			if out != nil {
				logs, _ = io.ReadAll(out)
			}
			t.Fatalf("%v: exit %d: %v\n%s", cmd, code, err, logs)
		}
	}
}

// Publish sends bodies to queue through the default exchange, declaring the queue first.
func Publish(t *testing.T, ctx context.Context, addr, queue string, bodies ...[]byte) {
	t.Helper()

	conn, err := amqp.Dial(addr)
	if err != nil {
		t.Fatalf("dial broker: %v", err)
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, false, false, false, false, nil); err != nil {
		t.Fatalf("declare queue: %v", err)
	}
	for _, body := range bodies {
		if err := ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{Body: body}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
}

// ReadyMessages returns the number of messages waiting in queue.
func ReadyMessages(t *testing.T, addr, queue string) int {
	t.Helper()

	conn, err := amqp.Dial(addr)
	if err != nil {
		t.Fatalf("dial broker: %v", err)
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclarePassive(queue, false, false, false, false, nil)
	if err != nil {
		t.Fatalf("inspect queue: %v", err)
	}

	return q.Messages
}

// BuildBinary compiles pkg for linux and returns the binary path.
func BuildBinary(t *testing.T, pkg string) string {
	t.Helper()

	name := filepath.Base(pkg)
	if name == "." {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("resolve working dir: %v", err)
		}
		name = filepath.Base(wd)
	}
	bin := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", bin, pkg)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=0",
		"GOOS=linux",
		"GOARCH="+runtime.GOARCH,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build %s: %v\n%s", pkg, err, string(out))
	}

	return bin
}

// RunCLIContainer runs the binary on networkName with env and waits for it to exit.
func RunCLIContainer(
	t *testing.T,
	ctx context.Context,
	networkName, binaryPath string,
	args []string,
	env map[string]string,
) (int, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:      cliContainerImage,
		Entrypoint: []string{cliContainerPath},
		Cmd:        args,
		Env:        env,
		Networks:   []string{networkName},
		Files: []testcontainers.ContainerFile{
			{
				HostFilePath:      binaryPath,
				ContainerFilePath: cliContainerPath,
				FileMode:          0o755,
			},
		},
		WaitingFor: wait.ForExit().WithExitTimeout(cliExitTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start cli container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	logsReader, err := container.Logs(ctx)
	if err != nil {
		t.Fatalf("read cli logs: %v", err)
	}
	defer logsReader.Close()

	logs, err := io.ReadAll(logsReader)
	if err != nil {
		t.Fatalf("read cli logs: %v", err)
	}

	state, err := container.State(ctx)
	if err != nil {
		t.Fatalf("read cli state: %v", err)
	}

	return state.ExitCode, string(logs)
}
