// Command mqrelay consumes a RabbitMQ queue and relays each message body to stdout or MySQL.
//
// Configuration is read from the environment and an optional .env file:
// AMQP_ADDR, MYSQL_CONNECTION_URL (persist only), LOG_LEVEL and LOG_FORMAT.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

const (
	exitOK   = 0
	exitFail = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDeps())
	stop()
	os.Exit(code)
}
