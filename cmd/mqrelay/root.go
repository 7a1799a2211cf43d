package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/velmie/mqrelay"
	"github.com/velmie/mqrelay/internal/config"
	"github.com/velmie/mqrelay/internal/logging"
	"github.com/velmie/mqrelay/mysql"
	"github.com/velmie/mqrelay/rabbitmq"
)

type deps struct {
	dial      func(addr string, opts ...rabbitmq.Option) (*rabbitmq.Client, error)
	connectDB func(ctx context.Context, url string) (*sql.DB, error)
}

func defaultDeps() deps {
	return deps{
		dial:      rabbitmq.Dial,
		connectDB: mysql.Connect,
	}
}

type app struct {
	deps    deps
	stdout  io.Writer
	stderr  io.Writer
	envFile string
	cfg     config.Config
	log     zerolog.Logger
	loaded  bool
}

// execute runs the command line and maps the outcome to a process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	a := &app{deps: d, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.report(err)

		return exitFail
	}

	return exitOK
}

// report writes the error that ended the run.
// Handler failures were already logged with their classification by the relay hook.
func (a *app) report(err error) {
	switch {
	case !a.loaded:
		fmt.Fprintln(a.stderr, "mqrelay:", err)
	case errors.Is(err, mqrelay.ErrHandle):
		a.log.Debug().Err(err).Msg("mqrelay failed")
	default:
		a.log.Error().Err(err).Msg("mqrelay failed")
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mqrelay",
		Short: "Relay RabbitMQ messages to stdout or MySQL",
		Long: fmt.Sprintf(`mqrelay consumes the %q queue as %q, acknowledges every delivery
and hands valid UTF-8 bodies to the selected handler.

Requires configuration through ENV or a .env file.`, config.QueueName, config.ConsumerTag),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.loadConfig()
		},
	}
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", config.DefaultEnvFile, "optional env file loaded before reading the environment")

	cmd.AddCommand(
		a.printCmd(),
		a.persistCmd(),
		a.schemaCmd(),
	)

	return cmd
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(a.stderr, cfg.LogLevel, cfg.LogFormat)
	a.loaded = true

	return nil
}

func (a *app) printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Write each message body to standard output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.relay(cmd.Context(), mqrelay.PrintHandler{W: a.stdout})
		},
	}
}

func (a *app) persistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "persist",
		Short: "Insert each message body into messages.body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.persist(cmd.Context())
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	var table, column string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the table definition expected by persist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := mysql.Schema(table, column)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), schema)

			return err
		},
	}
	cmd.Flags().StringVar(&table, "table", "messages", "table name")
	cmd.Flags().StringVar(&column, "column", "body", "text column name")

	return cmd
}

func (a *app) persist(ctx context.Context) error {
	if err := a.cfg.RequireMySQL(); err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, a.cfg.ConnectTimeout)
	db, err := a.deps.connectDB(connectCtx, a.cfg.MySQLConnectionURL)
	cancel()
	if err != nil {
		return err
	}
	defer db.Close()
	a.log.Info().Msg("connected to mysql")

	store, err := mysql.NewStore(db)
	if err != nil {
		return err
	}

	return a.relay(ctx, store)
}

func (a *app) relay(ctx context.Context, handler mqrelay.Handler) error {
	logger := logging.Adapter{Logger: a.log}

	client, err := a.deps.dial(
		a.cfg.AMQPAddr,
		rabbitmq.WithHeartbeat(a.cfg.Heartbeat),
		rabbitmq.WithPrefetch(a.cfg.Prefetch),
		rabbitmq.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close broker client")
		}
	}()

	if err := client.OpenChannel(); err != nil {
		return err
	}
	if _, err := client.DeclareQueue(config.QueueName); err != nil {
		return err
	}
	stream, err := client.Consume(config.QueueName, config.ConsumerTag)
	if err != nil {
		return err
	}

	counters := &logging.Counters{}
	defer counters.Report(a.log)

	relay := mqrelay.NewRelay(stream, handler,
		mqrelay.WithLogger(logger),
		mqrelay.WithMetrics(counters),
		mqrelay.WithErrorHandler(func(_ context.Context, d mqrelay.Delivery, err error) {
			a.log.Error().
				Err(err).
				Uint64("tag", d.Tag).
				Bool("constraint_violation", mysql.IsConstraintViolation(err)).
				Msg("handler failed")
		}),
	)

	return relay.Run(ctx)
}
