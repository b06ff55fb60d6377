// Package cmd implements the esread command line.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
	"github.com/shogotsuneto/go-simple-eventsource/internal/config"
	"github.com/shogotsuneto/go-simple-eventsource/internal/logger"
	"github.com/shogotsuneto/go-simple-eventsource/postgres"
	"github.com/shogotsuneto/go-simple-eventsource/sqlite"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	output  string

	cfg    config.Config
	logger *zap.Logger
	db     *sql.DB
}

// NewRootCommand builds the esread command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{v: viper.New()})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "esread",
		Short: "Read event streams from a message store",
		Long: `esread reads the events of a stream from a PostgreSQL or SQLite message store,
either as a single batch (get) or as every event from a starting position (read).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.StringVarP(&a.output, "output", "o", "json", "output format (json|yaml)")
	flags.String("backend", config.BackendPostgres, "backend (postgres|sqlite)")
	flags.String("dsn", "", "connection string or SQLite database path")
	flags.String("table", postgres.DefaultTableName, "messages table")
	flags.Int("batch-size", eventsource.DefaultBatchSize, "records fetched per round trip")
	flags.Int64("position", 0, "starting position")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")

	a.v.BindPFlag(config.KeyBackend, flags.Lookup("backend"))
	a.v.BindPFlag(config.KeyDSN, flags.Lookup("dsn"))
	a.v.BindPFlag(config.KeyTable, flags.Lookup("table"))
	a.v.BindPFlag(config.KeyBatchSize, flags.Lookup("batch-size"))
	a.v.BindPFlag(config.KeyStartingPosition, flags.Lookup("position"))
	a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(newGetCommand(a), newReadCommand(a))

	return root
}

// Execute runs the esread command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if _, err := newPrinter(io.Discard, a.output); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = log

	return nil
}

// run wraps a subcommand so the logger and database are released even when
// it fails.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if closeErr := a.close(); err == nil {
				err = closeErr
			}
		}()
		return fn(cmd, args)
	}
}

func (a *app) close() error {
	if a.logger != nil {
		a.logger.Sync()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// session opens the configured backend and returns a Session over it.
func (a *app) session() (eventsource.Session, error) {
	switch a.cfg.Backend {
	case config.BackendPostgres:
		db, err := postgres.Open(postgres.Config{
			ConnectionString: a.cfg.DSN,
			TableName:        a.cfg.Table,
		})
		if err != nil {
			return nil, err
		}
		a.db = db
		return postgres.NewSession(db, a.cfg.Table)
	case config.BackendSQLite:
		db, err := sqlite.Open(a.cfg.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		return sqlite.NewSession(db, a.cfg.Table)
	default:
		return nil, fmt.Errorf("unknown backend %q", a.cfg.Backend)
	}
}

func (a *app) options() []eventsource.Option {
	return []eventsource.Option{
		eventsource.WithBatchSize(a.cfg.BatchSize),
		eventsource.WithLogger(a.logger),
	}
}
