package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/erazemk/lostmate/internal/config"
	"github.com/erazemk/lostmate/internal/db"
	"github.com/erazemk/lostmate/internal/logger"
)

// app carries what every subcommand needs once flags and env are resolved.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	var (
		driver   string
		dbPath   string
		dsn      string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:           "lostmate",
		Short:         "Community board for lost and found items",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := config.Load(func(c *config.Config) {
				if flags.Changed("driver") {
					c.DBDriver = driver
				}
				if flags.Changed("db") {
					c.DBPath = dbPath
				}
				if flags.Changed("dsn") {
					c.PostgresDSN = dsn
				}
				if flags.Changed("log-level") {
					c.LogLevel = logLevel
				}
			})
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New("lostmate", cfg.LogLevel)
			// Packages that log through zerolog/log get the same logger.
			log.Logger = a.log
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&driver, "driver", config.DriverSQLite, "database driver: sqlite or postgres (env LOSTMATE_DB_DRIVER)")
	pf.StringVarP(&dbPath, "db", "d", "lostmate.sqlite3", "SQLite database path (env LOSTMATE_DB_PATH)")
	pf.StringVar(&dsn, "dsn", "", "PostgreSQL connection string (env LOSTMATE_POSTGRES_DSN)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (env LOSTMATE_LOG_LEVEL)")

	rootCmd.AddCommand(newServeCmd(a), newItemsCmd(a), newResetCmd(a))
	return rootCmd
}

// openDatabase connects to the configured backend and makes sure the schema
// exists.
func (a *app) openDatabase(ctx context.Context) (*sql.DB, db.Dialect, error) {
	var (
		database *sql.DB
		dialect  db.Dialect
		err      error
	)
	switch a.cfg.DBDriver {
	case config.DriverPostgres:
		dialect = db.Postgres
		database, err = db.OpenPostgres(ctx, a.cfg.PostgresDSN)
	default:
		dialect = db.SQLite
		database, err = db.Open(a.cfg.DBPath)
	}
	if err != nil {
		return nil, "", err
	}

	if err := db.EnsureSchema(database, dialect); err != nil {
		database.Close()
		return nil, "", fmt.Errorf("ensuring schema: %w", err)
	}

	a.log.Info().Str("driver", string(dialect)).Msg("database ready")
	return database, dialect, nil
}
