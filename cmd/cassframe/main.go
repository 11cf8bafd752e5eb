package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/saltyorg/cassframe/internal/config"
	"github.com/saltyorg/cassframe/internal/database"
	"github.com/saltyorg/cassframe/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	verbosity  int
	logFile    string
	ledgerPath string

	host     string
	port     int
	user     string
	password string
	keyspace string
)

// app carries what every command needs once flags and env are resolved.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	closeLog io.Closer
}

var cli = &app{log: zerolog.Nop()}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, newRootCmd())
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run executes the command tree. The log file is closed afterwards even
// when the command fails, since cobra skips post-run hooks on error.
func run(ctx context.Context, cmd *cobra.Command) error {
	defer cli.closeLogger()

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		cli.log.Error().Err(err).Msg("Command failed")
	}
	return err
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cassframe",
		Short: "cassframe - Cassandra result sets as tables and files",
		Long: `cassframe runs CQL queries against a Cassandra cluster, exports the results as
parquet or CSV, applies profile and work history transforms to exported
tables, and encodes passwords for use in configuration.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	flags.StringVar(&logFile, "log-file", "", "Rotating log file (or set CASSFRAME_LOG_FILE)")
	flags.StringVar(&ledgerPath, "ledger", "", "SQLite export ledger path (or set CASSFRAME_LEDGER_PATH)")

	// Connection flags
	flags.StringVarP(&host, "host", "H", "", "Cassandra contact point (or set CASSFRAME_HOST)")
	flags.IntVarP(&port, "port", "p", 0, "Cassandra native protocol port (or set CASSFRAME_PORT)")
	flags.StringVarP(&user, "user", "u", "", "Cassandra user (or set CASSFRAME_USER)")
	flags.StringVar(&password, "password", "", "Base64 encoded password, see 'cassframe encode' (or set CASSFRAME_PASSWORD)")
	flags.StringVarP(&keyspace, "keyspace", "k", "", "Keyspace to query (or set CASSFRAME_KEYSPACE)")

	rootCmd.AddCommand(
		newEncodeCmd(),
		newQueryCmd(),
		newTransformCmd(),
		newHistoryCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "cassframe %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	return rootCmd
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Cassandra.Host = host
	}
	if flags.Changed("port") {
		cfg.Cassandra.Port = port
	}
	if flags.Changed("user") {
		cfg.Cassandra.User = user
	}
	if flags.Changed("password") {
		cfg.Cassandra.Password = password
	}
	if flags.Changed("keyspace") {
		cfg.Cassandra.Keyspace = keyspace
	}
	if flags.Changed("ledger") {
		cfg.LedgerPath = ledgerPath
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	cfg.Sanitize()
	if cfg.LogFile == "" {
		cfg.LogFile = logging.FilePathForLedger(cfg.LedgerPath)
	}

	opts := logging.DefaultOptions()
	opts.Verbosity = verbosity
	opts.FilePath = cfg.LogFile
	opts.Console = cmd.ErrOrStderr()

	cli.cfg = cfg
	cli.log, cli.closeLog = logging.New(opts)
	cli.log.Debug().Str("command", cmd.CommandPath()).Str("version", version).Msg("Starting cassframe")
	return nil
}

func (a *app) closeLogger() {
	if a.closeLog != nil {
		_ = a.closeLog.Close()
		a.closeLog = nil
	}
	a.log = zerolog.Nop()
}

// openLedger opens and migrates the export ledger.
func (a *app) openLedger() (*database.DB, error) {
	db, err := database.New(a.cfg.LedgerPath, a.log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate ledger: %w", err)
	}
	return db, nil
}
