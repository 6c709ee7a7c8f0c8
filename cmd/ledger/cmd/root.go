// Package cmd provides the ledger CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/config"
	applog "ledger/internal/log"
	"ledger/internal/query"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	file        string
	backendName string
	debug       bool

	cfg     *config.Config
	logger  *applog.Logger
	backend *backend.BackendResult
	engine  *query.Engine
}

// NewRootCmd builds the command tree. Each call returns independent state.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ledger",
		Short: "Record income and expenses in a CSV ledger",
		Long: `ledger keeps a personal record of income and expense entries
in an append-only CSV file (or SQLite database) and reports on it.

Example:
  ledger add --date 10-01-2024 --amount 12.50 --category e --description lunch
  ledger filter --from 01-01-2024 --to 31-01-2024
  ledger balance`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.backend.Close()
		},
	}

	root.PersistentFlags().StringVarP(&a.file, "file", "f", "", "ledger file (default $LEDGER_CSV_PATH or finance_data.csv)")
	root.PersistentFlags().StringVar(&a.backendName, "backend", "",
		fmt.Sprintf("storage backend: %s (default $LEDGER_BACKEND or csv)", strings.Join(backend.GetBackendTypeStrings(), ", ")))
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newFilterCmd(a),
		newTotalsCmd(a),
		newBalanceCmd(a),
		newSummaryCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig(a.applyFlags)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg.LogLevel, cmd.ErrOrStderr())

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(a.logger).CreateBackend(cmd.Context(), bcfg)
	if err != nil {
		return err
	}
	a.backend = res
	a.engine = query.NewEngine(res.Store)
	return nil
}

// applyFlags lets command-line flags win over the environment.
func (a *app) applyFlags(cfg *config.Config) {
	if a.backendName != "" {
		cfg.Backend = a.backendName
	}
	if a.file != "" {
		switch cfg.Backend {
		case config.BackendSQLite:
			cfg.SQLitePath = a.file
		default:
			cfg.CSVPath = a.file
		}
	}
	if a.debug {
		cfg.LogLevel = "debug"
	}
}
