// Package cli provides the command-line interface for the structure
// tracker.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"b3-tracker/internal/config"
	"b3-tracker/internal/logging"
	"b3-tracker/internal/observe"
	"b3-tracker/internal/results"
	"b3-tracker/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Ledger store.Ledger
	Costs  results.CostConfig
}

// Tracer returns the trace hook for the core computations: the zerolog
// adapter in debug mode, a no-op otherwise.
func (a *App) Tracer() observe.Tracer {
	if a.Logger.GetLevel() <= zerolog.DebugLevel {
		return observe.ZerologTracer{Logger: a.Logger}
	}
	return observe.NopTracer{}
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	costs, err := cfg.CostConfig()
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid cost configuration, using defaults")
		costs = results.DefaultCostConfig()
	}
	app.Costs = costs

	ledger, err := store.NewSQLiteLedger(config.DefaultDBPath())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize ledger, some commands may be unavailable")
	} else {
		app.Ledger = ledger
		logger.Debug().Msg("SQLite ledger initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "b3-tracker",
		Short: "B3 structure tracker - multi-leg position P&L CLI",
		Long: `B3 structure tracker follows multi-leg option/stock structures,
classifies how each leg is covered by its siblings, and aggregates
realized profit, costs, and cumulative P&L series over the ledger.

Use 'b3-tracker help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/b3-tracker)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	addStructureCommands(rootCmd, app)
	addSummaryCommand(rootCmd, app)
	addSeriesCommand(rootCmd, app)
	addClassifyCommand(rootCmd, app)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("B3 structure tracker v%s\n", Version)
			}
		},
	}
}
