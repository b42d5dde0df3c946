// =============================================================================
// Billing Ledger - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// one user action against the ledger.
//
// COBRA CLI STRUCTURE:
//   rootCmd (billing)
//   ├── clientCmd   (billing client add|list)
//   ├── billCmd     (billing bill add|list)
//   ├── productCmd  (billing product add)
//   ├── showCmd     (billing show)
//   ├── exportCmd   (billing export)
//   ├── templateCmd (billing template init)
//   ├── sessionCmd  (billing session)
//   └── versionCmd  (billing version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the YAML config (plus .env and BILLING_* overrides)
//   2. Applies the --ledger, --template and --output-dir flags on top
//   3. Sets up logging (--verbose forces debug)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/billing-ledger/internal/config"
	"github.com/ginjaninja78/billing-ledger/pkg/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// Flag overrides for the loaded configuration. Empty means "not set".
var (
	ledgerPath   string
	templatePath string
	outputDir    string
)

// cfg is the configuration in effect for the running command.
var cfg *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "billing",
	Short: "Billing Ledger - Track client bills and export them to spreadsheets",
	Long: `Billing Ledger keeps a small ledger of clients, their timestamped bills,
and the products on each bill. The ledger is stored as a CSV file (or an
optional SQLite database) and any bill can be exported into a copy of a
pre-formatted XLSX template.

The csv ledger only stores product rows, so new clients and bills are
created together with their products in one session:

  billing session <<'EOF'
  client add Acme
  bill add Acme "2024-01-01 10:00:00"
  product add Acme "2024-01-01 10:00:00" Widget 9.99
  EOF

After that, or at any time with ledger.backend set to sqlite:
  billing product add Acme "2024-01-01 10:00:00" Gadget 19.50
  billing show
  billing export Acme "2024-01-01 10:00:00"`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: loadConfig,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves the configuration and logging for every subcommand.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	if ledgerPath != "" {
		loaded.Ledger.Path = ledgerPath
	}
	if templatePath != "" {
		loaded.Export.TemplatePath = templatePath
	}
	if outputDir != "" {
		loaded.Export.OutputDir = outputDir
	}

	level := loaded.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Setup(level)

	slog.Debug("Configuration loaded",
		"config", cfgFile,
		"backend", loaded.Ledger.Backend,
		"ledger", loaded.Ledger.Path,
		"template", loaded.Export.TemplatePath)

	cfg = loaded
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "config.yaml", "Path to the configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	flags.StringVar(&ledgerPath, "ledger", "", "Ledger file (overrides ledger.path)")
	flags.StringVar(&templatePath, "template", "", "XLSX template (overrides export.template_path)")
	flags.StringVar(&outputDir, "output-dir", "", "Export directory (overrides export.output_dir)")
}
