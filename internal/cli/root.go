package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/poupaenergia/poupa/internal/config"
	"github.com/poupaenergia/poupa/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root command of the poupa CLI.
// It wires up project discovery, logging and tracing before any subcommand runs.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "poupa",
		Short:         "Savings estimates for energy, telecom and solar offers",
		Long:          "poupa: estimate what a household saves by switching provider or installing solar panels",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			startDir, err := os.Getwd()
			if err != nil {
				startDir = "."
			}
			config.SetResolvedProjectDir(config.ResolveProjectDir(cmd.Context(), projectDir, startDir))

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project configuration directory (default: nearest .poupa directory)")
	cmd.AddCommand(newEstimateCmd(), newCatalogCmd(), newProposalCmd(), NewServeCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Compare the current tariff against the reference offer
  poupa estimate energy --consumption 150 --current-rate 0.1529

  # Solar savings from the current bill
  poupa estimate solar --consumption 300 --bill 60

  # Evaluate a scenario file and export a spreadsheet
  poupa estimate batch --file scenarios.yaml --output xlsx --out-file estimates.xlsx

  # Open the interactive calculator
  poupa estimate energy --interactive

  # List energy providers
  poupa catalog providers --service energy

  # Serve the estimate API
  poupa serve --addr :8080`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
