package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poupaenergia/poupa/internal/config"
	"github.com/poupaenergia/poupa/internal/savings"
)

// NewConfigValidateCmd creates "config validate".
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the effective configuration: the global file, the project
overlay and POUPA_* environment overrides.

This includes:
- the schema version
- tariff constants (non-negative, shares and discount at most 1)
- output format, log level and log format
- server address and batch concurrency`,
		Example: `  poupa config validate
  poupa config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the tariffs in effect")
	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")
	if verbose {
		printTariffs(cmd, cfg.Tariffs)
	}
	return nil
}

func printTariffs(cmd *cobra.Command, t savings.Tariffs) {
	cmd.Println()
	cmd.Println("Tariffs:")
	tw := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintf(tw, "  comparison_rate\t%g €/kWh\n", t.ComparisonRate)
	fmt.Fprintf(tw, "  flat_discount\t%g\n", t.FlatDiscount)
	fmt.Fprintf(tw, "  co2_kg_per_kwh\t%g\n", t.CO2KgPerKWh)
	fmt.Fprintf(tw, "  production_per_panel_pair\t%g kWh/year\n", t.ProductionPerPanelPair)
	fmt.Fprintf(tw, "  solar_price_per_kwh\t%g €/kWh\n", t.SolarPricePerKWh)
	fmt.Fprintf(tw, "  solar_production_share\t%g\n", t.SolarProductionShare)
	fmt.Fprintf(tw, "  solar_bill_savings_share\t%g\n", t.SolarBillSavingsShare)
	_ = tw.Flush()
}
