package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/poupaenergia/poupa/internal/catalog"
	"github.com/poupaenergia/poupa/internal/config"
	"github.com/poupaenergia/poupa/internal/proposal"
	"github.com/poupaenergia/poupa/internal/savings"
	"github.com/poupaenergia/poupa/internal/tui"
)

// outputParams are the rendering flags shared by the estimate subcommands.
type outputParams struct {
	Output  string
	OutFile string
}

// format returns the requested format, falling back to the configured default.
func (p outputParams) format() string {
	if p.Output != "" {
		return p.Output
	}
	return config.GetDefaultOutputFormat()
}

// fieldFlag binds a command-line flag to an engine form field. Flags are
// kept as raw strings so validation happens in the engine.
type fieldFlag struct {
	flag  string
	field string
	usage string
}

// EstimateParams holds the flags of one single-estimate subcommand.
// Exported for testing.
type EstimateParams struct {
	outputParams

	Interactive bool
	Service     string
	Provider    string
	Values      map[string]*string
}

// Fields returns the form fields of the flags the user set.
func (p *EstimateParams) Fields(cmd *cobra.Command, flags []fieldFlag) map[string]string {
	fields := make(map[string]string, len(flags))
	for _, f := range flags {
		if cmd.Flags().Changed(f.flag) {
			fields[f.field] = *p.Values[f.flag]
		}
	}
	return fields
}

// newEstimateCmd creates the estimate command group.
func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate savings",
		Long: `Estimate monthly and annual savings from consumption and billing figures.

Numbers accept a decimal point or a decimal comma (0.1529 or 0,1529).
Validation errors exit with status 2.`,
	}

	cmd.AddCommand(
		NewEstimateEnergyCmd(),
		NewEstimateDiscountCmd(),
		NewEstimateApplianceCmd(),
		NewEstimateSolarCmd(),
		NewEstimateBatchCmd(),
	)
	return cmd
}

//nolint:gochecknoglobals // Read-only flag table.
var energyFlags = []fieldFlag{
	{flag: "consumption", field: savings.FieldConsumption, usage: "monthly consumption in kWh"},
	{flag: "current-rate", field: savings.FieldCurrentRate, usage: "current tariff in €/kWh"},
	{flag: "comparison-rate", field: savings.FieldComparisonRate, usage: "competing tariff in €/kWh (default from config)"},
	{flag: "power-tier", field: savings.FieldPowerTier, usage: "contracted power in kVA (1.15 to 20.7)"},
}

//nolint:gochecknoglobals // Read-only flag table.
var discountFlags = []fieldFlag{
	{flag: "consumption", field: savings.FieldConsumption, usage: "monthly consumption in kWh"},
	{flag: "current-rate", field: savings.FieldCurrentRate, usage: "current tariff in €/kWh"},
	{flag: "discount", field: savings.FieldDiscount, usage: "discount fraction, e.g. 0.25 (default from config)"},
	{flag: "power-tier", field: savings.FieldPowerTier, usage: "contracted power in kVA (1.15 to 20.7)"},
}

//nolint:gochecknoglobals // Read-only flag table.
var applianceFlags = []fieldFlag{
	{flag: "power", field: savings.FieldPower, usage: "appliance power in watts"},
	{flag: "hours", field: savings.FieldHours, usage: "hours of use per day"},
	{flag: "days", field: savings.FieldDays, usage: "days of use per month"},
}

//nolint:gochecknoglobals // Read-only flag table.
var solarFlags = []fieldFlag{
	{flag: "panels", field: savings.FieldPanels, usage: "number of panels (4, 6, 8, 10, 12, 16, 20 or 24)"},
	{flag: "price", field: savings.FieldPricePerKWh, usage: "energy price in €/kWh (default from config)"},
	{flag: "production-per-pair", field: savings.FieldProductionPerPair, usage: "annual kWh per two panels (default from config)"},
	{flag: "consumption", field: savings.FieldConsumption, usage: "monthly consumption in kWh"},
	{flag: "bill", field: savings.FieldBill, usage: "current monthly bill in €"},
	{flag: "roof-area", field: savings.FieldRoofArea, usage: "available roof area, e.g. \"40 m²\" (informational)"},
	{flag: "location", field: savings.FieldLocation, usage: "installation location (informational)"},
	{flag: "customer-type", field: savings.FieldCustomerType, usage: "residential or business (informational)"},
}

// NewEstimateEnergyCmd creates "estimate energy": savings from switching to a competing rate.
func NewEstimateEnergyCmd() *cobra.Command {
	return newSingleEstimateCmd(
		"energy",
		"Savings from switching to a competing tariff",
		`  poupa estimate energy --consumption 150 --current-rate 0.1529
  poupa estimate energy --consumption 150 --current-rate 0,1529 --comparison-rate 0,1147 --output json`,
		energyFlags,
		func(*cobra.Command, map[string]string) savings.Strategy { return savings.StrategyEnergy },
	)
}

// NewEstimateDiscountCmd creates "estimate discount": a flat discount on the current bill.
func NewEstimateDiscountCmd() *cobra.Command {
	return newSingleEstimateCmd(
		"discount",
		"Savings from a flat discount on the current bill",
		`  poupa estimate discount --consumption 100 --current-rate 0.20
  poupa estimate discount --consumption 100 --current-rate 0.20 --discount 0.10`,
		discountFlags,
		func(*cobra.Command, map[string]string) savings.Strategy { return savings.StrategyDiscount },
	)
}

// NewEstimateApplianceCmd creates "estimate appliance": consumption of one appliance.
func NewEstimateApplianceCmd() *cobra.Command {
	return newSingleEstimateCmd(
		"appliance",
		"Monthly consumption of an appliance",
		`  poupa estimate appliance --power 100 --hours 2 --days 20`,
		applianceFlags,
		func(*cobra.Command, map[string]string) savings.Strategy { return savings.StrategyAppliance },
	)
}

// NewEstimateSolarCmd creates "estimate solar". With --panels it estimates
// production from the panel count; otherwise it works from the current bill.
func NewEstimateSolarCmd() *cobra.Command {
	return newSingleEstimateCmd(
		"solar",
		"Solar production and savings",
		`  # From a panel count
  poupa estimate solar --panels 8 --price 0.18 --production-per-pair 3600

  # From consumption and the current bill
  poupa estimate solar --consumption 300 --bill 60 --roof-area 40`,
		solarFlags,
		func(cmd *cobra.Command, _ map[string]string) savings.Strategy {
			if cmd.Flags().Changed("panels") {
				return savings.StrategySolarPanels
			}
			return savings.StrategySolarBill
		},
	)
}

func newSingleEstimateCmd(
	use, short, example string,
	flags []fieldFlag,
	strategyFor func(*cobra.Command, map[string]string) savings.Strategy,
) *cobra.Command {
	params := EstimateParams{Values: make(map[string]*string, len(flags))}

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields := params.Fields(cmd, flags)
			return runEstimate(cmd, &params, strategyFor(cmd, fields), fields)
		},
	}

	for _, f := range flags {
		params.Values[f.flag] = cmd.Flags().String(f.flag, "", f.usage)
	}
	addOutputFlags(cmd, &params.outputParams)
	cmd.Flags().BoolVar(&params.Interactive, "interactive", false, "open the interactive calculator")
	cmd.Flags().StringVar(&params.Service, "service", string(catalog.ServiceEnergy),
		"service used when requesting a proposal from the calculator (energy, telecom)")
	cmd.Flags().StringVar(&params.Provider, "provider", "", "current provider ID (see 'poupa catalog providers')")

	return cmd
}

func addOutputFlags(cmd *cobra.Command, p *outputParams) {
	cmd.Flags().StringVarP(&p.Output, "output", "o", "",
		"output format: table, json, ndjson, xlsx, pdf (default from config)")
	cmd.Flags().StringVar(&p.OutFile, "out-file", "", "file for xlsx/pdf output (default: export directory)")
}

func runEstimate(cmd *cobra.Command, params *EstimateParams, strategy savings.Strategy, fields map[string]string) error {
	ctx := cmd.Context()

	engine, err := newEngine()
	if err != nil {
		return err
	}

	if params.Interactive {
		service, parseErr := catalog.ParseService(params.Service)
		if parseErr != nil {
			return parseErr
		}
		return runCalculator(ctx, engine, tui.CalculatorOptions{
			Strategy: strategy,
			Service:  service,
			Provider: params.Provider,
			Initial:  fields,
		})
	}

	est, err := engine.Estimate(ctx, savings.Request{Strategy: strategy, Fields: fields})
	if err != nil {
		return err
	}
	warnUnfavourable(cmd, est)

	return renderEstimate(cmd, params.outputParams, est, engine.Tariffs())
}

// newEngine builds an engine from the effective configuration.
func newEngine() (*savings.Engine, error) {
	engine, err := savings.NewEngine(config.GetGlobalConfig().Tariffs)
	if err != nil {
		return nil, fmt.Errorf("loading tariffs: %w", err)
	}
	return engine, nil
}

// warnUnfavourable flags a comparison that costs more than the current tariff.
func warnUnfavourable(cmd *cobra.Command, est *savings.Estimate) {
	if est.Savings == nil || !est.Savings.MonthlySavings.IsNegative() {
		return
	}
	cmd.PrintErrf("Warning: the comparison offer is more expensive than the current tariff (%s/month more)\n",
		savings.FormatEUR(est.Savings.MonthlySavings.Neg()))
}

func runCalculator(ctx context.Context, engine *savings.Engine, opts tui.CalculatorOptions) error {
	if !isTerminal(os.Stdin) {
		return errors.New("--interactive requires a terminal")
	}

	model := tui.NewCalculatorModel(ctx, engine, proposal.NewAcknowledger(), opts)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running calculator: %w", err)
	}
	return nil
}
