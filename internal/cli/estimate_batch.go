package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poupaenergia/poupa/internal/batch"
	"github.com/poupaenergia/poupa/internal/config"
)

// BatchParams holds the flags of "estimate batch". Exported for testing.
type BatchParams struct {
	outputParams

	File        string
	Concurrency int
}

// NewEstimateBatchCmd creates "estimate batch", which evaluates every
// scenario of a YAML file.
func NewEstimateBatchCmd() *cobra.Command {
	var params BatchParams

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate a file of scenarios",
		Long: `Evaluate every scenario of a YAML file concurrently.

The file lists named form submissions:

  scenarios:
    - name: casa
      strategy: energy
      fields:
        consumption: "150"
        current_rate: "0,1529"

A scenario with invalid input is reported in the output and does not stop
the others.`,
		Example: `  poupa estimate batch --file scenarios.yaml
  poupa estimate batch --file scenarios.yaml --output pdf --out-file report.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEstimateBatch(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.File, "file", "f", "", "scenario file (YAML)")
	cmd.Flags().IntVar(&params.Concurrency, "concurrency", 0, "scenarios evaluated at once (default from config)")
	addOutputFlags(cmd, &params.outputParams)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runEstimateBatch(cmd *cobra.Command, params BatchParams) error {
	ctx := cmd.Context()

	if params.Concurrency < 0 {
		return fmt.Errorf("--concurrency must be >= 0, got %d", params.Concurrency)
	}
	concurrency := params.Concurrency
	if concurrency == 0 {
		concurrency = config.GetGlobalConfig().Batch.Concurrency
	}

	scenarios, err := batch.LoadFile(params.File)
	if err != nil {
		return err
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	runner := batch.NewRunner(engine, concurrency).WithProgressCallback(func(s batch.ProgressSnapshot) {
		logger.Debug().Ctx(ctx).
			Int("completed", s.Completed).
			Int("total", s.Total).
			Float64("percent", s.PercentComplete).
			Msg("batch progress")
	})

	// A cancelled run still returns the results gathered so far.
	results, runErr := runner.Run(ctx, scenarios)
	if results == nil {
		return runErr
	}

	if renderErr := renderBatch(cmd, params.outputParams, results, engine.Tariffs()); renderErr != nil {
		return renderErr
	}

	sum := batch.Summarize(results)
	if sum.Invalid > 0 || sum.Failed > 0 {
		cmd.PrintErrf("%d of %d scenarios could not be estimated\n", sum.Invalid+sum.Failed, sum.Total)
	}
	return runErr
}
