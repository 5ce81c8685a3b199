package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/poupaenergia/poupa/internal/batch"
	"github.com/poupaenergia/poupa/internal/config"
	"github.com/poupaenergia/poupa/internal/export"
	"github.com/poupaenergia/poupa/internal/savings"
)

// Tabwriter settings shared by table renderers.
const (
	tabMinWidth = 0
	tabWidth    = 8
	tabPadding  = 2
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, ' ', 0)
}

// renderEstimate writes a single estimate in the requested format.
func renderEstimate(cmd *cobra.Command, p outputParams, est *savings.Estimate, tariffs savings.Tariffs) error {
	w := cmd.OutOrStdout()

	switch format := p.format(); format {
	case config.FormatTable:
		return writeEstimateTable(w, est)
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	case config.FormatNDJSON:
		return json.NewEncoder(w).Encode(est)
	case config.FormatXLSX, config.FormatPDF:
		rows := []export.Row{export.NewRow(est.Strategy.String(), est.Strategy, est, nil)}
		return writeExport(cmd, p.OutFile, format, est.Strategy.String(), rows, tariffs)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeEstimateTable(w io.Writer, est *savings.Estimate) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "STRATEGY\t%s\n", est.Strategy)
	for _, line := range est.Lines() {
		fmt.Fprintf(tw, "%s\t%s\n", line.Label, line.Value)
	}
	return tw.Flush()
}

// batchOutput is the JSON shape of one scenario result.
type batchOutput struct {
	Name     string            `json:"name"`
	Strategy savings.Strategy  `json:"strategy"`
	Estimate *savings.Estimate `json:"estimate,omitempty"`
	Error    string            `json:"error,omitempty"`
	Field    string            `json:"field,omitempty"`
	Reason   string            `json:"reason,omitempty"`
}

func newBatchOutput(r batch.Result) batchOutput {
	out := batchOutput{Name: r.Scenario.Name, Strategy: r.Scenario.Strategy, Estimate: r.Estimate}
	if r.Err != nil {
		out.Error = r.Err.Error()
		var invalid *savings.InvalidNumberError
		if errors.As(r.Err, &invalid) {
			out.Field = invalid.Field
			out.Reason = invalid.Reason
		}
	}
	return out
}

// renderBatch writes batch results in the requested format.
func renderBatch(cmd *cobra.Command, p outputParams, results []batch.Result, tariffs savings.Tariffs) error {
	w := cmd.OutOrStdout()

	switch format := p.format(); format {
	case config.FormatTable:
		return writeBatchTable(w, results)
	case config.FormatJSON:
		out := make([]batchOutput, 0, len(results))
		for _, r := range results {
			out = append(out, newBatchOutput(r))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case config.FormatNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range results {
			if err := enc.Encode(newBatchOutput(r)); err != nil {
				return err
			}
		}
		return nil
	case config.FormatXLSX, config.FormatPDF:
		rows := make([]export.Row, 0, len(results))
		for _, r := range results {
			rows = append(rows, export.NewRow(r.Scenario.Name, r.Scenario.Strategy, r.Estimate, r.Err))
		}
		return writeExport(cmd, p.OutFile, format, "batch", rows, tariffs)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeBatchTable(w io.Writer, results []batch.Result) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "NAME\tSTRATEGY\tMONTHLY\tANNUAL\tSAVINGS\tERROR")
	for _, r := range results {
		row := export.NewRow(r.Scenario.Name, r.Scenario.Strategy, r.Estimate, r.Err)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Name,
			row.Strategy,
			savings.FormatNullable(row.MonthlySavings, savings.FormatEUR),
			savings.FormatNullable(row.AnnualSavings, savings.FormatEUR),
			batchPercent(row),
			row.Error,
		)
	}
	return tw.Flush()
}

// batchPercent shows the savings percentage for savings rows and "-" elsewhere.
func batchPercent(row export.Row) string {
	if row.Error != "" || (row.Strategy != savings.StrategyEnergy && row.Strategy != savings.StrategyDiscount) {
		return "-"
	}
	return savings.FormatPercent(row.Percentage)
}

// writeExport writes rows to outFile, or to a timestamped file in the
// export directory.
func writeExport(cmd *cobra.Command, outFile, format, stem string, rows []export.Row, tariffs savings.Tariffs) error {
	now := time.Now()

	path := outFile
	if path == "" {
		dir, err := config.GetExportDir()
		if err != nil {
			return fmt.Errorf("resolving export directory: %w", err)
		}
		path = filepath.Join(dir, fmt.Sprintf("poupa-%s-%s.%s", stem, now.Format("20060102-150405"), format))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if strings.EqualFold(format, config.FormatXLSX) {
		err = export.WriteXLSX(f, rows, tariffs, now)
	} else {
		err = export.WritePDF(f, rows, tariffs, now)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Info().Ctx(cmd.Context()).Str("path", path).Str("format", format).Int("rows", len(rows)).Msg("export written")
	cmd.Printf("Exported %d estimate(s) to %s\n", len(rows), path)
	return nil
}
