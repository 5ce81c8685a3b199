package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/poupaenergia/poupa/internal/savings"
)

const (
	estimatesSheet = "estimates"
	tariffsSheet   = "tariffs"

	// Built-in excelize number formats.
	numFmtThousands2 = 4 // #,##0.00
	numFmtThousands0 = 3 // #,##0
)

// WriteXLSX writes rows to w as a workbook with an estimates sheet and a
// tariffs sheet recording the constants used.
func WriteXLSX(w io.Writer, rows []Row, tariffs savings.Tariffs, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", estimatesSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(tariffsSheet); err != nil {
		return fmt.Errorf("creating tariffs sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousands2})
	if err != nil {
		return err
	}
	whole, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousands0})
	if err != nil {
		return err
	}

	titles := []string{"Name", "Strategy"}
	for _, c := range figureColumns {
		titles = append(titles, c.title)
	}
	titles = append(titles, "Error")
	for i, title := range titles {
		if err = setCell(f, estimatesSheet, i+1, 1, title); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(titles), 1)
	if err = f.SetCellStyle(estimatesSheet, "A1", lastCol, header); err != nil {
		return err
	}

	for r, row := range rows {
		line := r + 2
		_ = setCell(f, estimatesSheet, 1, line, row.Name)
		_ = setCell(f, estimatesSheet, 2, line, row.Strategy.String())
		for c, col := range figureColumns {
			v := col.value(row)
			if !v.Valid {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+3, line)
			if err = f.SetCellValue(estimatesSheet, cell, v.Decimal.Round(col.places).InexactFloat64()); err != nil {
				return err
			}
			style := money
			if col.places == 0 {
				style = whole
			}
			_ = f.SetCellStyle(estimatesSheet, cell, cell, style)
		}
		if row.Error != "" {
			_ = setCell(f, estimatesSheet, len(titles), line, row.Error)
		}
	}

	if err = writeTariffs(f, tariffs, generatedAt, header); err != nil {
		return err
	}

	if err = f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeTariffs(f *excelize.File, t savings.Tariffs, generatedAt time.Time, header int) error {
	entries := []struct {
		name  string
		value any
	}{
		{"Generated", generatedAt.UTC().Format(time.RFC3339)},
		{"Comparison rate (EUR/kWh)", t.ComparisonRate},
		{"Flat discount", t.FlatDiscount},
		{"CO2 (kg/kWh)", t.CO2KgPerKWh},
		{"Production per panel pair (kWh/year)", t.ProductionPerPanelPair},
		{"Solar price (EUR/kWh)", t.SolarPricePerKWh},
		{"Solar production share", t.SolarProductionShare},
		{"Solar bill savings share", t.SolarBillSavingsShare},
	}

	if err := setCell(f, tariffsSheet, 1, 1, "Constant"); err != nil {
		return err
	}
	_ = setCell(f, tariffsSheet, 2, 1, "Value")
	_ = f.SetCellStyle(tariffsSheet, "A1", "B1", header)

	for i, e := range entries {
		if err := setCell(f, tariffsSheet, 1, i+2, e.name); err != nil {
			return err
		}
		if err := setCell(f, tariffsSheet, 2, i+2, e.value); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
