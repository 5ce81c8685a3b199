// Package export renders estimates as XLSX workbooks and PDF reports.
package export

import (
	"github.com/shopspring/decimal"

	"github.com/poupaenergia/poupa/internal/savings"
)

// Row is one estimate flattened for tabular output. Figures a strategy
// does not produce are left invalid and rendered empty.
type Row struct {
	Name                string
	Strategy            savings.Strategy
	MonthlySavings      decimal.NullDecimal
	AnnualSavings       decimal.NullDecimal
	Percentage          decimal.NullDecimal
	MonthlyKWh          decimal.NullDecimal
	AnnualProductionKWh decimal.NullDecimal
	CO2AvoidedKg        decimal.NullDecimal
	Error               string
}

// NewRow flattens est, or records err when the estimate failed.
func NewRow(name string, strategy savings.Strategy, est *savings.Estimate, err error) Row {
	row := Row{Name: name, Strategy: strategy}
	if err != nil {
		row.Error = err.Error()
		return row
	}
	if est == nil {
		return row
	}

	switch {
	case est.Savings != nil:
		row.MonthlySavings = valid(est.Savings.MonthlySavings)
		row.AnnualSavings = valid(est.Savings.AnnualSavings)
		row.Percentage = est.Savings.Percentage
	case est.Solar != nil:
		row.MonthlySavings = est.Solar.MonthlySavings
		row.AnnualSavings = valid(est.Solar.AnnualSavings)
		row.MonthlyKWh = est.Solar.MonthlyProductionKWh
		row.AnnualProductionKWh = valid(est.Solar.AnnualProductionKWh)
		row.CO2AvoidedKg = est.Solar.CO2AvoidedKg
	case est.Appliance != nil:
		row.MonthlyKWh = valid(est.Appliance.MonthlyKWh)
	}
	return row
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// column describes one exported column.
type column struct {
	title  string
	places int32
	value  func(Row) decimal.NullDecimal
}

// figureColumns are the numeric columns after Name and Strategy.
//
//nolint:gochecknoglobals // Read-only column layout shared by both writers.
var figureColumns = []column{
	{"Monthly savings (EUR)", 2, func(r Row) decimal.NullDecimal { return r.MonthlySavings }},
	{"Annual savings (EUR)", 2, func(r Row) decimal.NullDecimal { return r.AnnualSavings }},
	{"Savings (%)", 2, func(r Row) decimal.NullDecimal { return r.Percentage }},
	{"Monthly kWh", 2, func(r Row) decimal.NullDecimal { return r.MonthlyKWh }},
	{"Annual production (kWh)", 0, func(r Row) decimal.NullDecimal { return r.AnnualProductionKWh }},
	{"CO2 avoided (kg)", 0, func(r Row) decimal.NullDecimal { return r.CO2AvoidedKg }},
}
