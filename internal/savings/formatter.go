package savings

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// Uses English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// maxPrintable is the largest magnitude the printer can format as an int64.
//
//nolint:gochecknoglobals // Immutable bound derived once.
var maxPrintable = decimal.NewFromInt(math.MaxInt64)

// FormatDecimal rounds d to places and adds thousand separators.
// Example: FormatDecimal(1234.567, 2) returns "1,234.57".
func FormatDecimal(d decimal.Decimal, places int32) string {
	rounded := d.Round(places)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	fixed := rounded.StringFixed(places)
	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")

	var grouped string
	if rounded.LessThanOrEqual(maxPrintable) {
		grouped = printer.Sprintf("%d", rounded.IntPart())
	} else {
		grouped = groupThousands(intPart)
	}
	if !hasFrac {
		return sign + grouped
	}
	return sign + grouped + "." + fracPart
}

// groupThousands inserts a comma every three digits of an unsigned integer
// string. It covers figures beyond the int64 range.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatEUR formats an amount in euros, e.g. "68.76 €".
func FormatEUR(d decimal.Decimal) string {
	return FormatDecimal(d, 2) + " €"
}

// FormatKWh formats an energy figure, e.g. "14,400 kWh".
func FormatKWh(d decimal.Decimal, places int32) string {
	return FormatDecimal(d, places) + " kWh"
}

// FormatKg formats a mass in kilograms, e.g. "2,940 kg".
func FormatKg(d decimal.Decimal) string {
	return FormatDecimal(d, 0) + " kg"
}

// FormatPercent formats a savings percentage, or "n/a" when it is undefined.
func FormatPercent(p decimal.NullDecimal) string {
	if !p.Valid {
		return "n/a"
	}
	return p.Decimal.StringFixed(PercentagePlaces) + "%"
}

// FormatNullable formats an optional figure with format, or "-" when absent.
func FormatNullable(d decimal.NullDecimal, format func(decimal.Decimal) string) string {
	if !d.Valid {
		return "-"
	}
	return format(d.Decimal)
}

// Line is one labelled, formatted figure of an estimate.
type Line struct {
	Label string
	Value string

	// Saving marks money saved, which views highlight.
	Saving bool
}

// Lines returns the figures of e in display order. A nil estimate has none.
func (e *Estimate) Lines() []Line {
	if e == nil {
		return nil
	}

	switch {
	case e.Savings != nil:
		s := e.Savings
		return []Line{
			{Label: "Current bill", Value: FormatEUR(s.CurrentBill) + "/month"},
			{Label: "New bill", Value: FormatEUR(s.NewBill) + "/month"},
			{Label: "Monthly savings", Value: FormatEUR(s.MonthlySavings), Saving: true},
			{Label: "Annual savings", Value: FormatEUR(s.AnnualSavings), Saving: true},
			{Label: "Savings", Value: FormatPercent(s.Percentage)},
		}
	case e.Solar != nil:
		s := e.Solar
		return []Line{
			{Label: "Monthly production", Value: FormatNullable(s.MonthlyProductionKWh, formatWholeKWh)},
			{Label: "Annual production", Value: FormatKWh(s.AnnualProductionKWh, 0)},
			{Label: "Monthly savings", Value: FormatNullable(s.MonthlySavings, FormatEUR), Saving: true},
			{Label: "Annual savings", Value: FormatEUR(s.AnnualSavings), Saving: true},
			{Label: "CO2 avoided per year", Value: FormatNullable(s.CO2AvoidedKg, FormatKg)},
		}
	case e.Appliance != nil:
		return []Line{
			{Label: "Daily consumption", Value: FormatKWh(e.Appliance.DailyKWh, 2)},
			{Label: "Monthly consumption", Value: FormatKWh(e.Appliance.MonthlyKWh, 2)},
		}
	}
	return nil
}

func formatWholeKWh(d decimal.Decimal) string {
	return FormatKWh(d, 0)
}
