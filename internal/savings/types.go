// Package savings provides the savings estimation engine.
//
// It turns consumption and billing figures entered on a form into the
// savings shown to a visitor: monthly and annual savings, the savings
// percentage, solar production and the CO2 avoided. Every calculation is a
// pure function of its inputs and an explicit Tariffs value; the package
// keeps no state between calls.
//
// Monetary and energy figures are carried as decimal.Decimal so that the
// annual figure is always exactly twelve times the monthly one.
package savings

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Strategy names one of the calculation rules a caller can select.
//
// The rules are deliberately kept apart: different flows of the site use
// different ones and they do not agree numerically for the same inputs.
type Strategy string

const (
	// StrategyEnergy compares the current tariff against a competing rate.
	StrategyEnergy Strategy = "energy"

	// StrategyDiscount applies a flat discount to the current bill.
	StrategyDiscount Strategy = "discount"

	// StrategyAppliance estimates the monthly consumption of one appliance.
	StrategyAppliance Strategy = "appliance"

	// StrategySolarPanels estimates solar production from a panel count.
	StrategySolarPanels Strategy = "solar-panels"

	// StrategySolarBill estimates solar savings from consumption and the current bill.
	StrategySolarBill Strategy = "solar-bill"
)

// String returns the strategy name.
func (s Strategy) String() string { return string(s) }

// Strategies returns every supported strategy in display order.
func Strategies() []Strategy {
	return []Strategy{
		StrategyEnergy,
		StrategyDiscount,
		StrategyAppliance,
		StrategySolarPanels,
		StrategySolarBill,
	}
}

// ParseStrategy resolves a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// SavingsResult is the outcome of a provider-switch calculation.
type SavingsResult struct {
	// CurrentBill is the monthly bill at the current tariff (€).
	CurrentBill decimal.Decimal `json:"current_bill"`

	// NewBill is the monthly bill under the competing offer (€).
	NewBill decimal.Decimal `json:"new_bill"`

	// MonthlySavings is CurrentBill minus NewBill (€).
	MonthlySavings decimal.Decimal `json:"monthly_savings"`

	// AnnualSavings is always exactly MonthlySavings × 12 (€).
	AnnualSavings decimal.Decimal `json:"annual_savings"`

	// Percentage is the saving as a percentage of the current bill, rounded
	// to two decimals. It is not valid when the current bill is zero.
	Percentage decimal.NullDecimal `json:"percentage"`
}

// SolarEstimate is the outcome of a solar calculation.
//
// The panel-driven rule fills only the annual figures; the bill-driven rule
// fills every field.
type SolarEstimate struct {
	// MonthlyProductionKWh is the estimated monthly production.
	MonthlyProductionKWh decimal.NullDecimal `json:"monthly_production_kwh"`

	// AnnualProductionKWh is the estimated yearly production.
	AnnualProductionKWh decimal.Decimal `json:"annual_production_kwh"`

	// MonthlySavings is the estimated monthly saving (€).
	MonthlySavings decimal.NullDecimal `json:"monthly_savings"`

	// AnnualSavings is the estimated yearly saving (€).
	AnnualSavings decimal.Decimal `json:"annual_savings"`

	// CO2AvoidedKg is the CO2 avoided per year (kg).
	CO2AvoidedKg decimal.NullDecimal `json:"co2_avoided_kg"`
}

// ApplianceConsumption is the estimated consumption of one appliance.
type ApplianceConsumption struct {
	DailyKWh   decimal.Decimal `json:"daily_kwh"`
	MonthlyKWh decimal.Decimal `json:"monthly_kwh"`
}

// Estimate is the record handed to the view layer for one recalculation.
//
// Exactly one of Savings, Solar or Appliance is set, matching Strategy.
// A nil *Estimate means "no valid result".
type Estimate struct {
	Strategy  Strategy              `json:"strategy"`
	Inputs    map[string]float64    `json:"inputs"`
	Savings   *SavingsResult        `json:"savings,omitempty"`
	Solar     *SolarEstimate        `json:"solar,omitempty"`
	Appliance *ApplianceConsumption `json:"appliance,omitempty"`
}
