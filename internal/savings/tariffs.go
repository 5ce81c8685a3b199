package savings

import (
	"fmt"
	"math"
)

// Tariffs holds the constants every calculation is parameterised by.
//
// It is passed explicitly into the engine instead of living in package
// variables, so overriding a constant never affects another caller.
type Tariffs struct {
	// ComparisonRate is the competing offer in €/kWh.
	ComparisonRate float64 `yaml:"comparison_rate" json:"comparison_rate"`

	// FlatDiscount is the blanket discount fraction (0.25 = 25%).
	FlatDiscount float64 `yaml:"flat_discount" json:"flat_discount"`

	// CO2KgPerKWh is the CO2 offset factor.
	CO2KgPerKWh float64 `yaml:"co2_kg_per_kwh" json:"co2_kg_per_kwh"`

	// ProductionPerPanelPair is the annual kWh produced by two panels.
	ProductionPerPanelPair float64 `yaml:"production_per_panel_pair" json:"production_per_panel_pair"`

	// SolarPricePerKWh values solar production in €/kWh.
	SolarPricePerKWh float64 `yaml:"solar_price_per_kwh" json:"solar_price_per_kwh"`

	// SolarProductionShare is the share of consumption covered by solar.
	SolarProductionShare float64 `yaml:"solar_production_share" json:"solar_production_share"`

	// SolarBillSavingsShare is the share of the bill saved by solar.
	SolarBillSavingsShare float64 `yaml:"solar_bill_savings_share" json:"solar_bill_savings_share"`
}

// DefaultTariffs returns the launch constants.
func DefaultTariffs() Tariffs {
	return Tariffs{
		ComparisonRate:         DefaultComparisonRate,
		FlatDiscount:           DefaultFlatDiscount,
		CO2KgPerKWh:            DefaultCO2KgPerKWh,
		ProductionPerPanelPair: DefaultProductionPerPanelPair,
		SolarPricePerKWh:       DefaultSolarPricePerKWh,
		SolarProductionShare:   DefaultSolarProductionShare,
		SolarBillSavingsShare:  DefaultSolarBillSavingsShare,
	}
}

// Validate checks that every constant is finite and within range.
//
// Rates and factors must be non-negative; the discount and the two solar
// shares are fractions in [0, 1]. A comparison rate above a visitor's
// current rate is not an error here: it only yields a negative saving.
func (t Tariffs) Validate() error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"comparison_rate", t.ComparisonRate},
		{"co2_kg_per_kwh", t.CO2KgPerKWh},
		{"production_per_panel_pair", t.ProductionPerPanelPair},
		{"solar_price_per_kwh", t.SolarPricePerKWh},
	}
	for _, c := range nonNegative {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("tariff %s: %w", c.name, invalidNumber(c.name, "", ReasonNotFinite))
		}
		if c.value < 0 {
			return fmt.Errorf("tariff %s: %w", c.name, invalidNumber(c.name, "", ReasonNegative))
		}
	}

	fractions := []struct {
		name  string
		value float64
	}{
		{"flat_discount", t.FlatDiscount},
		{"solar_production_share", t.SolarProductionShare},
		{"solar_bill_savings_share", t.SolarBillSavingsShare},
	}
	for _, c := range fractions {
		if math.IsNaN(c.value) || c.value < 0 || c.value > 1 {
			return fmt.Errorf("tariff %s must be between 0 and 1, got %v", c.name, c.value)
		}
	}

	return nil
}
