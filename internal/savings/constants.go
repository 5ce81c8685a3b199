package savings

// Default tariff constants.
//
// These are the figures the public calculators were launched with. They are
// only defaults: every computation receives a Tariffs value explicitly so a
// deployment (or a test) can override any of them.
const (
	// DefaultComparisonRate is the competing offer in €/kWh.
	DefaultComparisonRate = 0.1147

	// DefaultFlatDiscount is the blanket discount fraction applied to a bill.
	DefaultFlatDiscount = 0.25

	// DefaultCO2KgPerKWh is the kg of CO2 avoided per kWh of solar production.
	DefaultCO2KgPerKWh = 0.5

	// DefaultProductionPerPanelPair is the annual kWh produced by two panels
	// (roughly 400 kWh per panel per year).
	DefaultProductionPerPanelPair = 800.0

	// DefaultSolarPricePerKWh is the €/kWh used to value solar production.
	DefaultSolarPricePerKWh = 0.18

	// DefaultSolarProductionShare is the share of monthly consumption a
	// bill-driven installation is assumed to cover.
	DefaultSolarProductionShare = 0.7

	// DefaultSolarBillSavingsShare is the share of the current bill a
	// bill-driven installation is assumed to save.
	DefaultSolarBillSavingsShare = 0.7
)

// Conversion constants.
const (
	// MonthsPerYear converts monthly figures to annual ones.
	MonthsPerYear = 12

	// WattsPerKilowatt converts appliance power to kW.
	WattsPerKilowatt = 1000

	// PercentMultiplier converts a fraction to a percentage.
	PercentMultiplier = 100

	// PanelsPerPair is the unit the panel-driven production factor is quoted in.
	PanelsPerPair = 2

	// PercentagePlaces is the number of decimals a savings percentage is rounded to.
	PercentagePlaces = 2
)

// Form field names understood by the engine.
const (
	FieldConsumption       = "consumption"
	FieldCurrentRate       = "current_rate"
	FieldComparisonRate    = "comparison_rate"
	FieldDiscount          = "discount"
	FieldPowerTier         = "power_tier"
	FieldPower             = "power"
	FieldHours             = "hours"
	FieldDays              = "days"
	FieldPanels            = "panels"
	FieldPricePerKWh       = "price_per_kwh"
	FieldProductionPerPair = "production_per_pair"
	FieldBill              = "bill"
	FieldRoofArea          = "roof_area"
	FieldLocation          = "location"
	FieldCustomerType      = "customer_type"
)
