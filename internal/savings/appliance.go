package savings

import "github.com/shopspring/decimal"

// ComputeApplianceConsumption estimates the monthly consumption of an appliance.
//
//	daily   = powerWatts × hoursPerDay / 1000
//	monthly = daily × daysPerMonth
//
// All three inputs must be finite and non-negative; otherwise an
// *InvalidNumberError names the offending input. A negative power or usage
// would otherwise produce a negative consumption.
//
// Example:
//
//	c, _ := ComputeApplianceConsumption(100, 2, 20)
//	// c.DailyKWh = 0.2, c.MonthlyKWh = 4
func ComputeApplianceConsumption(powerWatts, hoursPerDay, daysPerMonth float64) (ApplianceConsumption, error) {
	if err := requireNonNegative(FieldPower, powerWatts); err != nil {
		return ApplianceConsumption{}, err
	}
	if err := requireNonNegative(FieldHours, hoursPerDay); err != nil {
		return ApplianceConsumption{}, err
	}
	if err := requireNonNegative(FieldDays, daysPerMonth); err != nil {
		return ApplianceConsumption{}, err
	}

	daily := decimal.NewFromFloat(powerWatts).
		Mul(decimal.NewFromFloat(hoursPerDay)).
		Div(decimal.NewFromInt(WattsPerKilowatt))

	return ApplianceConsumption{
		DailyKWh:   daily,
		MonthlyKWh: daily.Mul(decimal.NewFromFloat(daysPerMonth)),
	}, nil
}
