package savings

import "github.com/shopspring/decimal"

// ComputeSolarEstimate estimates production from the number of panels.
//
//	annualProductionKWh = panelCount / 2 × productionPerPanelPair
//	annualSavings       = annualProductionKWh × pricePerKWh
//
// This is the panel-driven rule, used when the visitor picked a panel count.
//
// Example:
//
//	s, _ := ComputeSolarEstimate(8, 0.18, 3600)
//	// s.AnnualProductionKWh = 14400, s.AnnualSavings = 2592
func ComputeSolarEstimate(panelCount int, pricePerKWh, productionPerPanelPair float64) (SolarEstimate, error) {
	if panelCount < 0 {
		return SolarEstimate{}, invalidNumber(FieldPanels, decimal.NewFromInt(int64(panelCount)).String(), ReasonNegative)
	}
	if err := requireFinite(FieldPricePerKWh, pricePerKWh); err != nil {
		return SolarEstimate{}, err
	}
	if err := requireFinite(FieldProductionPerPair, productionPerPanelPair); err != nil {
		return SolarEstimate{}, err
	}

	pairs := decimal.NewFromInt(int64(panelCount)).Div(decimal.NewFromInt(PanelsPerPair))
	production := pairs.Mul(decimal.NewFromFloat(productionPerPanelPair))

	return SolarEstimate{
		AnnualProductionKWh: production,
		AnnualSavings:       production.Mul(decimal.NewFromFloat(pricePerKWh)),
	}, nil
}

// ComputeBillSolarEstimate estimates solar savings from consumption and the bill.
//
//	monthlyProduction = monthlyConsumptionKWh × SolarProductionShare
//	monthlySavings    = currentBill × SolarBillSavingsShare
//	annualSavings     = monthlySavings × 12
//	co2AvoidedKg      = monthlyProduction × 12 × CO2KgPerKWh
//
// This is the consumption/bill-driven rule, used when the visitor entered a
// consumption and a bill instead of a panel count. With the default tariffs
// both shares are 0.7 and the CO2 factor is 0.5.
func ComputeBillSolarEstimate(monthlyConsumptionKWh, currentBill float64, tariffs Tariffs) (SolarEstimate, error) {
	if err := requireFinite(FieldConsumption, monthlyConsumptionKWh); err != nil {
		return SolarEstimate{}, err
	}
	if err := requireFinite(FieldBill, currentBill); err != nil {
		return SolarEstimate{}, err
	}

	monthlyProduction := decimal.NewFromFloat(monthlyConsumptionKWh).
		Mul(decimal.NewFromFloat(tariffs.SolarProductionShare))
	annualProduction := monthlyProduction.Mul(decMonths)
	monthlySavings := decimal.NewFromFloat(currentBill).
		Mul(decimal.NewFromFloat(tariffs.SolarBillSavingsShare))

	return SolarEstimate{
		MonthlyProductionKWh: decimal.NullDecimal{Decimal: monthlyProduction, Valid: true},
		AnnualProductionKWh:  annualProduction,
		MonthlySavings:       decimal.NullDecimal{Decimal: monthlySavings, Valid: true},
		AnnualSavings:        monthlySavings.Mul(decMonths),
		CO2AvoidedKg: decimal.NullDecimal{
			Decimal: annualProduction.Mul(decimal.NewFromFloat(tariffs.CO2KgPerKWh)),
			Valid:   true,
		},
	}, nil
}
