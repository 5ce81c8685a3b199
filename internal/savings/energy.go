package savings

import "github.com/shopspring/decimal"

//nolint:gochecknoglobals // Immutable decimal constants.
var (
	decMonths  = decimal.NewFromInt(MonthsPerYear)
	decPercent = decimal.NewFromInt(PercentMultiplier)
	decOne     = decimal.NewFromInt(1)
)

// ComputeEnergySavings estimates the saving of switching to a competing rate.
//
//	currentBill = consumptionKWh × currentRate
//	newBill     = consumptionKWh × comparisonRate
//	monthly     = currentBill − newBill
//	annual      = monthly × 12
//	percentage  = monthly / currentBill × 100, rounded to 2 decimals
//
// The percentage is left invalid when the current bill is zero. The saving is
// non-negative whenever comparisonRate ≤ currentRate; the rule does not clamp
// it, choosing consistent rates is the caller's job.
//
// Example:
//
//	r, _ := ComputeEnergySavings(150, 0.1529, 0.1147)
//	// r.MonthlySavings = 5.73, r.AnnualSavings = 68.76, r.Percentage = 24.98
func ComputeEnergySavings(consumptionKWh, currentRate, comparisonRate float64) (SavingsResult, error) {
	if err := requireFinite(FieldConsumption, consumptionKWh); err != nil {
		return SavingsResult{}, err
	}
	if err := requireFinite(FieldCurrentRate, currentRate); err != nil {
		return SavingsResult{}, err
	}
	if err := requireFinite(FieldComparisonRate, comparisonRate); err != nil {
		return SavingsResult{}, err
	}

	consumption := decimal.NewFromFloat(consumptionKWh)
	currentBill := consumption.Mul(decimal.NewFromFloat(currentRate))
	newBill := consumption.Mul(decimal.NewFromFloat(comparisonRate))
	monthly := currentBill.Sub(newBill)

	return SavingsResult{
		CurrentBill:    currentBill,
		NewBill:        newBill,
		MonthlySavings: monthly,
		AnnualSavings:  monthly.Mul(decMonths),
		Percentage:     savingsPercentage(monthly, currentBill),
	}, nil
}

// ComputeFlatDiscountSavings estimates the saving of a blanket discount.
//
//	currentBill = consumptionKWh × currentRate
//	newBill     = currentBill × (1 − discountFraction)
//	monthly     = currentBill − newBill
//	annual      = monthly × 12
//	percentage  = discountFraction × 100
//
// The percentage is the configured discount, not a ratio recomputed from the
// bills, so it is defined even when the current bill is zero.
func ComputeFlatDiscountSavings(consumptionKWh, currentRate, discountFraction float64) (SavingsResult, error) {
	if err := requireFinite(FieldConsumption, consumptionKWh); err != nil {
		return SavingsResult{}, err
	}
	if err := requireFinite(FieldCurrentRate, currentRate); err != nil {
		return SavingsResult{}, err
	}
	if err := requireFinite(FieldDiscount, discountFraction); err != nil {
		return SavingsResult{}, err
	}

	discount := decimal.NewFromFloat(discountFraction)
	currentBill := decimal.NewFromFloat(consumptionKWh).Mul(decimal.NewFromFloat(currentRate))
	newBill := currentBill.Mul(decOne.Sub(discount))
	monthly := currentBill.Sub(newBill)

	return SavingsResult{
		CurrentBill:    currentBill,
		NewBill:        newBill,
		MonthlySavings: monthly,
		AnnualSavings:  monthly.Mul(decMonths),
		Percentage: decimal.NullDecimal{
			Decimal: discount.Mul(decPercent).Round(PercentagePlaces),
			Valid:   true,
		},
	}, nil
}

// savingsPercentage returns monthly/currentBill × 100 rounded to two places,
// or an invalid value when currentBill is zero.
func savingsPercentage(monthly, currentBill decimal.Decimal) decimal.NullDecimal {
	if currentBill.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{
		Decimal: monthly.Div(currentBill).Mul(decPercent).Round(PercentagePlaces),
		Valid:   true,
	}
}
