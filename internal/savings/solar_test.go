package savings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSolarEstimate(t *testing.T) {
	tests := []struct {
		name           string
		panels         int
		price          float64
		perPair        float64
		wantProduction string
		wantSavings    string
	}{
		{
			name:           "eight panels at 3600 per pair",
			panels:         8,
			price:          0.18,
			perPair:        3600,
			wantProduction: "14400",
			wantSavings:    "2592.00",
		},
		{
			name:           "default production factor",
			panels:         10,
			price:          DefaultSolarPricePerKWh,
			perPair:        DefaultProductionPerPanelPair,
			wantProduction: "4000",
			wantSavings:    "720.00",
		},
		{
			name:           "no panels",
			panels:         0,
			price:          0.18,
			perPair:        800,
			wantProduction: "0",
			wantSavings:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSolarEstimate(tt.panels, tt.price, tt.perPair)
			require.NoError(t, err)

			assert.Equal(t, tt.wantProduction, got.AnnualProductionKWh.String())
			assert.Equal(t, tt.wantSavings, got.AnnualSavings.StringFixed(2))
			assert.False(t, got.MonthlyProductionKWh.Valid)
			assert.False(t, got.MonthlySavings.Valid)
			assert.False(t, got.CO2AvoidedKg.Valid)
		})
	}
}

func TestComputeSolarEstimate_NegativePanels(t *testing.T) {
	_, err := ComputeSolarEstimate(-2, 0.18, 800)

	var invalid *InvalidNumberError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, FieldPanels, invalid.Field)
	assert.Equal(t, ReasonNegative, invalid.Reason)
}

func TestComputeBillSolarEstimate(t *testing.T) {
	got, err := ComputeBillSolarEstimate(300, 60, DefaultTariffs())
	require.NoError(t, err)

	require.True(t, got.MonthlyProductionKWh.Valid)
	assert.Equal(t, "210.0", got.MonthlyProductionKWh.Decimal.StringFixed(1))
	assert.Equal(t, "2520.0", got.AnnualProductionKWh.StringFixed(1))
	require.True(t, got.MonthlySavings.Valid)
	assert.Equal(t, "42.00", got.MonthlySavings.Decimal.StringFixed(2))
	assert.Equal(t, "504.00", got.AnnualSavings.StringFixed(2))
	require.True(t, got.CO2AvoidedKg.Valid)
	assert.Equal(t, "1260.0", got.CO2AvoidedKg.Decimal.StringFixed(1))
}

func TestComputeBillSolarEstimate_OverriddenTariffs(t *testing.T) {
	tariffs := DefaultTariffs()
	tariffs.SolarProductionShare = 0.5
	tariffs.SolarBillSavingsShare = 0.5
	tariffs.CO2KgPerKWh = 1

	got, err := ComputeBillSolarEstimate(100, 40, tariffs)
	require.NoError(t, err)

	assert.Equal(t, "50", got.MonthlyProductionKWh.Decimal.String())
	assert.Equal(t, "20", got.MonthlySavings.Decimal.String())
	assert.Equal(t, "600", got.CO2AvoidedKg.Decimal.String())
}
