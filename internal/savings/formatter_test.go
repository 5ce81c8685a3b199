package savings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		places int32
		want   string
	}{
		{name: "rounds half up", value: "5.725", places: 2, want: "5.73"},
		{name: "thousands", value: "14400", places: 0, want: "14,400"},
		{name: "thousands with decimals", value: "1234.567", places: 2, want: "1,234.57"},
		{name: "pads decimals", value: "60", places: 2, want: "60.00"},
		{name: "negative", value: "-1234.5", places: 1, want: "-1,234.5"},
		{name: "negative rounding to zero", value: "-0.001", places: 2, want: "0.00"},
		{name: "beyond int64", value: "12345678901234567890.5", places: 1, want: "12,345,678,901,234,567,890.5"},
		{name: "beyond int64 negative", value: "-9223372036854775808000", places: 0, want: "-9,223,372,036,854,775,808,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDecimal(decimal.RequireFromString(tt.value), tt.places)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", groupThousands("0"))
	assert.Equal(t, "999", groupThousands("999"))
	assert.Equal(t, "1,000", groupThousands("1000"))
	assert.Equal(t, "123,456", groupThousands("123456"))
	assert.Equal(t, "1,234,567", groupThousands("1234567"))
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "68.76 €", FormatEUR(decimal.RequireFromString("68.76")))
	assert.Equal(t, "2,592.00 €", FormatEUR(decimal.NewFromInt(2592)))
	assert.Equal(t, "4.00 kWh", FormatKWh(decimal.NewFromInt(4), 2))
	assert.Equal(t, "1,260 kg", FormatKg(decimal.NewFromInt(1260)))
	assert.Equal(t, "24.98%", FormatPercent(decimal.NewNullDecimal(decimal.RequireFromString("24.98"))))
	assert.Equal(t, "n/a", FormatPercent(decimal.NullDecimal{}))
	assert.Equal(t, "-", FormatNullable(decimal.NullDecimal{}, FormatEUR))
	assert.Equal(t, "42.00 €", FormatNullable(decimal.NewNullDecimal(decimal.NewFromInt(42)), FormatEUR))
}

func TestEstimateLines(t *testing.T) {
	var nilEstimate *Estimate
	assert.Nil(t, nilEstimate.Lines())

	est := &Estimate{Solar: &SolarEstimate{
		MonthlyProductionKWh: decimal.NewNullDecimal(decimal.NewFromInt(210)),
		AnnualProductionKWh:  decimal.NewFromInt(2520),
		MonthlySavings:       decimal.NewNullDecimal(decimal.NewFromInt(42)),
		AnnualSavings:        decimal.NewFromInt(504),
		CO2AvoidedKg:         decimal.NewNullDecimal(decimal.NewFromInt(1260)),
	}}

	lines := est.Lines()
	require.Len(t, lines, 5)
	assert.Equal(t, Line{Label: "Monthly production", Value: "210 kWh"}, lines[0])
	assert.Equal(t, "2,520 kWh", lines[1].Value)
	assert.Equal(t, Line{Label: "Monthly savings", Value: "42.00 €", Saving: true}, lines[2])
	assert.Equal(t, "1,260 kg", lines[4].Value)

	appliance := &Estimate{Appliance: &ApplianceConsumption{
		DailyKWh:   decimal.RequireFromString("0.2"),
		MonthlyKWh: decimal.NewFromInt(4),
	}}
	assert.Equal(t, []Line{
		{Label: "Daily consumption", Value: "0.20 kWh"},
		{Label: "Monthly consumption", Value: "4.00 kWh"},
	}, appliance.Lines())
}
