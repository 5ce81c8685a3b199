package tui

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/poupaenergia/poupa/internal/savings"
)

func TestRenderEstimate(t *testing.T) {
	tests := []struct {
		name string
		est  *savings.Estimate
		want []string
	}{
		{
			name: "no result",
			est:  nil,
			want: []string{"Fill in the form"},
		},
		{
			name: "savings",
			est: &savings.Estimate{Savings: &savings.SavingsResult{
				CurrentBill:    decimal.RequireFromString("22.935"),
				NewBill:        decimal.RequireFromString("17.205"),
				MonthlySavings: decimal.RequireFromString("5.73"),
				AnnualSavings:  decimal.RequireFromString("68.76"),
				Percentage:     decimal.NewNullDecimal(decimal.RequireFromString("24.98")),
			}},
			want: []string{"5.73 €", "68.76 €", "24.98%"},
		},
		{
			name: "panel-driven solar hides monthly figures",
			est: &savings.Estimate{Solar: &savings.SolarEstimate{
				AnnualProductionKWh: decimal.NewFromInt(14400),
				AnnualSavings:       decimal.NewFromInt(2592),
			}},
			want: []string{"14,400 kWh", "2,592.00 €", "-"},
		},
		{
			name: "appliance",
			est: &savings.Estimate{Appliance: &savings.ApplianceConsumption{
				DailyKWh:   decimal.RequireFromString("0.2"),
				MonthlyKWh: decimal.NewFromInt(4),
			}},
			want: []string{"0.20 kWh", "4.00 kWh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderEstimate(tt.est)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestFieldLabel(t *testing.T) {
	assert.Equal(t, "Number of panels", fieldLabel(savings.FieldPanels))
	assert.Equal(t, "location", fieldLabel("location"))
}
