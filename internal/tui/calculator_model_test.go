package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poupaenergia/poupa/internal/catalog"
	"github.com/poupaenergia/poupa/internal/proposal"
	"github.com/poupaenergia/poupa/internal/savings"
)

func newTestCalculator(t *testing.T, opts CalculatorOptions) *CalculatorModel {
	t.Helper()
	engine, err := savings.NewEngine(savings.DefaultTariffs())
	require.NoError(t, err)
	return NewCalculatorModel(context.Background(), engine, proposal.NewAcknowledger(), opts)
}

func typeText(m *CalculatorModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(m *CalculatorModel, k tea.KeyType) {
	m.Update(tea.KeyMsg{Type: k})
}

func TestNewCalculatorModel(t *testing.T) {
	t.Run("pristine form shows no result and no notice", func(t *testing.T) {
		m := newTestCalculator(t, CalculatorOptions{Strategy: savings.StrategyEnergy})

		assert.Equal(t, CalculatorStateEditing, m.State())
		assert.Nil(t, m.Estimate())
		assert.Empty(t, m.Notice())
		assert.Equal(t, []string{
			savings.FieldConsumption, savings.FieldCurrentRate,
			savings.FieldComparisonRate, savings.FieldPowerTier,
		}, m.fields)
		assert.Equal(t, catalog.ServiceEnergy, m.service)
	})

	t.Run("initial values compute immediately", func(t *testing.T) {
		m := newTestCalculator(t, CalculatorOptions{
			Strategy: savings.StrategyAppliance,
			Initial: map[string]string{
				savings.FieldPower: "100", savings.FieldHours: "2", savings.FieldDays: "20",
			},
		})

		require.NotNil(t, m.Estimate())
		assert.Equal(t, "4.00", m.Estimate().Appliance.MonthlyKWh.StringFixed(2))
	})
}

func TestCalculatorRecomputesOnEveryChange(t *testing.T) {
	m := newTestCalculator(t, CalculatorOptions{Strategy: savings.StrategyEnergy})

	typeText(m, "150")
	assert.Nil(t, m.Estimate())
	assert.Contains(t, m.Notice(), savings.ReasonRequired)

	press(m, tea.KeyTab)
	typeText(m, "0.1529")
	require.NotNil(t, m.Estimate())
	assert.Empty(t, m.Notice())
	assert.Equal(t, "5.73", m.Estimate().Savings.MonthlySavings.StringFixed(2))

	press(m, tea.KeyBackspace)
	require.NotNil(t, m.Estimate())
	assert.Equal(t, "0.152", m.Values()[savings.FieldCurrentRate])
}

func TestCalculatorInvalidInputClearsResult(t *testing.T) {
	m := newTestCalculator(t, CalculatorOptions{
		Strategy: savings.StrategyEnergy,
		Initial:  map[string]string{savings.FieldConsumption: "150", savings.FieldCurrentRate: "0.1529"},
	})
	require.NotNil(t, m.Estimate())

	typeText(m, "x")
	assert.Nil(t, m.Estimate())
	assert.Contains(t, m.Notice(), savings.ReasonNotNumber)
	assert.Contains(t, m.View(), savings.ReasonNotNumber)

	press(m, tea.KeyEsc)
	assert.Empty(t, m.Notice())
	assert.Nil(t, m.Estimate())

	press(m, tea.KeyBackspace)
	require.NotNil(t, m.Estimate())
}

func TestCalculatorDescriptiveFieldsAreFreeText(t *testing.T) {
	m := newTestCalculator(t, CalculatorOptions{
		Strategy: savings.StrategySolarBill,
		Initial:  map[string]string{savings.FieldConsumption: "300", savings.FieldBill: "60"},
	})
	require.Equal(t, []string{
		savings.FieldConsumption, savings.FieldBill,
		savings.FieldRoofArea, savings.FieldLocation, savings.FieldCustomerType,
	}, m.fields)

	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	typeText(m, "40 m²")
	assert.Equal(t, "40 m²", m.Values()[savings.FieldRoofArea])
	require.NotNil(t, m.Estimate())
	assert.Empty(t, m.Notice())
	assert.Equal(t, "504.00", m.Estimate().Solar.AnnualSavings.StringFixed(2))
}

func TestCalculatorFocusWraps(t *testing.T) {
	m := newTestCalculator(t, CalculatorOptions{Strategy: savings.StrategyAppliance})

	press(m, tea.KeyShiftTab)
	assert.Equal(t, 2, m.focused)
	press(m, tea.KeyTab)
	assert.Equal(t, 0, m.focused)

	press(m, tea.KeyEnter)
	assert.Equal(t, 1, m.focused)
	assert.Equal(t, CalculatorStateEditing, m.State())
}

func TestCalculatorProposalFlow(t *testing.T) {
	t.Run("energy asks for contact then acknowledges", func(t *testing.T) {
		m := newTestCalculator(t, CalculatorOptions{
			Strategy: savings.StrategySolarBill,
			Provider: "edp",
			Initial:  map[string]string{savings.FieldConsumption: "300", savings.FieldBill: "60"},
		})

		press(m, tea.KeyCtrlS)
		require.Equal(t, CalculatorStateContact, m.State())

		press(m, tea.KeyEnter)
		assert.Equal(t, CalculatorStateContact, m.State())
		assert.NotEmpty(t, m.Notice())

		press(m, tea.KeyEsc)
		assert.Empty(t, m.Notice())

		typeText(m, "ana@example.pt")
		press(m, tea.KeyEnter)
		require.Equal(t, CalculatorStateAcknowledged, m.State())
		ack := m.Acknowledgement()
		require.NotNil(t, ack)
		assert.Equal(t, proposal.ThankYouMessage, ack.Message)
		assert.Same(t, m.Estimate(), ack.Estimate)
		assert.Contains(t, m.View(), ack.Reference)

		press(m, tea.KeyEnter)
		assert.Equal(t, CalculatorStateEditing, m.State())
	})

	t.Run("telecom shows the sms instruction", func(t *testing.T) {
		m := newTestCalculator(t, CalculatorOptions{
			Strategy: savings.StrategyDiscount,
			Service:  catalog.ServiceTelecom,
			Provider: "meo",
		})

		press(m, tea.KeyCtrlS)
		require.Equal(t, CalculatorStateAcknowledged, m.State())
		assert.Equal(t, catalog.TelecomInstruction(), m.Acknowledgement().Message)
	})

	t.Run("esc leaves the contact form", func(t *testing.T) {
		m := newTestCalculator(t, CalculatorOptions{
			Strategy: savings.StrategyEnergy,
			Initial:  map[string]string{savings.FieldConsumption: "150", savings.FieldCurrentRate: "0.1529"},
		})
		press(m, tea.KeyCtrlS)
		require.Equal(t, CalculatorStateContact, m.State())
		press(m, tea.KeyEsc)
		assert.Equal(t, CalculatorStateEditing, m.State())
	})

	t.Run("invalid form is not submitted", func(t *testing.T) {
		m := newTestCalculator(t, CalculatorOptions{
			Strategy: savings.StrategySolarBill,
			Provider: "edp",
			Initial:  map[string]string{savings.FieldBill: "60"},
		})

		typeText(m, "abc")
		press(m, tea.KeyCtrlS)
		assert.Equal(t, CalculatorStateEditing, m.State())
		assert.Nil(t, m.Estimate())
		assert.Contains(t, m.Notice(), savings.ReasonNotNumber)

		typeText(m, "ana@example.pt")
		press(m, tea.KeyCtrlS)
		assert.Equal(t, CalculatorStateEditing, m.State())
		assert.Nil(t, m.Acknowledgement())
	})

	t.Run("pristine form reports the missing field on submit", func(t *testing.T) {
		m := newTestCalculator(t, CalculatorOptions{Strategy: savings.StrategyAppliance})

		press(m, tea.KeyCtrlS)
		assert.Equal(t, CalculatorStateEditing, m.State())
		assert.Contains(t, m.Notice(), savings.ReasonRequired)
	})
}

func TestCalculatorQuit(t *testing.T) {
	m := newTestCalculator(t, CalculatorOptions{Strategy: savings.StrategyEnergy})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, CalculatorStateQuitting, m.State())
	assert.Empty(t, m.View())
}
