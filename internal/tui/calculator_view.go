package tui

import (
	"fmt"
	"strings"

	"github.com/poupaenergia/poupa/internal/savings"
)

const labelWidth = 26

// fieldLabels are the form labels shown next to each input.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fieldLabels = map[string]string{
	savings.FieldConsumption:       "Monthly consumption (kWh)",
	savings.FieldCurrentRate:       "Current rate (€/kWh)",
	savings.FieldComparisonRate:    "Comparison rate (€/kWh)",
	savings.FieldDiscount:          "Discount (fraction)",
	savings.FieldPowerTier:         "Contracted power (kVA)",
	savings.FieldPower:             "Appliance power (W)",
	savings.FieldHours:             "Hours per day",
	savings.FieldDays:              "Days per month",
	savings.FieldPanels:            "Number of panels",
	savings.FieldPricePerKWh:       "Energy price (€/kWh)",
	savings.FieldProductionPerPair: "kWh/year per 2 panels",
	savings.FieldBill:              "Current monthly bill (€)",
	savings.FieldRoofArea:          "Roof area",
	savings.FieldLocation:          "Location",
	savings.FieldCustomerType:      "Customer type",
}

func fieldLabel(name string) string {
	if l, ok := fieldLabels[name]; ok {
		return l
	}
	return name
}

func fieldPlaceholder(name string) string {
	switch name {
	case savings.FieldPowerTier:
		return "6.9"
	case savings.FieldPanels:
		return "8"
	case savings.FieldComparisonRate:
		return fmt.Sprintf("%g", savings.DefaultComparisonRate)
	case savings.FieldDiscount:
		return fmt.Sprintf("%g", savings.DefaultFlatDiscount)
	case savings.FieldRoofArea:
		return "40 m²"
	case savings.FieldLocation:
		return "Lisboa"
	case savings.FieldCustomerType:
		return "residential"
	default:
		return "0"
	}
}

//nolint:gochecknoglobals // Read-only lookup table.
var strategyTitles = map[savings.Strategy]string{
	savings.StrategyEnergy:      "Energy Savings Calculator",
	savings.StrategyDiscount:    "Energy Discount Calculator",
	savings.StrategyAppliance:   "Appliance Consumption Calculator",
	savings.StrategySolarPanels: "Solar Production Calculator",
	savings.StrategySolarBill:   "Solar Savings Calculator",
}

// View implements tea.Model.
func (m *CalculatorModel) View() string {
	if m.state == CalculatorStateQuitting {
		return ""
	}

	var sb strings.Builder
	title := strategyTitles[m.strategy]
	if title == "" {
		title = m.strategy.String()
	}
	sb.WriteString(TitleStyle.Render(title))
	sb.WriteString("\n\n")

	switch m.state {
	case CalculatorStateContact:
		sb.WriteString(m.renderContact())
	case CalculatorStateAcknowledged:
		sb.WriteString(AcknowledgementStyle.Render(m.ack.Message))
		sb.WriteString("\n")
		sb.WriteString(LabelStyle.Render("Reference: "))
		sb.WriteString(ValueStyle.Render(m.ack.Reference))
		sb.WriteString("\n\n")
		sb.WriteString(HelpStyle.Render("enter back to the calculator • ctrl+c quit"))
		return sb.String()
	default:
		sb.WriteString(m.renderForm())
		sb.WriteString("\n")
		sb.WriteString(RenderEstimate(m.estimate))
	}

	if m.notice != "" {
		sb.WriteString("\n\n")
		sb.WriteString(NotificationStyle.Render(m.notice))
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m *CalculatorModel) renderForm() string {
	var sb strings.Builder
	for i, name := range m.fields {
		label := fmt.Sprintf("%-*s", labelWidth, fieldLabel(name))
		if i == m.focused {
			sb.WriteString(FocusStyle.Render("> " + label))
		} else {
			sb.WriteString(LabelStyle.Render("  " + label))
		}
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *CalculatorModel) renderContact() string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("Request a proposal"))
	sb.WriteString("\n")
	sb.WriteString(HelpStyle.Render("Leave an email or a phone number and we will contact you."))
	sb.WriteString("\n\n")
	for i, label := range []string{"Email", "Phone"} {
		padded := fmt.Sprintf("%-*s", labelWidth, label)
		if i == m.contactFocus {
			sb.WriteString(FocusStyle.Render("> " + padded))
		} else {
			sb.WriteString(LabelStyle.Render("  " + padded))
		}
		sb.WriteString(m.contact[i].View())
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderEstimate renders the result panel. A nil estimate renders a
// placeholder instead of stale figures.
func RenderEstimate(est *savings.Estimate) string {
	if est == nil {
		return HelpStyle.Render("Fill in the form to see your estimate.")
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("ESTIMATE"))
	for _, line := range est.Lines() {
		sb.WriteString("\n")
		sb.WriteString(LabelStyle.Render(fmt.Sprintf("  %-*s", labelWidth, line.Label)))
		if line.Saving {
			sb.WriteString(SavingStyle.Render(line.Value))
		} else {
			sb.WriteString(ValueStyle.Render(line.Value))
		}
	}
	return sb.String()
}
