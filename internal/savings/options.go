package savings

import (
	"math"
	"strconv"
)

// PowerTier is a contracted power level in kVA.
type PowerTier float64

// String renders the tier as shown on the form, e.g. "6.9 kVA".
func (p PowerTier) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64) + " kVA"
}

// PowerTiers returns the contracted power tiers offered on the form.
func PowerTiers() []PowerTier {
	return []PowerTier{1.15, 2.3, 3.45, 4.6, 5.75, 6.9, 10.35, 13.8, 17.25, 20.7}
}

// ParsePowerTier validates a raw power tier against PowerTiers.
func ParsePowerTier(raw string) (PowerTier, error) {
	v, err := ParseNumber(FieldPowerTier, raw)
	if err != nil {
		return 0, err
	}
	for _, tier := range PowerTiers() {
		if float64(tier) == v {
			return tier, nil
		}
	}
	return 0, invalidNumber(FieldPowerTier, raw, ReasonUnsupportedTier)
}

// PanelCounts returns the panel counts offered on the solar form.
func PanelCounts() []int {
	return []int{4, 6, 8, 10, 12, 16, 20, 24}
}

// ParsePanelCount validates a raw panel count against PanelCounts.
func ParsePanelCount(raw string) (int, error) {
	v, err := ParseNumber(FieldPanels, raw)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, invalidNumber(FieldPanels, raw, ReasonNegative)
	}
	if v != math.Trunc(v) {
		return 0, invalidNumber(FieldPanels, raw, ReasonNotInteger)
	}
	for _, n := range PanelCounts() {
		if float64(n) == v {
			return n, nil
		}
	}
	return 0, invalidNumber(FieldPanels, raw, ReasonUnsupportedPanels)
}
