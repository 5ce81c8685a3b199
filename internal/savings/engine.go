package savings

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/poupaenergia/poupa/internal/logging"
)

// ReasonNotFraction is reported for a discount outside [0, 1].
const ReasonNotFraction = "must be a fraction between 0 and 1"

// Request is one recalculation trigger: the raw form fields and the rule to apply.
type Request struct {
	Strategy Strategy          `json:"strategy"`
	Fields   map[string]string `json:"fields"`
}

// fieldSpec lists the fields a strategy's form collects. Required and
// optional fields are numeric; descriptive fields are free text that is
// never parsed or used in the calculation.
type fieldSpec struct {
	required    []string
	optional    []string
	descriptive []string
}

// strategyFields maps each strategy to the form fields it consumes.
// Fields not listed here are ignored.
//
//nolint:gochecknoglobals // Read-only lookup table.
var strategyFields = map[Strategy]fieldSpec{
	StrategyEnergy: {
		required: []string{FieldConsumption, FieldCurrentRate},
		optional: []string{FieldComparisonRate, FieldPowerTier},
	},
	StrategyDiscount: {
		required: []string{FieldConsumption, FieldCurrentRate},
		optional: []string{FieldDiscount, FieldPowerTier},
	},
	StrategyAppliance: {
		required: []string{FieldPower, FieldHours, FieldDays},
	},
	StrategySolarPanels: {
		required: []string{FieldPanels},
		optional: []string{FieldPricePerKWh, FieldProductionPerPair},
	},
	StrategySolarBill: {
		required:    []string{FieldConsumption, FieldBill},
		descriptive: []string{FieldRoofArea, FieldLocation, FieldCustomerType},
	},
}

// RequiredFields returns the fields a strategy cannot run without.
func RequiredFields(s Strategy) []string {
	return append([]string(nil), strategyFields[s].required...)
}

// OptionalFields returns the fields a strategy reads when present.
func OptionalFields(s Strategy) []string {
	return append([]string(nil), strategyFields[s].optional...)
}

// DescriptiveFields returns the free-text fields a strategy's form collects.
func DescriptiveFields(s Strategy) []string {
	return append([]string(nil), strategyFields[s].descriptive...)
}

// Engine runs the form-to-estimate flow against one set of tariffs.
//
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	tariffs Tariffs
}

// NewEngine creates an Engine bound to tariffs.
func NewEngine(tariffs Tariffs) (*Engine, error) {
	if err := tariffs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tariffs: %w", err)
	}
	return &Engine{tariffs: tariffs}, nil
}

// Tariffs returns the constants the engine was created with.
func (e *Engine) Tariffs() Tariffs {
	return e.tariffs
}

// Estimate validates the raw fields of req and applies its strategy.
//
// Required fields that are missing or blank, values that are not finite
// decimals and negative values fail with an *InvalidNumberError, and no
// estimate is returned. Optional fields left blank fall back to the tariff
// constants.
func (e *Engine) Estimate(ctx context.Context, req Request) (*Estimate, error) {
	log := logging.FromContext(ctx)

	spec, ok := strategyFields[req.Strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, req.Strategy)
	}

	raw := make(map[string]string, len(spec.required)+len(spec.optional))
	for _, name := range spec.required {
		value := req.Fields[name]
		if strings.TrimSpace(value) == "" {
			return nil, invalidNumber(name, "", ReasonRequired)
		}
		raw[name] = value
	}
	for _, name := range spec.optional {
		if value := req.Fields[name]; strings.TrimSpace(value) != "" {
			raw[name] = value
		}
	}

	values, err := ValidateNumericInputs(raw)
	if err != nil {
		log.Debug().Ctx(ctx).
			Str("strategy", req.Strategy.String()).
			Err(err).
			Msg("estimate rejected")
		return nil, err
	}
	if err = checkRanges(raw, values); err != nil {
		log.Debug().Ctx(ctx).
			Str("strategy", req.Strategy.String()).
			Err(err).
			Msg("estimate rejected")
		return nil, err
	}

	estimate, err := e.apply(req.Strategy, raw, values)
	if err != nil {
		return nil, err
	}

	log.Debug().Ctx(ctx).
		Str("strategy", req.Strategy.String()).
		Int("field_count", len(values)).
		Msg("estimate computed")

	return estimate, nil
}

// checkRanges applies the non-negativity and enumeration rules to parsed values.
func checkRanges(raw map[string]string, values map[string]float64) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if values[name] < 0 {
			return invalidNumber(name, raw[name], ReasonNegative)
		}
	}

	if v, ok := values[FieldDiscount]; ok && v > 1 {
		return invalidNumber(FieldDiscount, raw[FieldDiscount], ReasonNotFraction)
	}
	if _, ok := values[FieldPowerTier]; ok {
		if _, err := ParsePowerTier(raw[FieldPowerTier]); err != nil {
			return err
		}
	}
	if _, ok := values[FieldPanels]; ok {
		if _, err := ParsePanelCount(raw[FieldPanels]); err != nil {
			return err
		}
	}
	return nil
}

// apply dispatches to the named rule. Values have already been validated.
func (e *Engine) apply(s Strategy, raw map[string]string, values map[string]float64) (*Estimate, error) {
	estimate := &Estimate{Strategy: s, Inputs: values}

	switch s {
	case StrategyEnergy:
		r, err := ComputeEnergySavings(values[FieldConsumption], values[FieldCurrentRate],
			valueOr(values, FieldComparisonRate, e.tariffs.ComparisonRate))
		if err != nil {
			return nil, err
		}
		estimate.Savings = &r

	case StrategyDiscount:
		r, err := ComputeFlatDiscountSavings(values[FieldConsumption], values[FieldCurrentRate],
			valueOr(values, FieldDiscount, e.tariffs.FlatDiscount))
		if err != nil {
			return nil, err
		}
		estimate.Savings = &r

	case StrategyAppliance:
		c, err := ComputeApplianceConsumption(values[FieldPower], values[FieldHours], values[FieldDays])
		if err != nil {
			return nil, err
		}
		estimate.Appliance = &c

	case StrategySolarPanels:
		panels, err := ParsePanelCount(raw[FieldPanels])
		if err != nil {
			return nil, err
		}
		sol, err := ComputeSolarEstimate(panels,
			valueOr(values, FieldPricePerKWh, e.tariffs.SolarPricePerKWh),
			valueOr(values, FieldProductionPerPair, e.tariffs.ProductionPerPanelPair))
		if err != nil {
			return nil, err
		}
		estimate.Solar = &sol

	case StrategySolarBill:
		sol, err := ComputeBillSolarEstimate(values[FieldConsumption], values[FieldBill], e.tariffs)
		if err != nil {
			return nil, err
		}
		estimate.Solar = &sol

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}

	return estimate, nil
}

func valueOr(values map[string]float64, name string, fallback float64) float64 {
	if v, ok := values[name]; ok {
		return v
	}
	return fallback
}
