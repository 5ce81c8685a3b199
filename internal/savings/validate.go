package savings

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber parses one raw form value as a finite decimal number.
//
// Surrounding whitespace is ignored and a single decimal comma ("0,1529") is
// accepted in place of a decimal point. An empty value, text that is not a
// decimal number, or a value too large for float64 is rejected with an
// *InvalidNumberError naming field.
func ParseNumber(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, invalidNumber(field, raw, ReasonRequired)
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}

	// decimal rejects the Inf, NaN and hex spellings strconv would accept.
	if _, err := decimal.NewFromString(s); err != nil {
		return 0, invalidNumber(field, raw, ReasonNotNumber)
	}

	f, err := strconv.ParseFloat(s, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, invalidNumber(field, raw, ReasonNotFinite)
	}
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, invalidNumber(field, raw, ReasonNotNumber)
	}
	return f, nil
}

// ValidateNumericInputs parses every field of a form as a finite decimal.
//
// Fields are checked in name order, so when several fields are invalid the
// error always names the same one. On failure no values are returned.
//
// Example:
//
//	values, err := ValidateNumericInputs(map[string]string{"consumption": "150"})
//	// values["consumption"] == 150
func ValidateNumericInputs(fields map[string]string) (map[string]float64, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]float64, len(fields))
	for _, name := range names {
		v, err := ParseNumber(name, fields[name])
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return values, nil
}

// requireFinite rejects NaN and infinities before they reach decimal arithmetic.
func requireFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalidNumber(field, "", ReasonNotFinite)
	}
	return nil
}

// requireNonNegative rejects finite values below zero.
func requireNonNegative(field string, v float64) error {
	if err := requireFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return invalidNumber(field, formatRaw(v), ReasonNegative)
	}
	return nil
}

func formatRaw(v float64) string {
	return decimal.NewFromFloat(v).String()
}
