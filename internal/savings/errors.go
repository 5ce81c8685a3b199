package savings

import "fmt"

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Error types for savings estimation.
// These are sentinel errors that can be compared with errors.Is().
var (
	// ErrInvalidNumber indicates a form field that is not a usable number.
	// Every *InvalidNumberError unwraps to this sentinel.
	ErrInvalidNumber = constError("invalid number")

	// ErrUnknownStrategy indicates an estimation strategy the engine does not implement.
	ErrUnknownStrategy = constError("unknown estimation strategy")
)

// Reasons attached to InvalidNumberError.
const (
	ReasonRequired          = "value is required"
	ReasonNotNumber         = "not a number"
	ReasonNotFinite         = "not a finite number"
	ReasonNegative          = "must not be negative"
	ReasonNotInteger        = "must be a whole number"
	ReasonUnsupportedTier   = "not a supported contracted power tier"
	ReasonUnsupportedPanels = "not a supported panel count"
)

// InvalidNumberError reports a field that failed numeric validation.
//
// It is the single user-facing failure of the engine: the caller surfaces
// Field and Reason as a dismissible notification and shows no result.
type InvalidNumberError struct {
	// Field is the form field name (e.g. "consumption").
	Field string `json:"field"`

	// Value is the raw value as entered, empty when the field was missing.
	Value string `json:"value,omitempty"`

	// Reason describes why the value was rejected.
	Reason string `json:"reason"`
}

func (e *InvalidNumberError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid number for field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid number for field %q (%q): %s", e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidNumber).
func (e *InvalidNumberError) Unwrap() error { return ErrInvalidNumber }

func invalidNumber(field, value, reason string) *InvalidNumberError {
	return &InvalidNumberError{Field: field, Value: value, Reason: reason}
}
