// Package proposal handles the "request proposal" action shown after an
// estimate. The action is a display event: contact details are validated
// and acknowledged with a reference, and nothing is stored or sent.
package proposal

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"

	"github.com/poupaenergia/poupa/internal/catalog"
	"github.com/poupaenergia/poupa/internal/logging"
	"github.com/poupaenergia/poupa/internal/savings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Validation errors for a proposal request.
var (
	ErrContactRequired = constError("an email address or a phone number is required")
	ErrInvalidEmail    = constError("invalid email address")
	ErrInvalidPhone    = constError("invalid phone number")
)

const (
	minPhoneDigits = 9
	maxPhoneDigits = 15
)

// ThankYouMessage is shown when an energy or solar request is acknowledged.
const ThankYouMessage = "Obrigado! Entraremos em contacto consigo brevemente."

// Request is what the visitor submits from a calculator page.
type Request struct {
	Service  catalog.Service   `json:"service"`
	Provider string            `json:"provider,omitempty"`
	Name     string            `json:"name,omitempty"`
	Email    string            `json:"email,omitempty"`
	Phone    string            `json:"phone,omitempty"`
	Estimate *savings.Estimate `json:"estimate,omitempty"`
}

// Acknowledgement is displayed to the visitor in response to a Request.
type Acknowledgement struct {
	Reference   string            `json:"reference"`
	Service     catalog.Service   `json:"service"`
	Provider    *catalog.Provider `json:"provider,omitempty"`
	Message     string            `json:"message"`
	Email       string            `json:"email,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Estimate    *savings.Estimate `json:"estimate,omitempty"`
	RequestedAt time.Time         `json:"requested_at"`
}

// Acknowledger builds acknowledgements. The zero value is not usable; call
// NewAcknowledger.
type Acknowledger struct {
	now func() time.Time
}

// NewAcknowledger returns an Acknowledger using the wall clock.
func NewAcknowledger() *Acknowledger {
	return &Acknowledger{now: time.Now}
}

// Acknowledge validates req and returns the message to display.
//
// Telecom requests need no contact details: the visitor is told to send an
// SMS instead. Energy requests need a valid email or phone number.
func (a *Acknowledger) Acknowledge(ctx context.Context, req Request) (*Acknowledgement, error) {
	log := logging.FromContext(ctx)

	if _, err := catalog.ParseService(string(req.Service)); err != nil {
		return nil, err
	}

	ack := &Acknowledgement{
		Reference:   ulid.Make().String(),
		Service:     req.Service,
		Estimate:    req.Estimate,
		RequestedAt: a.now().UTC(),
	}

	if req.Provider != "" {
		p, err := catalog.LookupProvider(req.Service, req.Provider)
		if err != nil {
			return nil, err
		}
		ack.Provider = &p
	}

	if req.Service == catalog.ServiceTelecom {
		ack.Message = catalog.TelecomInstruction()
		log.Info().Ctx(ctx).
			Str("reference", ack.Reference).
			Str("service", req.Service.String()).
			Msg("telecom proposal instruction shown")
		return ack, nil
	}

	email, phone, err := ValidateContact(req.Email, req.Phone)
	if err != nil {
		log.Debug().Ctx(ctx).Err(err).Msg("proposal request rejected")
		return nil, err
	}
	ack.Email = email
	ack.Phone = phone
	ack.Message = ThankYouMessage

	log.Info().Ctx(ctx).
		Str("reference", ack.Reference).
		Str("service", req.Service.String()).
		Str("provider", req.Provider).
		Bool("has_estimate", req.Estimate != nil).
		Msg("proposal request acknowledged")

	return ack, nil
}

// ValidateContact checks the optional email and phone and returns them
// normalised. At least one must be present.
func ValidateContact(email, phone string) (string, string, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	if email == "" && phone == "" {
		return "", "", ErrContactRequired
	}

	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Name != "" || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@")+1:], ".") {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
		}
		email = addr.Address
	}

	if phone != "" {
		normalised, err := NormalizePhone(phone)
		if err != nil {
			return "", "", err
		}
		phone = normalised
	}

	return email, phone, nil
}

// NormalizePhone strips spaces, dashes and a leading "+" and checks that
// 9 to 15 digits remain.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	plus := strings.HasPrefix(s, "+")
	s = strings.TrimPrefix(s, "+")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
		}
	}

	digits := b.String()
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", fmt.Errorf("%w: %q must have %d to %d digits", ErrInvalidPhone, raw, minPhoneDigits, maxPhoneDigits)
	}
	if plus {
		return "+" + digits, nil
	}
	return digits, nil
}
