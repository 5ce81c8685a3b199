// Package catalog lists the services and providers a visitor can choose
// from before reaching a calculator.
package catalog

import (
	"fmt"
	"sort"

	"github.com/poupaenergia/poupa/internal/savings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by catalog lookups.
var (
	ErrUnknownService  = constError("unknown service")
	ErrUnknownProvider = constError("unknown provider")
)

// Service is a top-level offer: energy or telecom.
type Service string

const (
	ServiceEnergy  Service = "energy"
	ServiceTelecom Service = "telecom"
)

// String returns the service ID.
func (s Service) String() string { return string(s) }

// UnknownProviderID is the "I don't know" choice offered in every provider list.
const UnknownProviderID = "unknown"

// Telecom proposals are requested by SMS rather than through a calculator.
const (
	TelecomSMSCode   = "3748"
	TelecomSMSNumber = "915692400"
)

// Provider is a current supplier a visitor can pick.
type Provider struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Service Service `json:"service"`
}

// Offer is one entry of a service menu.
type Offer struct {
	ID          string             `json:"id"`
	Service     Service            `json:"service"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Strategies  []savings.Strategy `json:"strategies,omitempty"`
}

// providerTable holds the providers per service in display order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var providerTable = map[Service][]Provider{
	ServiceEnergy: {
		{ID: "edp", Name: "EDP", Service: ServiceEnergy},
		{ID: "galp", Name: "Galp", Service: ServiceEnergy},
		{ID: "endesa", Name: "Endesa", Service: ServiceEnergy},
		{ID: "iberdrola", Name: "Iberdrola", Service: ServiceEnergy},
		{ID: "goldEnergy", Name: "Gold Energy", Service: ServiceEnergy},
		{ID: UnknownProviderID, Name: "Não sei", Service: ServiceEnergy},
	},
	ServiceTelecom: {
		{ID: "meo", Name: "MEO", Service: ServiceTelecom},
		{ID: "nos", Name: "NOS", Service: ServiceTelecom},
		{ID: "vodafone", Name: "Vodafone", Service: ServiceTelecom},
		{ID: "nowo", Name: "NOWO", Service: ServiceTelecom},
		{ID: UnknownProviderID, Name: "Não sei", Service: ServiceTelecom},
	},
}

// offerTable lists what each service leads to.
//
//nolint:gochecknoglobals // Read-only lookup table.
var offerTable = []Offer{
	{
		ID:          "provider-switch",
		Service:     ServiceEnergy,
		Title:       "Mudar de Comercializadora",
		Description: "Compare e escolha a melhor comercializadora",
		Strategies:  []savings.Strategy{savings.StrategyEnergy, savings.StrategyDiscount, savings.StrategyAppliance},
	},
	{
		ID:          "solar",
		Service:     ServiceEnergy,
		Title:       "Painéis Solares",
		Description: "Calcule sua economia com energia solar",
		Strategies:  []savings.Strategy{savings.StrategySolarPanels, savings.StrategySolarBill},
	},
	{
		ID:          "telecom-plan",
		Service:     ServiceTelecom,
		Title:       "Telecomunicações",
		Description: "Encontre o melhor plano para você",
	},
}

// Services returns every service in display order.
func Services() []Service {
	return []Service{ServiceEnergy, ServiceTelecom}
}

// ParseService resolves a service ID.
func ParseService(id string) (Service, error) {
	for _, s := range Services() {
		if string(s) == id {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownService, id)
}

// Providers returns the providers of a service in display order.
func Providers(s Service) ([]Provider, error) {
	list, ok := providerTable[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, s)
	}
	return append([]Provider(nil), list...), nil
}

// LookupProvider finds a provider of service s by ID.
func LookupProvider(s Service, id string) (Provider, error) {
	list, err := Providers(s)
	if err != nil {
		return Provider{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("%w: %q for %s", ErrUnknownProvider, id, s)
}

// Offers returns the menu entries of service s.
func Offers(s Service) []Offer {
	var out []Offer
	for _, o := range offerTable {
		if o.Service == s {
			out = append(out, o)
		}
	}
	return out
}

// ProviderIDs returns the sorted provider IDs of s, for flag help and completion.
func ProviderIDs(s Service) []string {
	list := providerTable[s]
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}

// TelecomInstruction is the message shown when a telecom provider is picked.
func TelecomInstruction() string {
	return fmt.Sprintf("Para receber uma proposta personalizada, envie SMS com o código %s para %s",
		TelecomSMSCode, TelecomSMSNumber)
}
