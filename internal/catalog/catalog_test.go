package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poupaenergia/poupa/internal/savings"
)

func TestProviders(t *testing.T) {
	tests := []struct {
		service Service
		wantIDs []string
	}{
		{ServiceEnergy, []string{"edp", "galp", "endesa", "iberdrola", "goldEnergy", "unknown"}},
		{ServiceTelecom, []string{"meo", "nos", "vodafone", "nowo", "unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.service.String(), func(t *testing.T) {
			list, err := Providers(tt.service)
			require.NoError(t, err)

			ids := make([]string, 0, len(list))
			for _, p := range list {
				ids = append(ids, p.ID)
				assert.Equal(t, tt.service, p.Service)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestProviders_ReturnsCopy(t *testing.T) {
	list, err := Providers(ServiceEnergy)
	require.NoError(t, err)
	list[0].Name = "changed"

	again, err := Providers(ServiceEnergy)
	require.NoError(t, err)
	assert.Equal(t, "EDP", again[0].Name)
}

func TestLookupProvider(t *testing.T) {
	p, err := LookupProvider(ServiceEnergy, "goldEnergy")
	require.NoError(t, err)
	assert.Equal(t, "Gold Energy", p.Name)

	_, err = LookupProvider(ServiceEnergy, "meo")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = LookupProvider("water", "edp")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestParseService(t *testing.T) {
	s, err := ParseService("telecom")
	require.NoError(t, err)
	assert.Equal(t, ServiceTelecom, s)

	_, err = ParseService("gas")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestOffers(t *testing.T) {
	energy := Offers(ServiceEnergy)
	require.Len(t, energy, 2)
	assert.Contains(t, energy[1].Strategies, savings.StrategySolarBill)

	telecom := Offers(ServiceTelecom)
	require.Len(t, telecom, 1)
	assert.Empty(t, telecom[0].Strategies)
}

func TestProviderIDs(t *testing.T) {
	assert.Equal(t, []string{"meo", "nos", "nowo", "unknown", "vodafone"}, ProviderIDs(ServiceTelecom))
}

func TestTelecomInstruction(t *testing.T) {
	msg := TelecomInstruction()
	assert.Contains(t, msg, "3748")
	assert.Contains(t, msg, "915692400")
}
