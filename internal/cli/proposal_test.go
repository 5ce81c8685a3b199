package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poupaenergia/poupa/internal/catalog"
	"github.com/poupaenergia/poupa/internal/cli"
	"github.com/poupaenergia/poupa/internal/proposal"
)

func TestProposalRequest(t *testing.T) {
	isolate(t)

	t.Run("energy", func(t *testing.T) {
		out, _, err := execute(t, "proposal", "request", "--provider", "edp", "--email", "ana@example.pt")
		require.NoError(t, err)
		assert.Contains(t, out, proposal.ThankYouMessage)
		assert.Contains(t, out, "Reference: ")
		assert.Contains(t, out, "EDP")
	})

	t.Run("telecom json", func(t *testing.T) {
		out, _, err := execute(t, "proposal", "request", "--service", "telecom", "--provider", "nos", "-o", "json")
		require.NoError(t, err)

		var ack proposal.Acknowledgement
		require.NoError(t, json.Unmarshal([]byte(out), &ack))
		assert.Equal(t, catalog.ServiceTelecom, ack.Service)
		assert.Equal(t, catalog.TelecomInstruction(), ack.Message)
		assert.NotEmpty(t, ack.Reference)
	})

	t.Run("missing contact", func(t *testing.T) {
		_, _, err := execute(t, "proposal", "request")
		require.ErrorIs(t, err, proposal.ErrContactRequired)
		assert.Equal(t, cli.ExitCodeValidation, cli.ExitCode(err))
	})

	t.Run("invalid phone", func(t *testing.T) {
		_, _, err := execute(t, "proposal", "request", "--phone", "12")
		require.ErrorIs(t, err, proposal.ErrInvalidPhone)
	})
}
