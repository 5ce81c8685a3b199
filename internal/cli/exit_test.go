package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poupaenergia/poupa/internal/cli"
	"github.com/poupaenergia/poupa/internal/proposal"
	"github.com/poupaenergia/poupa/internal/savings"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitCodeOK},
		{
			name: "invalid number",
			err:  &savings.InvalidNumberError{Field: savings.FieldBill, Reason: savings.ReasonNegative},
			want: cli.ExitCodeValidation,
		},
		{
			name: "wrapped invalid number",
			err:  fmt.Errorf("scenario casa: %w", &savings.InvalidNumberError{Field: savings.FieldBill}),
			want: cli.ExitCodeValidation,
		},
		{name: "contact", err: proposal.ErrContactRequired, want: cli.ExitCodeValidation},
		{name: "unknown strategy", err: savings.ErrUnknownStrategy, want: cli.ExitCodeError},
		{name: "generic", err: errors.New("boom"), want: cli.ExitCodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}
