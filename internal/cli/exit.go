package cli

import (
	"errors"

	"github.com/poupaenergia/poupa/internal/proposal"
	"github.com/poupaenergia/poupa/internal/savings"
)

// Process exit codes.
const (
	ExitCodeOK         = 0
	ExitCodeError      = 1
	ExitCodeValidation = 2
)

// ExitCode maps a command error to the process exit code. Rejected user
// input exits with ExitCodeValidation.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeOK
	case errors.Is(err, savings.ErrInvalidNumber),
		errors.Is(err, proposal.ErrContactRequired),
		errors.Is(err, proposal.ErrInvalidEmail),
		errors.Is(err, proposal.ErrInvalidPhone):
		return ExitCodeValidation
	default:
		return ExitCodeError
	}
}
