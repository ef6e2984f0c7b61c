package cmd

import (
	"errors"
	"io/fs"

	oerrors "github.com/chefport/cli/internal/errors"
)

// Exit codes are a scripting contract: each failure class keeps its
// number across releases.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates an overlay, config, or generated role
	// failed validation.
	ExitValidationError = 2

	// ExitAcquisitionError indicates the source repository could not be read.
	ExitAcquisitionError = 3

	// ExitPermissionDenied indicates insufficient filesystem permissions.
	ExitPermissionDenied = 4

	// ExitNotFound indicates a cookbook, role, or manifest was not found.
	ExitNotFound = 5
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitAcquisitionError:
		return "Acquisition Error"
	case ExitPermissionDenied:
		return "Permission Denied"
	case ExitNotFound:
		return "Not Found"
	default:
		return "Unknown"
	}
}

// ExitCodeFromError determines the appropriate exit code for an error.
// An explicit ExitError wins; otherwise the sentinel in the chain decides.
// Raw filesystem errors map to the not-found and permission codes so paths
// that skip the sentinel wrappers still exit honestly.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, oerrors.ErrValidation):
		return ExitValidationError
	case errors.Is(err, oerrors.ErrAcquisition):
		return ExitAcquisitionError
	case errors.Is(err, oerrors.ErrPermission), errors.Is(err, fs.ErrPermission):
		return ExitPermissionDenied
	case errors.Is(err, oerrors.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ExitNotFound
	default:
		return ExitGeneralError
	}
}
