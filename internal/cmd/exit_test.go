package cmd

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	oerrors "github.com/chefport/cli/internal/errors"
)

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			wantCode: ExitSuccess,
		},
		{
			name:     "validation error",
			err:      oerrors.ErrValidation,
			wantCode: ExitValidationError,
		},
		{
			name:     "wrapped validation error",
			err:      oerrors.Wrap(oerrors.ErrValidation, "overlay check failed"),
			wantCode: ExitValidationError,
		},
		{
			name:     "acquisition error",
			err:      oerrors.ErrAcquisition,
			wantCode: ExitAcquisitionError,
		},
		{
			name:     "permission error",
			err:      oerrors.ErrPermission,
			wantCode: ExitPermissionDenied,
		},
		{
			name:     "not found error",
			err:      oerrors.ErrNotFound,
			wantCode: ExitNotFound,
		},
		{
			name:     "no cookbooks maps through not found",
			err:      oerrors.ErrNoCookbooks,
			wantCode: ExitNotFound,
		},
		{
			name:     "raw filesystem not-exist",
			err:      fs.ErrNotExist,
			wantCode: ExitNotFound,
		},
		{
			name:     "raw filesystem permission",
			err:      fs.ErrPermission,
			wantCode: ExitPermissionDenied,
		},
		{
			name:     "explicit exit error wins over sentinel",
			err:      &oerrors.ExitError{Err: oerrors.ErrValidation, Code: ExitNotFound},
			wantCode: ExitNotFound,
		},
		{
			name:     "unknown error returns general error",
			err:      errors.New("unknown error"),
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExitCodeFromError(tt.err)
			assert.Equal(t, tt.wantCode, got)
		})
	}
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Success", ExitCodeName(ExitSuccess))
	assert.Equal(t, "Validation Error", ExitCodeName(ExitValidationError))
	assert.Equal(t, "Acquisition Error", ExitCodeName(ExitAcquisitionError))
	assert.Equal(t, "Unknown", ExitCodeName(42))
}

func TestExitCodeConstants(t *testing.T) {
	// The numbers are a scripting contract; renumbering breaks callers.
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitGeneralError)
	assert.Equal(t, 2, ExitValidationError)
	assert.Equal(t, 3, ExitAcquisitionError)
	assert.Equal(t, 4, ExitPermissionDenied)
	assert.Equal(t, 5, ExitNotFound)
}
