//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	assert.NotEqual(t, ErrValidation, ErrAcquisition)
	assert.NotEqual(t, ErrValidation, ErrPermission)
	assert.NotEqual(t, ErrValidation, ErrNotFound)
}

func TestErrNoCookbooksIsNotFound(t *testing.T) {
	assert.True(t, errors.Is(ErrNoCookbooks, ErrNotFound))
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "validation failed",
		Message:  "invalid value",
		Location: "/path/to/mappings.yaml:42",
		Field:    "mysql_database.ansible_module",
		Context:  map[string]string{"Overlay": "mappings.yaml"},
		Hint:     "Set a fully qualified module name",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: validation failed")
	assert.Contains(t, output, "Location: /path/to/mappings.yaml:42")
	assert.Contains(t, output, "Field: mysql_database.ansible_module")
	assert.Contains(t, output, "Overlay: mappings.yaml")
	assert.Contains(t, output, "invalid value")
	assert.Contains(t, output, "Hint: Set a fully qualified module name")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrValidation,
	}

	assert.True(t, errors.Is(detail, ErrValidation))
	assert.Equal(t, ErrValidation, detail.Unwrap())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(
		"invalid value",
		"/path/to/mappings.yaml:42",
		"mysql_database.ansible_module",
		"Set a fully qualified module name",
	)

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestNewAcquisitionError(t *testing.T) {
	err := NewAcquisitionError(
		"source directory does not exist",
		map[string]string{"Source": "/tmp/missing"},
		"Check the source path",
	)

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrAcquisition))
	assert.Contains(t, err.Error(), "Source: /tmp/missing")
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("role not found", "./roles/nginx", "Run chefport convert first")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrPermission, "could not create output directory")

	assert.True(t, errors.Is(err, ErrPermission))
	assert.Contains(t, err.Error(), "could not create output directory")
}

func TestExitError(t *testing.T) {
	inner := fmt.Errorf("boom")
	exit := &ExitError{Err: inner, Code: 2}

	assert.Equal(t, "boom", exit.Error())
	assert.Equal(t, inner, exit.Unwrap())
	assert.False(t, exit.Printed)

	var target *ExitError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", exit), &target))
	assert.Equal(t, 2, target.Code)
}
