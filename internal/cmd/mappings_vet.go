package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/mapping"
	"github.com/chefport/cli/internal/output"
)

// NewMappingsVetCmd creates the mappings vet command.
func NewMappingsVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet <file>",
		Short: "Validate a mapping overlay file",
		Long: `Validate a resource mapping overlay file.

Checks performed:
  1. File parses as YAML or JSON
  2. At least one mapping is defined
  3. Every entry names an ansible_module
  4. Property renames are present where value substitutions reference them

Arguments:
  file    Path to the overlay file

Examples:
  # Validate an overlay before using it
  chefport mappings vet mappings.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMappingsVet(args[0])
		},
	}

	return cmd
}

// runMappingsVet executes the mappings vet command.
func runMappingsVet(path string) error {
	output.Debug("validating mapping overlay", "file", path)

	issues, err := mapping.VetOverlay(path)
	if err != nil {
		output.Error("reading overlay", "error", err)
		return &oerrors.ExitError{Code: ExitCodeFromError(err), Err: err, Printed: true}
	}

	if len(issues) > 0 {
		for _, issue := range issues {
			output.Error(issue)
		}
		err := fmt.Errorf("%d issues in %s", len(issues), path)
		return &oerrors.ExitError{Code: ExitValidationError, Err: err, Printed: true}
	}

	overlay, err := mapping.LoadOverlay(path)
	if err != nil {
		return &oerrors.ExitError{Code: ExitCodeFromError(err), Err: err}
	}

	output.Println(output.FormatCheckmark(fmt.Sprintf("%d mappings valid", len(overlay))))
	return nil
}
