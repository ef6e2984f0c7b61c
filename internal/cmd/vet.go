package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/output"
	"github.com/chefport/cli/internal/validate"
)

// NewVetCmd creates the vet command.
func NewVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet <role-dir>",
		Short: "Validate a generated role",
		Long: `Validate the structure of a generated Ansible role.

Checks performed:
  1. Required files exist (tasks/main.yml, meta/main.yml)
  2. Conventional directories exist (tasks/, handlers/, templates/)
  3. Every .yml/.yaml file under the role parses

Missing conventional directories are warnings; everything else listed
above is an error. The check never stops at the first problem.

Arguments:
  role-dir    Path to the role directory

Examples:
  # Validate one converted role
  chefport vet ./roles/nginx

  # In scripts: exit code 2 means validation errors
  chefport vet ./roles/nginx || echo "role is broken"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVet(args[0])
		},
	}

	return cmd
}

// runVet executes the vet command.
func runVet(dir string) error {
	output.Debug("validating role", "dir", dir)

	result := validate.CheckRole(dir)

	for _, check := range result.Passed {
		output.Println(output.FormatVetCheck(check, ""))
	}
	for _, warning := range result.Warnings {
		output.Warn(warning)
	}
	for _, msg := range result.Errors {
		output.Error(msg)
	}

	if !result.Valid() {
		err := fmt.Errorf("role validation failed: %s", result.Summary())
		return &oerrors.ExitError{Code: ExitValidationError, Err: err, Printed: true}
	}

	output.Println("")
	output.Println(output.FormatCheckmark(fmt.Sprintf("Role valid (%s)", result.Summary())))
	return nil
}
