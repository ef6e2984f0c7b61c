package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chefport/cli/internal/ansible"
	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/output"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	var exitCodeFlag bool

	cmd := &cobra.Command{
		Use:   "diff <role-a> <role-b>",
		Short: "Compare two role directories",
		Long: `Compare two Ansible role directories semantically.

Files are matched by relative path. YAML files are compared as documents
(via dyff), so reordered keys and formatting changes do not register as
differences; other files are compared byte for byte.

Useful for reviewing what changed between two conversion runs, or
between a converted role and a hand-edited copy.

Arguments:
  role-a    Path to the first role directory
  role-b    Path to the second role directory

Examples:
  # Compare two conversions of the same cookbook
  chefport diff ./roles-old/nginx ./roles/nginx

  # Fail in CI when the roles differ
  chefport diff ./roles-old/nginx ./roles/nginx --exit-code`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], exitCodeFlag)
		},
	}

	cmd.Flags().BoolVar(&exitCodeFlag, "exit-code", false,
		"Exit with a non-zero code when the roles differ")

	return cmd
}

// runDiff executes the diff command.
func runDiff(aDir, bDir string, exitCode bool) error {
	output.Debug("comparing roles", "a", aDir, "b", bDir)

	result, err := ansible.DiffRoles(aDir, bDir, output.IsTTY())
	if err != nil {
		output.Error("comparing roles", "error", err)
		return &oerrors.ExitError{Code: ExitCodeFromError(err), Err: err, Printed: true}
	}

	if result.IsEmpty() {
		output.Println("No differences found")
		return nil
	}

	modified := make([]output.ModifiedItem, 0, len(result.Modified))
	for _, m := range result.Modified {
		modified = append(modified, output.ModifiedItem{Name: m.Path, Diff: m.Diff})
	}
	output.Print(output.RenderDiff(result.Added, result.Removed, modified))

	if exitCode {
		return &oerrors.ExitError{
			Code:    ExitGeneralError,
			Err:     fmt.Errorf("roles differ: %s", result.Summary()),
			Printed: true,
		}
	}
	return nil
}
