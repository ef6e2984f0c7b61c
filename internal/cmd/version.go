package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/output"
	"github.com/chefport/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show chefport CLI version information.

Displays the CLI version, build commit and date, and the Go version
used to build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(jsonFlag)
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print version information as JSON")

	return cmd
}

func runVersion(asJSON bool) error {
	info := version.Get()

	if asJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return &oerrors.ExitError{Code: ExitGeneralError, Err: err}
		}
		output.Println(string(data))
		return nil
	}

	output.Println(info.String())
	return nil
}
