package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/chefport/cli/internal/config"
	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/manifest"
	"github.com/chefport/cli/internal/output"
)

// statusRow is one role's freshness in machine-readable output.
type statusRow struct {
	Role         string `json:"role"`
	Cookbook     string `json:"cookbook"`
	Source       string `json:"source"`
	State        string `json:"state"`
	Placeholders int    `json:"placeholders,omitempty"`
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	var (
		outDirFlag string
		outputFlag string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show conversion freshness",
		Long: `Show whether generated roles are still current.

Reads the conversion manifest under the output directory and recomputes
each source cookbook's digest:

  fresh      cookbook unchanged since conversion
  stale      cookbook changed since conversion; re-run convert
  missing    cookbook directory no longer exists

Examples:
  # Status of the default output directory
  chefport status

  # Status of a specific output directory
  chefport status -d ./ansible/roles

  # JSON for scripting
  chefport status -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(outDirFlag, outputFlag)
		},
	}

	cmd.Flags().StringVarP(&outDirFlag, "out-dir", "d", "",
		"Output directory holding converted roles (env: CHEFPORT_OUTPUT)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "table",
		"Output format (table, yaml, json)")

	return cmd
}

// runStatus executes the status command.
func runStatus(outDirFlag, outputFmt string) error {
	cfg := GetConfig()

	format, ok := output.ParseFormat(outputFmt)
	if !ok {
		return &oerrors.ExitError{
			Code: ExitGeneralError,
			Err: fmt.Errorf("invalid output format %q (valid: %s)",
				outputFmt, strings.Join(output.ValidFormats(), ", ")),
		}
	}

	outDir := config.ResolveOutput(outDirFlag, cfg.Output)
	config.LogResolvedValues([]config.ResolvedValue{outDir})

	m, err := manifest.Load(outDir.Value)
	if err != nil {
		output.Error("reading conversion manifest", "error", err)
		return &oerrors.ExitError{Code: ExitGeneralError, Err: err, Printed: true}
	}
	if m == nil {
		return oerrors.NewNotFoundError(
			"no conversion manifest",
			manifest.Path(outDir.Value),
			"Run 'chefport convert' to generate roles first.",
		)
	}

	statuses := manifest.Classify(m.Entries)

	rows := make([]statusRow, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, statusRow{
			Role:         s.Entry.Role,
			Cookbook:     s.Entry.Cookbook,
			Source:       s.Entry.Source,
			State:        string(s.State),
			Placeholders: s.Entry.Placeholders,
		})
	}

	switch format {
	case output.FormatJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return &oerrors.ExitError{Code: ExitGeneralError, Err: err}
		}
		output.Println(string(data))
	case output.FormatYAML:
		data, err := yaml.Marshal(rows)
		if err != nil {
			return &oerrors.ExitError{Code: ExitGeneralError, Err: err}
		}
		output.Print(string(data))
	default:
		output.Println(statusTable(statuses))
		output.Println("")
		output.Println(statusSummary(statuses))
	}

	return nil
}

// statusTable renders role freshness as a table.
func statusTable(statuses []manifest.Status) string {
	t := output.NewTable("ROLE", "COOKBOOK", "SOURCE", "STATE")
	for _, s := range statuses {
		t.Row(s.Entry.Role, s.Entry.Cookbook, s.Entry.Source, stateCell(s.State))
	}
	return t.String()
}

// stateCell colors a freshness state for the table.
func stateCell(state manifest.State) string {
	switch state {
	case manifest.StateFresh:
		return output.StyleSuccess.Render(string(state))
	case manifest.StateStale:
		return output.StyleWarning.Render(string(state))
	case manifest.StateMissing:
		return output.StyleError.Render(string(state))
	default:
		return string(state)
	}
}

// statusSummary counts states into a one-line digest.
func statusSummary(statuses []manifest.Status) string {
	counts := map[manifest.State]int{}
	for _, s := range statuses {
		counts[s.State]++
	}
	return fmt.Sprintf("%d fresh, %d stale, %d missing",
		counts[manifest.StateFresh], counts[manifest.StateStale], counts[manifest.StateMissing])
}
