package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/chefport/cli/internal/config"
	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/mapping"
	"github.com/chefport/cli/internal/output"
)

// NewMappingsListCmd creates the mappings list command.
func NewMappingsListCmd() *cobra.Command {
	var (
		mappingsFlag string
		outputFlag   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resource mappings",
		Long: `List the resource types the converter can map to Ansible modules.

Shows the effective table: built-in entries with the overlay applied.
Overlay entries replace built-ins wholesale on type collision.

Examples:
  # Built-in mappings
  chefport mappings list

  # Effective table with an overlay applied
  chefport mappings list -m mappings.yaml

  # Full entries as YAML
  chefport mappings list -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMappingsList(mappingsFlag, outputFlag)
		},
	}

	cmd.Flags().StringVarP(&mappingsFlag, "mappings", "m", "",
		"Resource mapping overlay file (env: CHEFPORT_MAPPINGS)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "table",
		"Output format (table, yaml, json)")

	return cmd
}

// runMappingsList executes the mappings list command.
func runMappingsList(mappingsFlag, outputFmt string) error {
	cfg := GetConfig()

	format, ok := output.ParseFormat(outputFmt)
	if !ok {
		return &oerrors.ExitError{
			Code: ExitGeneralError,
			Err: fmt.Errorf("invalid output format %q (valid: %s)",
				outputFmt, strings.Join(output.ValidFormats(), ", ")),
		}
	}

	mappings := config.ResolveMappings(mappingsFlag, cfg.Mappings)
	config.LogResolvedValues([]config.ResolvedValue{mappings})

	registry, err := mapping.NewRegistryWithOverlay(mappings.Value)
	if err != nil {
		output.Error("loading mapping overlay", "error", err)
		return &oerrors.ExitError{Code: ExitCodeFromError(err), Err: err, Printed: true}
	}

	types := registry.Types()

	switch format {
	case output.FormatJSON, output.FormatYAML:
		entries := map[string]mapping.Entry{}
		for _, resourceType := range types {
			if entry, ok := registry.Lookup(resourceType); ok {
				entries[resourceType] = entry
			}
		}
		var data []byte
		var err error
		if format == output.FormatJSON {
			data, err = json.MarshalIndent(entries, "", "  ")
		} else {
			data, err = yaml.Marshal(entries)
		}
		if err != nil {
			return &oerrors.ExitError{Code: ExitGeneralError, Err: err}
		}
		output.Print(string(data))
		if format == output.FormatJSON {
			output.Println("")
		}
	default:
		t := output.NewTable("TYPE", "ANSIBLE MODULE", "PROPERTIES", "VALUE MAPS")
		for _, resourceType := range types {
			entry, ok := registry.Lookup(resourceType)
			if !ok {
				// Handler-registered type with no table entry.
				t.Row(resourceType, "(handler)", "-", "-")
				continue
			}
			t.Row(
				resourceType,
				entry.AnsibleModule,
				strconv.Itoa(len(entry.PropertyMapping)),
				strconv.Itoa(len(entry.ValueMapping)),
			)
		}
		output.Println(t.String())
		output.Println("")
		output.Println(fmt.Sprintf("%d resource types mapped", len(types)))
	}

	return nil
}
