package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chefport/cli/internal/config"
	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the chefport CLI configuration file.

Checks performed:
  1. Config file exists at the resolved path
  2. File parses as YAML
  3. Values pass validation (workers, output, mappings extension)

The config path is resolved using precedence:
  --config flag > CHEFPORT_CONFIG env > ~/.chefport/config.yaml

On success the effective configuration is printed, with environment
overrides applied.

Examples:
  # Validate default configuration
  chefport config vet

  # Validate a custom config path
  chefport config vet --config /path/to/config.yaml`,
		RunE: runConfigVet,
	}

	return cmd
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	pathResult, err := config.ResolveConfigPath(GetConfigPath())
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not resolve config path")
	}

	configPath := pathResult.Value

	output.Debug("validating config",
		"path", configPath,
		"source", pathResult.Source,
	)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &oerrors.DetailError{
			Type:     "not found",
			Message:  "configuration file not found",
			Location: configPath,
			Hint:     "Run 'chefport config init' to create default configuration",
			Cause:    oerrors.ErrNotFound,
		}
	}

	if err := config.NewValidator().ValidateFile(configPath); err != nil {
		return &oerrors.ExitError{Code: ExitValidationError, Err: err}
	}

	// Report the effective configuration, environment overrides included.
	cfg, err := config.NewLoader().LoadWithDefaults(configPath)
	if err != nil {
		return &oerrors.ExitError{Code: ExitValidationError, Err: err}
	}

	mappings := cfg.Mappings
	if mappings == "" {
		mappings = "(built-in only)"
	}

	output.Println("Configuration is valid: " + configPath)
	output.Println("")
	output.Println("Effective configuration:")
	output.Println("  output:         " + cfg.Output)
	output.Println("  mappings:       " + mappings)
	output.Println(fmt.Sprintf("  workers:        %d", cfg.Workers))
	output.Println(fmt.Sprintf("  validate:       %t", cfg.ShouldValidate()))
	output.Println(fmt.Sprintf("  log.timestamps: %t", cfg.ShowTimestamps()))

	return nil
}
