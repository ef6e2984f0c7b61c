package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chefport/cli/internal/config"
	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/output"
)

var configInitForce bool

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the chefport CLI configuration.

Creates ~/.chefport/config.yaml with every setting commented out, so the
file documents the defaults without changing behavior. Uncomment and
edit the keys you want to pin.

Examples:
  # Initialize configuration
  chefport config init

  # Overwrite existing configuration
  chefport config init --force`,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
	}

	if _, err := os.Stat(paths.ConfigFile); err == nil && !configInitForce {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: paths.ConfigFile,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	if err := config.EnsureHomeDir(); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not create ~/.chefport directory")
	}

	if err := os.WriteFile(paths.ConfigFile, []byte(config.DefaultConfigTemplate), 0o644); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not write config.yaml")
	}

	output.Println("Configuration initialized at " + paths.HomeDir)
	output.Println("")
	output.Println("Created files:")
	output.Println("  " + paths.ConfigFile)
	output.Println("")
	output.Println("Validate with: chefport config vet")

	return nil
}
