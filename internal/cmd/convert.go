package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chefport/cli/internal/config"
	"github.com/chefport/cli/internal/convert"
	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/manifest"
	"github.com/chefport/cli/internal/output"
)

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	// Convert-specific flags (local to this command)
	var (
		outDirFlag   string
		mappingsFlag string
		workersFlag  int
		noValidate   bool
		forceFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "convert <source>",
		Short: "Convert Chef cookbooks to Ansible roles",
		Long: `Convert every cookbook under a source path into an Ansible role.

The source may be a single cookbook, a repository checkout containing
many cookbooks, or a .zip archive. Each cookbook becomes one role under
the output directory:

  recipes/     -> tasks/main.yml (notifications become handlers/main.yml)
  attributes/  -> defaults/main.yml
  templates/   -> templates/*.j2 (ERB transpiled to Jinja2)
  files/       -> files/

Resource blocks outside the known vocabulary become placeholder tasks
marked TODO. A mapping overlay (--mappings) teaches the converter how to
turn them into real module calls.

Cookbooks are converted in parallel; one failing cookbook never stops
the others. A conversion manifest is written under the output directory
so 'chefport status' can tell when sources drift.

Arguments:
  source    Path to a cookbook tree or .zip archive

Examples:
  # Convert a cookbook repository into ./roles
  chefport convert ./cookbooks

  # Convert into a specific directory with a mapping overlay
  chefport convert ./cookbooks -d ./ansible/roles -m mappings.yaml

  # Re-run into a non-empty output directory
  chefport convert ./cookbooks --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], outDirFlag, mappingsFlag, workersFlag, noValidate, forceFlag)
		},
	}

	cmd.Flags().StringVarP(&outDirFlag, "out-dir", "d", "",
		"Output directory for converted roles (env: CHEFPORT_OUTPUT)")
	cmd.Flags().StringVarP(&mappingsFlag, "mappings", "m", "",
		"Resource mapping overlay file (env: CHEFPORT_MAPPINGS)")
	cmd.Flags().IntVar(&workersFlag, "workers", 0,
		"Number of cookbooks converted in parallel (default: from config)")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false,
		"Skip validation of generated roles")
	cmd.Flags().BoolVar(&forceFlag, "force", false,
		"Write into a non-empty output directory")

	return cmd
}

// runConvert executes the convert command.
func runConvert(source, outDirFlag, mappingsFlag string, workersFlag int, noValidate, force bool) error {
	ctx := context.Background()
	cfg := GetConfig()

	outDir := config.ResolveOutput(outDirFlag, cfg.Output)
	mappings := config.ResolveMappings(mappingsFlag, cfg.Mappings)
	config.LogResolvedValues([]config.ResolvedValue{outDir, mappings})

	workers := workersFlag
	if workers <= 0 {
		workers = cfg.Workers
	}

	validate := cfg.ShouldValidate()
	if noValidate {
		validate = false
	}

	opts := convert.Options{
		Source:   source,
		OutDir:   outDir.Value,
		Mappings: mappings.Value,
		Workers:  workers,
		Validate: validate,
		Force:    force,
	}

	output.Debug("starting conversion",
		"source", source,
		"out_dir", opts.OutDir,
		"mappings", opts.Mappings,
		"workers", workers,
		"validate", validate,
	)

	pipeline := convert.NewPipeline()

	var result *convert.Result
	err := output.RunWithSpinner(ctx, func() error {
		var runErr error
		result, runErr = pipeline.Run(ctx, opts)
		return runErr
	}, output.WithTitle("Converting cookbooks..."))
	if err != nil {
		output.Error("conversion failed", "error", err)
		return &oerrors.ExitError{Code: ExitCodeFromError(err), Err: err, Printed: true}
	}

	for _, cb := range result.Cookbooks {
		output.Println(output.FormatCookbookLine(cb.Cookbook, cb.Role, cb.Status))
		if cb.Err != nil {
			output.CookbookLogger(cb.Cookbook).Error("conversion failed", "error", cb.Err)
		}
	}

	writeManifest(result, opts.OutDir)

	output.Println("")
	if result.Failed() > 0 {
		output.Println(result.Summary())
		err := fmt.Errorf("%d of %d cookbooks failed", result.Failed(), len(result.Cookbooks))
		return &oerrors.ExitError{Code: ExitGeneralError, Err: err, Printed: true}
	}
	output.Println(output.FormatCheckmark(result.Summary()))

	return nil
}

// writeManifest merges this run into the conversion manifest. Entries for
// cookbooks that were not regenerated this run are carried forward.
// Manifest trouble never fails a conversion that already wrote its roles.
func writeManifest(result *convert.Result, outDir string) {
	previous, err := manifest.Load(outDir)
	if err != nil {
		output.Warn("ignoring unreadable conversion manifest", "error", err)
	}

	m := manifest.New(result.RunID)
	if previous != nil {
		m.Entries = previous.Entries
	}

	for _, cb := range result.Cookbooks {
		if cb.Err != nil {
			continue
		}
		m.Upsert(manifest.Entry{
			Role:         cb.Role,
			Cookbook:     cb.Cookbook,
			Source:       cb.Source,
			SourceDigest: cb.SourceDigest,
			Files:        cb.FilesWritten,
			Resources:    cb.Resources,
			Skipped:      cb.SkippedResources,
			Placeholders: cb.Placeholders,
		})
	}

	if err := m.Write(outDir); err != nil {
		output.Warn("could not write conversion manifest", "error", err)
	}
}
