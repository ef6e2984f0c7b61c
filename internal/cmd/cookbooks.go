package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/chefport/cli/internal/chef"
	oerrors "github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/output"
	"github.com/chefport/cli/internal/repo"
)

// cookbookInfo is one row of the cookbooks listing.
type cookbookInfo struct {
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	Path       string `json:"path"`
	Recipes    int    `json:"recipes"`
	Attributes int    `json:"attributes"`
	Templates  int    `json:"templates"`
	Files      int    `json:"files"`
	Resources  int    `json:"resources"`
	Libraries  int    `json:"libraries"`
	DataBags   int    `json:"dataBags"`
}

// NewCookbooksCmd creates the cookbooks command.
func NewCookbooksCmd() *cobra.Command {
	var (
		outputFlag string
		treeFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "cookbooks <source>",
		Short: "List cookbooks in a source tree",
		Long: `List the cookbooks chefport would convert, with facet counts.

Discovery walks the source for directories containing metadata.rb. For
each cookbook the listing counts its recipes, attribute files,
templates, static files, custom resources, libraries, and data bags.

Arguments:
  source    Path to a cookbook tree or .zip archive

Examples:
  # Table of cookbooks under ./cookbooks
  chefport cookbooks ./cookbooks

  # JSON for scripting
  chefport cookbooks ./cookbooks -o json

  # Per-cookbook file tree
  chefport cookbooks ./cookbooks --tree`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCookbooks(args[0], outputFlag, treeFlag)
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "table",
		"Output format (table, yaml, json)")
	cmd.Flags().BoolVar(&treeFlag, "tree", false,
		"Show each cookbook's files as a tree")

	return cmd
}

// runCookbooks executes the cookbooks command.
func runCookbooks(source, outputFmt string, tree bool) error {
	ctx := context.Background()

	format, ok := output.ParseFormat(outputFmt)
	if !ok {
		return &oerrors.ExitError{
			Code: ExitGeneralError,
			Err: fmt.Errorf("invalid output format %q (valid: %s)",
				outputFmt, strings.Join(output.ValidFormats(), ", ")),
		}
	}

	root, cleanup, err := repo.NewLocal().Fetch(ctx, source)
	if err != nil {
		output.Error("reading source", "error", err)
		return &oerrors.ExitError{Code: ExitCodeFromError(err), Err: err, Printed: true}
	}
	defer cleanup()

	refs, err := chef.FindCookbooks(root)
	if err != nil {
		return oerrors.NewAcquisitionError(err.Error(), map[string]string{"source": source}, "")
	}
	if len(refs) == 0 {
		return &oerrors.ExitError{Code: ExitNotFound, Err: oerrors.ErrNoCookbooks}
	}

	cookbooks := make([]*chef.Cookbook, 0, len(refs))
	for _, ref := range refs {
		cb, err := chef.ParseCookbook(ref.Path)
		if err != nil {
			output.CookbookLogger(ref.Name).Warn("skipping unparseable cookbook", "error", err)
			continue
		}
		cookbooks = append(cookbooks, cb)
	}

	if tree {
		for i, cb := range cookbooks {
			if i > 0 {
				output.Println("")
			}
			output.Print(output.RenderFileTree(cb.Name, cookbookTreeFiles(cb)))
		}
		return nil
	}

	infos := make([]cookbookInfo, 0, len(cookbooks))
	for _, cb := range cookbooks {
		infos = append(infos, cookbookFacets(cb))
	}

	switch format {
	case output.FormatJSON:
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return &oerrors.ExitError{Code: ExitGeneralError, Err: err}
		}
		output.Println(string(data))
	case output.FormatYAML:
		data, err := yaml.Marshal(infos)
		if err != nil {
			return &oerrors.ExitError{Code: ExitGeneralError, Err: err}
		}
		output.Print(string(data))
	default:
		output.Println(cookbookTable(infos))
	}

	return nil
}

// cookbookFacets counts the facets of one parsed cookbook.
func cookbookFacets(cb *chef.Cookbook) cookbookInfo {
	return cookbookInfo{
		Name:       cb.Name,
		Version:    cb.Metadata.Version,
		Path:       cb.Path,
		Recipes:    len(cb.Recipes),
		Attributes: len(cb.Attributes),
		Templates:  len(cb.Templates),
		Files:      len(cb.Files),
		Resources:  len(cb.Resources),
		Libraries:  len(cb.Libraries),
		DataBags:   len(cb.DataBags),
	}
}

// cookbookTable renders the facet counts as a table.
func cookbookTable(infos []cookbookInfo) string {
	t := output.NewTable("COOKBOOK", "VERSION", "RECIPES", "ATTRIBUTES", "TEMPLATES", "FILES", "CUSTOM", "LIBRARIES", "DATA BAGS")
	for _, info := range infos {
		version := info.Version
		if version == "" {
			version = "-"
		}
		t.Row(
			info.Name,
			version,
			strconv.Itoa(info.Recipes),
			strconv.Itoa(info.Attributes),
			strconv.Itoa(info.Templates),
			strconv.Itoa(info.Files),
			strconv.Itoa(info.Resources),
			strconv.Itoa(info.Libraries),
			strconv.Itoa(info.DataBags),
		)
	}
	return t.String()
}

// cookbookTreeFiles maps a cookbook's files to facet descriptions for the
// tree view. Data bags are repository-level and do not appear here.
func cookbookTreeFiles(cb *chef.Cookbook) map[string]string {
	files := map[string]string{
		"metadata.rb": "cookbook metadata",
	}
	for _, r := range cb.Recipes {
		files[filepath.Join("recipes", filepath.Base(r.Path))] = "recipe"
	}
	for _, a := range cb.Attributes {
		files[filepath.Join("attributes", filepath.Base(a.Path))] = "attributes"
	}
	for _, t := range cb.Templates {
		files[filepath.Join("templates", t.Path)] = "ERB template"
	}
	for _, f := range cb.Files {
		files[filepath.Join("files", f.Path)] = "static file"
	}
	for _, r := range cb.Resources {
		files[filepath.Join("resources", filepath.Base(r.Path))] = "custom resource"
	}
	for _, l := range cb.Libraries {
		files[filepath.Join("libraries", filepath.Base(l.Path))] = "library"
	}
	return files
}
