// Package convert orchestrates cookbook-to-role conversion runs.
//
// The pipeline composes the acquisition provider, the recipe translator,
// the mapping registry and the role writer. Cookbooks convert in parallel
// and independently: one bad cookbook degrades its own result and nothing
// else. Only two conditions abort a run, a source that cannot be acquired
// and a source with no cookbooks at all.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chefport/cli/internal/ansible"
	"github.com/chefport/cli/internal/chef"
	"github.com/chefport/cli/internal/errors"
	"github.com/chefport/cli/internal/manifest"
	"github.com/chefport/cli/internal/mapping"
	"github.com/chefport/cli/internal/output"
	"github.com/chefport/cli/internal/repo"
	"github.com/chefport/cli/internal/template"
	"github.com/chefport/cli/internal/translator"
	"github.com/chefport/cli/internal/validate"
)

// defaultWorkers bounds cookbook parallelism when Options leaves it unset.
const defaultWorkers = 4

// Options control one conversion run.
type Options struct {
	// Source is the cookbook source: a directory or a .zip archive.
	Source string

	// OutDir is where role directories are written.
	OutDir string

	// Mappings is an optional resource-mapping overlay file.
	Mappings string

	// Workers bounds cookbook-level parallelism. Zero means the default.
	Workers int

	// Validate runs the role checks after each write.
	Validate bool

	// Force allows writing into a non-empty output directory.
	Force bool
}

// Pipeline wires the conversion collaborators. Zero-value fields fall back
// to the defaults: local acquisition, the rule-based translator, and the
// built-in registry overlaid from Options.Mappings.
type Pipeline struct {
	Translator translator.Translator
	Provider   repo.Provider

	// Registry overrides overlay construction, letting callers register
	// handlers before the run. Registry mutation must finish before Run;
	// the transform phase reads it concurrently.
	Registry *mapping.Registry

	// Linter adds external checks to validation when set.
	Linter validate.Linter
}

// NewPipeline returns a pipeline with the default collaborators.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Translator: translator.NewOffline(),
		Provider:   repo.NewLocal(),
	}
}

// Run converts every cookbook under the source and writes one role each.
// Per-cookbook failures are recorded in the result, not returned; the error
// return covers only whole-run failures: acquisition, an empty source, an
// unusable output directory, a bad overlay, or context cancellation.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	registry := p.Registry
	if registry == nil {
		var err error
		registry, err = mapping.NewRegistryWithOverlay(opts.Mappings)
		if err != nil {
			return nil, err
		}
	}

	provider := p.Provider
	if provider == nil {
		provider = repo.NewLocal()
	}
	tr := p.Translator
	if tr == nil {
		tr = translator.NewOffline()
	}

	root, cleanup, err := provider.Fetch(ctx, opts.Source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	refs, err := chef.FindCookbooks(root)
	if err != nil {
		return nil, errors.NewAcquisitionError(
			fmt.Sprintf("cannot read source tree: %v", err),
			map[string]string{"source": opts.Source},
			"check the path and its permissions",
		)
	}
	if len(refs) == 0 {
		return nil, errors.ErrNoCookbooks
	}

	if err := checkOutDir(opts.OutDir, opts.Force); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	result := &Result{
		RunID:     uuid.NewString(),
		OutDir:    opts.OutDir,
		Cookbooks: make([]*CookbookResult, len(refs)),
	}
	output.Debug("starting conversion", "run", result.RunID, "cookbooks", len(refs), "workers", workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			result.Cookbooks[i] = p.convertCookbook(gctx, registry, tr, ref, opts)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// convertCookbook runs the full per-cookbook flow: parse, translate recipes,
// resolve placeholders, convert attributes and templates, assemble the role,
// write it, and optionally validate. Errors land in the result.
func (p *Pipeline) convertCookbook(ctx context.Context, registry *mapping.Registry, tr translator.Translator, ref chef.CookbookRef, opts Options) *CookbookResult {
	log := output.CookbookLogger(ref.Name)
	res := &CookbookResult{Cookbook: ref.Name, Source: ref.Path}
	defer res.resolveStatus()

	log.Debug("parsing cookbook", "path", ref.Path)
	cb, err := chef.ParseCookbook(ref.Path)
	if err != nil {
		res.Err = err
		return res
	}

	role := &ansible.Role{
		Name:      ansible.SanitizeRoleName(cb.Name),
		Cookbook:  cb.Name,
		Variables: map[string]interface{}{},
	}
	res.Role = role.Name

	seenHandlers := map[string]bool{}
	for _, recipe := range cb.Recipes {
		if recipe.Content == "" {
			res.UnreadableRecipes++
			log.Warn("recipe has no usable content", "recipe", recipe.Name)
			continue
		}

		res.Resources += len(recipe.Resources)
		res.SkippedResources += len(recipe.Skipped)
		for _, skipped := range recipe.Skipped {
			log.Debug("resource outside the extraction vocabulary",
				"recipe", recipe.Name, "type", skipped.Type, "line", skipped.Line)
		}

		response, err := tr.Translate(ctx, translator.Request{Recipe: recipe.Content})
		if err != nil {
			res.TranslateFailures++
			log.Error("recipe translation failed", "recipe", recipe.Name, "err", err)
			continue
		}
		sections := translator.ExtractSections(response)

		tasks, resolved := ResolvePlaceholders(registry, sections.Tasks)
		res.ResolvedPlaceholders += resolved
		role.Tasks = append(role.Tasks, tasks...)

		// Handlers dedupe by name across recipes; first definition wins.
		for _, handler := range sections.Handlers {
			if seenHandlers[handler.Name] {
				continue
			}
			seenHandlers[handler.Name] = true
			role.Handlers = append(role.Handlers, handler)
		}
		for k, v := range sections.Variables {
			role.Variables[k] = v
		}
	}

	for _, attr := range cb.Attributes {
		for k, v := range translator.ConvertAttributes(attr.Content) {
			role.Variables[k] = v
		}
	}

	for _, tmpl := range cb.Templates {
		converted, ok := template.TranspileFile(tmpl)
		if !ok {
			res.SkippedTemplates++
			log.Warn("template content unreadable, skipping", "template", tmpl.Path)
			continue
		}
		role.Templates = append(role.Templates, ansible.RoleFile{
			Path:    converted.Path,
			Content: converted.Content,
		})
	}

	for _, file := range cb.Files {
		content, err := os.ReadFile(filepath.Join(cb.Path, "files", filepath.FromSlash(file.Path)))
		if err != nil {
			content = nil
			log.Warn("static file unreadable, writing an empty placeholder", "file", file.Path)
		}
		role.Files = append(role.Files, ansible.RoleFile{Path: file.Path, Content: content})
	}

	if added := role.FillMissingVariables(); len(added) > 0 {
		log.Debug("defaulted undefined variables", "count", len(added))
	}

	res.Tasks = len(role.Tasks)
	res.Handlers = len(role.Handlers)
	res.Variables = len(role.Variables)
	res.Templates = len(role.Templates)
	res.Placeholders = CountPlaceholders(role.Tasks)

	roleDir := filepath.Join(opts.OutDir, role.Name)
	log.Debug("writing role", "dir", roleDir)
	if err := ansible.WriteRole(roleDir, role); err != nil {
		res.Err = err
		return res
	}
	// tasks, handlers, defaults, meta mains plus the README.
	res.FilesWritten = 5 + len(role.Templates) + len(role.Files)

	if digest, err := manifest.ComputeSourceDigest(ref.Path); err == nil {
		res.SourceDigest = digest
	} else {
		log.Warn("source digest unavailable", "err", err)
	}

	if opts.Validate {
		check := validate.CheckRole(roleDir)
		if p.Linter != nil {
			findings, err := p.Linter.Lint(ctx, roleDir)
			if err != nil {
				log.Warn("external lint failed", "err", err)
			}
			check.Warnings = append(check.Warnings, findings...)
		}
		res.Validation = check

		for _, warning := range check.Warnings {
			log.Warn(warning)
		}
		for _, problem := range check.Errors {
			log.Error(problem)
		}
	}

	return res
}

// checkOutDir refuses a non-empty output directory unless forced. A missing
// directory is fine; WriteRole creates it.
func checkOutDir(dir string, force bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if os.IsPermission(err) {
			return errors.NewPermissionError(
				fmt.Sprintf("cannot open output directory %s", dir),
				map[string]string{"dir": dir},
				"check the directory permissions",
			)
		}
		return fmt.Errorf("reading output directory: %w", err)
	}

	if len(entries) == 0 || force {
		return nil
	}
	return errors.NewValidationError(
		fmt.Sprintf("output directory %s is not empty", dir),
		dir, "",
		"re-run with --force to write into it anyway",
	)
}
