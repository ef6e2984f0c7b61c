package convert

import (
	"fmt"
	"strings"

	"github.com/chefport/cli/internal/output"
	"github.com/chefport/cli/internal/validate"
)

// CookbookResult records what happened to one cookbook. Degraded conditions
// are counted, never silently dropped: a reader of the result can account
// for every resource and template the parser saw.
type CookbookResult struct {
	// Cookbook is the source cookbook name.
	Cookbook string

	// Role is the generated role directory name.
	Role string

	// Source is the cookbook directory.
	Source string

	// SourceDigest is the cookbook content digest at conversion time.
	SourceDigest string

	// Status is one of the output.Status* constants.
	Status string

	// Tasks, Handlers, Variables and Templates count what the role carries.
	Tasks     int
	Handlers  int
	Variables int
	Templates int

	// Resources counts the vocabulary resources extracted from recipes.
	Resources int

	// SkippedResources counts blocks outside the extractor vocabulary.
	SkippedResources int

	// SkippedTemplates counts templates with unreadable content.
	SkippedTemplates int

	// UnreadableRecipes counts recipe files with no usable content.
	UnreadableRecipes int

	// TranslateFailures counts recipes whose translation errored.
	TranslateFailures int

	// Placeholders counts tasks still marked for manual conversion after
	// registry resolution.
	Placeholders int

	// ResolvedPlaceholders counts placeholder tasks the registry resolved.
	ResolvedPlaceholders int

	// FilesWritten counts files written into the role directory.
	FilesWritten int

	// Validation holds the post-write check when validation ran.
	Validation *validate.Result

	// Err is set when the cookbook failed outright.
	Err error
}

// resolveStatus derives the display status from the counters. A skipped
// resource that resolved through the registry no longer degrades the role,
// so the check looks at what is missing from the output, not at what the
// extractor could not see.
func (r *CookbookResult) resolveStatus() {
	switch {
	case r.Err != nil:
		r.Status = output.StatusFailed
	case r.Placeholders > 0:
		r.Status = output.StatusPlaceholder
	case r.UnreadableRecipes > 0 || r.TranslateFailures > 0 || r.SkippedTemplates > 0 ||
		(r.Validation != nil && !r.Validation.Valid()):
		r.Status = output.StatusPartial
	case r.Tasks == 0 && r.Templates == 0 && r.Variables == 0:
		r.Status = output.StatusSkipped
	default:
		r.Status = output.StatusConverted
	}
}

// Result is the outcome of one conversion run.
type Result struct {
	// RunID identifies this run in logs and the manifest.
	RunID string

	// OutDir is where the roles were written.
	OutDir string

	// Cookbooks holds per-cookbook results in discovery order.
	Cookbooks []*CookbookResult
}

// Converted counts cookbooks that produced a usable role (any status but
// failed and skipped).
func (r *Result) Converted() int {
	n := 0
	for _, cb := range r.Cookbooks {
		if cb.Status != output.StatusFailed && cb.Status != output.StatusSkipped {
			n++
		}
	}
	return n
}

// Failed counts cookbooks that errored outright.
func (r *Result) Failed() int {
	n := 0
	for _, cb := range r.Cookbooks {
		if cb.Status == output.StatusFailed {
			n++
		}
	}
	return n
}

// TotalTasks sums the tasks across all roles.
func (r *Result) TotalTasks() int {
	n := 0
	for _, cb := range r.Cookbooks {
		n += cb.Tasks
	}
	return n
}

// TotalSkippedResources sums out-of-vocabulary resource blocks.
func (r *Result) TotalSkippedResources() int {
	n := 0
	for _, cb := range r.Cookbooks {
		n += cb.SkippedResources
	}
	return n
}

// TotalPlaceholders sums tasks still needing manual conversion.
func (r *Result) TotalPlaceholders() int {
	n := 0
	for _, cb := range r.Cookbooks {
		n += cb.Placeholders
	}
	return n
}

// Summary renders the run outcome as one line, naming every degraded
// count so nothing disappears silently.
func (r *Result) Summary() string {
	parts := []string{fmt.Sprintf("converted %d of %d cookbooks (%d tasks)",
		r.Converted(), len(r.Cookbooks), r.TotalTasks())}

	if n := r.TotalSkippedResources(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d resources skipped: unrecognized type", n))
	}
	if n := r.TotalPlaceholders(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d placeholders need manual conversion", n))
	}
	if n := r.Failed(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d cookbooks failed", n))
	}

	return strings.Join(parts, "; ")
}
