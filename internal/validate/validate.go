// Package validate checks generated Ansible roles.
//
// CheckRole covers what can be verified without running Ansible: the role
// tree shape and YAML syntax. External tools (ansible-lint, playbook dry
// runs) sit behind the Linter seam and their findings are surfaced as-is.
package validate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Result aggregates the findings of one role check.
type Result struct {
	// Errors are findings that make the role unusable.
	Errors []string

	// Warnings are findings worth review that do not block use.
	Warnings []string

	// Passed lists the checks that succeeded, for the vet report.
	Passed []string
}

// Valid reports whether the role passed without errors.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Summary returns a one-line digest of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d passed, %d warnings, %d errors",
		len(r.Passed), len(r.Warnings), len(r.Errors))
}

// requiredFiles must exist for a role to be loadable at all.
var requiredFiles = []string{
	filepath.Join("tasks", "main.yml"),
	filepath.Join("meta", "main.yml"),
}

// expectedDirs are conventionally present; their absence is only a warning
// since a role without handlers or templates is still valid.
var expectedDirs = []string{"tasks", "handlers", "templates"}

// CheckRole validates the role tree at dir: structure first, then a YAML
// syntax walk over every .yml/.yaml file. Findings accumulate; the check
// never stops at the first problem.
func CheckRole(dir string) *Result {
	result := &Result{}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		result.Errors = append(result.Errors, fmt.Sprintf("role directory not found: %s", dir))
		return result
	}

	for _, sub := range expectedDirs {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("missing directory: %s", sub))
		}
	}

	for _, rel := range requiredFiles {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("missing required file: %s", filepath.ToSlash(rel)))
		} else {
			result.Passed = append(result.Passed, fmt.Sprintf("found required file: %s", filepath.ToSlash(rel)))
		}
	}

	checkYAMLSyntax(dir, result)

	return result
}

// checkYAMLSyntax parses every YAML file under dir, collecting one error
// per unparseable file.
func checkYAMLSyntax(dir string, result *Result) {
	valid := 0

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isYAMLName(d.Name()) {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unreadable YAML file %s: %v", rel, readErr))
			return nil
		}

		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("invalid YAML in %s: %v", rel, err))
			return nil
		}

		valid++
		return nil
	})

	if valid > 0 {
		result.Passed = append(result.Passed, fmt.Sprintf("%d YAML files parse", valid))
	}
}

func isYAMLName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

// Linter runs an external check (ansible-lint, a playbook dry run) against
// a role directory and returns its messages verbatim. Implementations that
// shell out live with the callers that own process execution; the pipeline
// only consumes the seam.
type Linter interface {
	Lint(ctx context.Context, dir string) ([]string, error)
}

// LinterFunc adapts a function to the Linter interface.
type LinterFunc func(ctx context.Context, dir string) ([]string, error)

// Lint implements Linter.
func (f LinterFunc) Lint(ctx context.Context, dir string) ([]string, error) {
	return f(ctx, dir)
}
