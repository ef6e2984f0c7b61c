package ansible

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// DiffResult holds the differences between two role trees.
type DiffResult struct {
	// HasChanges indicates if there are differences.
	HasChanges bool

	// Added files (in the second role, not the first).
	Added []string

	// Removed files (in the first role, not the second).
	Removed []string

	// Modified files, with rendered diffs.
	Modified []ModifiedFile
}

// ModifiedFile is one changed file.
type ModifiedFile struct {
	// Path is the role-relative file path.
	Path string

	// Diff is the rendered diff output.
	Diff string
}

// NewDiffResult creates a new empty DiffResult.
func NewDiffResult() *DiffResult {
	return &DiffResult{
		Added:    make([]string, 0),
		Removed:  make([]string, 0),
		Modified: make([]ModifiedFile, 0),
	}
}

// IsEmpty returns true if there are no changes.
func (r *DiffResult) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// AddAdded records a file present only in the second role.
func (r *DiffResult) AddAdded(path string) {
	r.Added = append(r.Added, path)
	r.HasChanges = true
}

// AddRemoved records a file present only in the first role.
func (r *DiffResult) AddRemoved(path string) {
	r.Removed = append(r.Removed, path)
	r.HasChanges = true
}

// AddModified records a file that differs between the roles.
func (r *DiffResult) AddModified(path, diff string) {
	r.Modified = append(r.Modified, ModifiedFile{
		Path: path,
		Diff: diff,
	})
	r.HasChanges = true
}

// Summary returns a summary string of changes.
func (r *DiffResult) Summary() string {
	if r.IsEmpty() {
		return "No changes"
	}

	parts := make([]string, 0, 3)
	if len(r.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(r.Added)))
	}
	if len(r.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(r.Removed)))
	}
	if len(r.Modified) > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", len(r.Modified)))
	}

	return strings.Join(parts, ", ")
}

// DiffRoles compares two role directories file by file. YAML files are
// compared semantically with dyff; everything else is compared by content
// with a plain marker for the modified list.
func DiffRoles(aDir, bDir string, useColor bool) (*DiffResult, error) {
	aFiles, err := listRoleFiles(aDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", aDir, err)
	}
	bFiles, err := listRoleFiles(bDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", bDir, err)
	}

	result := NewDiffResult()

	union := map[string]bool{}
	for rel := range aFiles {
		union[rel] = true
	}
	for rel := range bFiles {
		union[rel] = true
	}

	paths := make([]string, 0, len(union))
	for rel := range union {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		inA := aFiles[rel]
		inB := bFiles[rel]

		switch {
		case !inA:
			result.AddAdded(rel)
			continue
		case !inB:
			result.AddRemoved(rel)
			continue
		}

		aData, err := os.ReadFile(filepath.Join(aDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		bData, err := os.ReadFile(filepath.Join(bDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}

		if bytes.Equal(aData, bData) {
			continue
		}

		if !isYAMLPath(rel) {
			result.AddModified(rel, "content differs")
			continue
		}

		diff, err := diffYAML(rel, aData, bData, useColor)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", rel, err)
		}
		if diff != "" {
			result.AddModified(rel, diff)
		}
	}

	return result, nil
}

// listRoleFiles collects role-relative file paths under dir.
func listRoleFiles(dir string) (map[string]bool, error) {
	files := map[string]bool{}

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func isYAMLPath(rel string) bool {
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

// diffYAML computes a YAML-aware diff using dyff. Returns empty string when
// the documents are semantically equal.
func diffYAML(rel string, a, b []byte, useColor bool) (string, error) {
	aInput, err := parseYAMLInput(rel, a)
	if err != nil {
		return "", fmt.Errorf("parsing first %s: %w", rel, err)
	}
	bInput, err := parseYAMLInput(rel, b)
	if err != nil {
		return "", fmt.Errorf("parsing second %s: %w", rel, err)
	}

	report, err := dyff.CompareInputFiles(aInput, bInput)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}

	if len(report.Diffs) == 0 {
		return "", nil
	}

	return renderDyffReport(report, useColor)
}

// parseYAMLInput parses YAML bytes into a dyff input file.
func parseYAMLInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{
			Location:  name,
			Documents: nil,
		}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	return ytbx.InputFile{
		Location:  name,
		Documents: docs,
	}, nil
}

// renderDyffReport renders a dyff report to a string.
func renderDyffReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}

	if err := reportWriter.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
