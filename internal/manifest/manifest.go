// Package manifest records what a conversion run produced.
//
// The manifest lives inside the output directory and maps each generated
// role back to its source cookbook with a content digest, so a later run
// can tell which roles are stale without re-reading the Chef sources in
// full. The kind/apiVersion header keeps the file self-describing and
// leaves room for schema migration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sigs.k8s.io/yaml"
)

const (
	// Kind identifies the manifest document type.
	Kind = "ConversionManifest"

	// APIVersion is the manifest schema version.
	APIVersion = "chefport.dev/v1alpha1"
)

// manifestDir and manifestFile locate the manifest inside the output
// directory.
const (
	manifestDir  = ".chefport"
	manifestFile = "manifest.yaml"
)

// Manifest is the persisted record of one conversion run. Entries from
// prior runs are carried forward when their roles are not regenerated.
type Manifest struct {
	Kind        string  `json:"kind"`
	APIVersion  string  `json:"apiVersion"`
	RunID       string  `json:"runId"`
	GeneratedAt string  `json:"generatedAt"`
	Entries     []Entry `json:"entries"`
}

// Entry maps one generated role to its source cookbook.
type Entry struct {
	// Role is the role directory name under the output directory.
	Role string `json:"role"`

	// Cookbook is the source cookbook name.
	Cookbook string `json:"cookbook"`

	// Source is the cookbook directory the role was converted from.
	Source string `json:"source"`

	// SourceDigest is the content digest of the cookbook at conversion
	// time, in "sha256:<hex>" form.
	SourceDigest string `json:"sourceDigest"`

	// Files counts the files written into the role.
	Files int `json:"files"`

	// Resources counts the Chef resources converted into tasks.
	Resources int `json:"resources"`

	// Skipped counts resource blocks outside the extractor vocabulary.
	Skipped int `json:"skipped,omitempty"`

	// Placeholders counts tasks still marked for manual conversion.
	Placeholders int `json:"placeholders,omitempty"`
}

// New returns a manifest stamped with the run ID and the current time.
func New(runID string) *Manifest {
	return &Manifest{
		Kind:        Kind,
		APIVersion:  APIVersion,
		RunID:       runID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Path returns the manifest location inside an output directory.
func Path(outDir string) string {
	return filepath.Join(outDir, manifestDir, manifestFile)
}

// Write serializes the manifest into outDir, creating the .chefport
// directory when needed.
func (m *Manifest) Write(outDir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	path := Path(outDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Load reads the manifest from outDir. A missing file returns (nil, nil)
// so callers can distinguish "no previous run" from a broken manifest.
func Load(outDir string) (*Manifest, error) {
	data, err := os.ReadFile(Path(outDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", Path(outDir), err)
	}
	if m.Kind != Kind {
		return nil, fmt.Errorf("unexpected manifest kind %q in %s", m.Kind, Path(outDir))
	}

	return &m, nil
}

// Upsert replaces the entry for the same role or appends a new one,
// keeping entries in role order stable across runs.
func (m *Manifest) Upsert(entry Entry) {
	for i := range m.Entries {
		if m.Entries[i].Role == entry.Role {
			m.Entries[i] = entry
			return
		}
	}
	m.Entries = append(m.Entries, entry)
}
