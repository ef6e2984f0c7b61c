// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// TempDir creates a temporary directory for tests and returns a cleanup function.
func TempDir(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "chefport-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("warning: failed to remove temp dir %s: %v", dir, err)
		}
	}
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// CookbookSpec describes a fixture cookbook.
type CookbookSpec struct {
	// Name is the cookbook directory name, and the metadata name when
	// Metadata is left empty.
	Name string

	// Metadata is the metadata.rb content. When empty a minimal one naming
	// the cookbook is generated.
	Metadata string

	// Recipes maps recipe names (without .rb) to their content.
	Recipes map[string]string

	// Attributes maps attribute file names (without .rb) to their content.
	Attributes map[string]string

	// Templates maps paths relative to templates/ to their content.
	Templates map[string]string

	// Files maps paths relative to files/ to their content.
	Files map[string]string

	// Resources maps custom resource names (without .rb) to their content.
	Resources map[string]string

	// Libraries maps library names (without .rb) to their content.
	Libraries map[string]string
}

// WriteCookbook materializes a cookbook fixture under root and returns the
// cookbook directory.
func WriteCookbook(t *testing.T, root string, spec CookbookSpec) string {
	t.Helper()

	dir := filepath.Join(root, spec.Name)

	metadata := spec.Metadata
	if metadata == "" {
		metadata = fmt.Sprintf("name '%s'\nversion '0.1.0'\n", spec.Name)
	}
	WriteFile(t, dir, "metadata.rb", metadata)

	for name, content := range spec.Recipes {
		WriteFile(t, dir, filepath.Join("recipes", name+".rb"), content)
	}
	for name, content := range spec.Attributes {
		WriteFile(t, dir, filepath.Join("attributes", name+".rb"), content)
	}
	for rel, content := range spec.Templates {
		WriteFile(t, dir, filepath.Join("templates", rel), content)
	}
	for rel, content := range spec.Files {
		WriteFile(t, dir, filepath.Join("files", rel), content)
	}
	for name, content := range spec.Resources {
		WriteFile(t, dir, filepath.Join("resources", name+".rb"), content)
	}
	for name, content := range spec.Libraries {
		WriteFile(t, dir, filepath.Join("libraries", name+".rb"), content)
	}

	return dir
}

// WriteDataBag writes data bag items under root/data_bags/<bag>/ so that
// cookbooks under root/cookbooks/ can resolve them.
func WriteDataBag(t *testing.T, root, bag string, items map[string]string) {
	t.Helper()
	for name, content := range items {
		WriteFile(t, root, filepath.Join("data_bags", bag, name+".json"), content)
	}
}
