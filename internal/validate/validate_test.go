package validate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefport/cli/internal/ansible"
	"github.com/chefport/cli/internal/testutil"
)

func writeMinimalRole(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "demo")
	require.NoError(t, ansible.WriteRole(dir, &ansible.Role{
		Name:     "demo",
		Cookbook: "demo",
		Tasks: []ansible.Task{{
			Name:   "Install nginx",
			Module: "ansible.builtin.package",
			Params: map[string]interface{}{"name": "nginx", "state": "present"},
		}},
	}))
	return dir
}

func TestCheckRole_GeneratedRolePasses(t *testing.T) {
	dir := writeMinimalRole(t)

	result := CheckRole(dir)

	assert.True(t, result.Valid())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.Passed)
}

func TestCheckRole_MissingDirectory(t *testing.T) {
	result := CheckRole(filepath.Join(t.TempDir(), "absent"))

	assert.False(t, result.Valid())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "role directory not found")
}

func TestCheckRole_MissingRequiredFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, filepath.Join("tasks", "other.yml"), "[]\n")

	result := CheckRole(dir)

	assert.False(t, result.Valid())
	assert.Contains(t, result.Errors, "missing required file: tasks/main.yml")
	assert.Contains(t, result.Errors, "missing required file: meta/main.yml")
	// tasks/ exists, handlers/ and templates/ do not.
	assert.Contains(t, result.Warnings, "missing directory: handlers")
	assert.Contains(t, result.Warnings, "missing directory: templates")
	assert.NotContains(t, result.Warnings, "missing directory: tasks")
}

func TestCheckRole_InvalidYAMLCollected(t *testing.T) {
	dir := writeMinimalRole(t)
	testutil.WriteFile(t, dir, filepath.Join("vars", "broken.yml"), "key: [unclosed\n")
	testutil.WriteFile(t, dir, filepath.Join("vars", "worse.yaml"), "\t{{tab start}}\n")

	result := CheckRole(dir)

	assert.False(t, result.Valid())
	require.Len(t, result.Errors, 2)
	for _, msg := range result.Errors {
		assert.Contains(t, msg, "invalid YAML")
	}
}

func TestResult_Summary(t *testing.T) {
	result := &Result{
		Errors:   []string{"e"},
		Warnings: []string{"w1", "w2"},
		Passed:   []string{"p"},
	}
	assert.Equal(t, "1 passed, 2 warnings, 1 errors", result.Summary())
}

func TestLinterFunc(t *testing.T) {
	linter := LinterFunc(func(_ context.Context, dir string) ([]string, error) {
		return []string{"lint: " + dir}, nil
	})

	msgs, err := linter.Lint(context.Background(), "/roles/demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"lint: /roles/demo"}, msgs)
}
