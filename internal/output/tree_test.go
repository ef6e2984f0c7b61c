package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFileTree(t *testing.T) {
	files := map[string]string{
		"tasks/main.yml":           "12 tasks",
		"handlers/main.yml":        "2 handlers",
		"defaults/main.yml":        "5 variables",
		"templates/nginx.conf.j2":  "",
		"meta/main.yml":            "",
		"README.md":                "",
	}

	result := RenderFileTree("nginx", files)
	stripped := stripAnsi(result)

	assert.Contains(t, stripped, "nginx/", "should contain root name with trailing slash")
	assert.Contains(t, stripped, "main.yml", "should contain file names")
	assert.Contains(t, stripped, "12 tasks", "should contain descriptions")
	assert.Contains(t, stripped, "├── ", "should use tree connectors")
	assert.Contains(t, stripped, "└── ", "should use last-child connector")
}

func TestRenderFileTreeEmpty(t *testing.T) {
	result := RenderFileTree("nginx", map[string]string{})
	assert.Empty(t, result, "empty file map should render nothing")
}

func TestRenderFileTreeDirectoriesFirst(t *testing.T) {
	files := map[string]string{
		"README.md":      "",
		"tasks/main.yml": "",
	}

	result := stripAnsi(RenderFileTree("role", files))
	lines := strings.Split(strings.TrimSpace(result), "\n")

	// Root, then tasks/ (directory), then its child, then README.md last.
	assert.True(t, strings.Contains(lines[1], "tasks/"), "directory should come before file")
	assert.True(t, strings.Contains(lines[len(lines)-1], "README.md"), "file should come last")
}

func TestRenderFileTreeDescriptionAlignment(t *testing.T) {
	files := map[string]string{
		"a.yml":             "first",
		"longer-name.yml":   "second",
	}

	result := stripAnsi(RenderFileTree("role", files))
	lines := strings.Split(strings.TrimSpace(result), "\n")

	var idx []int
	for _, line := range lines {
		if i := strings.Index(line, "first"); i >= 0 {
			idx = append(idx, i)
		}
		if i := strings.Index(line, "second"); i >= 0 {
			idx = append(idx, i)
		}
	}

	assert.Len(t, idx, 2)
	assert.Equal(t, idx[0], idx[1], "descriptions should align to the same column")
}
