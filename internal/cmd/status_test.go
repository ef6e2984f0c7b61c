package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefport/cli/internal/manifest"
	"github.com/chefport/cli/internal/testutil"
)

func TestNewStatusCmd(t *testing.T) {
	cmd := NewStatusCmd()

	assert.Equal(t, "status", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("out-dir"))
	assert.NotNil(t, cmd.Flags().Lookup("output"))
}

func TestStatus_NoManifest(t *testing.T) {
	cmd := NewStatusCmd()
	cmd.SetArgs([]string{"-d", t.TempDir()})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conversion manifest")
	assert.Equal(t, ExitNotFound, ExitCodeFromError(err))
}

func TestStatus_ReportsStates(t *testing.T) {
	src := t.TempDir()
	cookbook := testutil.WriteCookbook(t, src, testutil.CookbookSpec{
		Name:    "nginx",
		Recipes: map[string]string{"default": "package 'nginx' do\n  action :install\nend\n"},
	})
	digest, err := manifest.ComputeSourceDigest(cookbook)
	require.NoError(t, err)

	out := t.TempDir()
	m := manifest.New("run-1")
	m.Upsert(manifest.Entry{Role: "nginx", Cookbook: "nginx", Source: cookbook, SourceDigest: digest})
	m.Upsert(manifest.Entry{Role: "gone", Cookbook: "gone", Source: filepath.Join(src, "gone"), SourceDigest: "sha256:x"})
	require.NoError(t, m.Write(out))

	for _, format := range []string{"table", "json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			cmd := NewStatusCmd()
			cmd.SetArgs([]string{"-d", out, "-o", format})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			assert.NoError(t, cmd.Execute())
		})
	}
}

func TestStatus_InvalidFormat(t *testing.T) {
	cmd := NewStatusCmd()
	cmd.SetArgs([]string{"-d", t.TempDir(), "-o", "csv"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestStatusSummary(t *testing.T) {
	statuses := []manifest.Status{
		{State: manifest.StateFresh},
		{State: manifest.StateFresh},
		{State: manifest.StateStale},
		{State: manifest.StateMissing},
	}
	assert.Equal(t, "2 fresh, 1 stale, 1 missing", statusSummary(statuses))
}
