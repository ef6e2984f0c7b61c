package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefport/cli/internal/testutil"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	outDir := t.TempDir()

	m := New(uuid.NewString())
	m.Upsert(Entry{
		Role:         "nginx",
		Cookbook:     "nginx",
		Source:       "/src/cookbooks/nginx",
		SourceDigest: "sha256:abc",
		Files:        7,
		Resources:    4,
		Skipped:      1,
	})
	require.NoError(t, m.Write(outDir))

	loaded, err := Load(outDir)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, Kind, loaded.Kind)
	assert.Equal(t, APIVersion, loaded.APIVersion)
	assert.Equal(t, m.RunID, loaded.RunID)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, m.Entries[0], loaded.Entries[0])
}

func TestLoad_NoManifest(t *testing.T) {
	loaded, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoad_WrongKind(t *testing.T) {
	outDir := t.TempDir()
	testutil.WriteFile(t, outDir, filepath.Join(".chefport", "manifest.yaml"),
		"kind: SomethingElse\napiVersion: chefport.dev/v1alpha1\n")

	_, err := Load(outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected manifest kind")
}

func TestUpsert_ReplacesByRole(t *testing.T) {
	m := New("run-1")
	m.Upsert(Entry{Role: "nginx", SourceDigest: "sha256:old"})
	m.Upsert(Entry{Role: "postgres", SourceDigest: "sha256:pg"})
	m.Upsert(Entry{Role: "nginx", SourceDigest: "sha256:new"})

	require.Len(t, m.Entries, 2)
	assert.Equal(t, "sha256:new", m.Entries[0].SourceDigest)
	assert.Equal(t, "postgres", m.Entries[1].Role)
}

func TestComputeSourceDigest_Deterministic(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "metadata.rb", "name 'demo'\n")
	testutil.WriteFile(t, dir, filepath.Join("recipes", "default.rb"), "package 'nginx'\n")

	first, err := ComputeSourceDigest(dir)
	require.NoError(t, err)
	second, err := ComputeSourceDigest(dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, first)
}

func TestComputeSourceDigest_ContentSensitive(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, filepath.Join("recipes", "default.rb"), "package 'nginx'\n")

	before, err := ComputeSourceDigest(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("package 'httpd'\n"), 0o644))
	after, err := ComputeSourceDigest(dir)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestComputeSourceDigest_PathBoundToContent(t *testing.T) {
	a := t.TempDir()
	testutil.WriteFile(t, a, "one.rb", "x")
	testutil.WriteFile(t, a, "two.rb", "")

	b := t.TempDir()
	testutil.WriteFile(t, b, "one.rb", "")
	testutil.WriteFile(t, b, "two.rb", "x")

	digestA, err := ComputeSourceDigest(a)
	require.NoError(t, err)
	digestB, err := ComputeSourceDigest(b)
	require.NoError(t, err)

	assert.NotEqual(t, digestA, digestB, "moving content between files must change the digest")
}

func TestClassify(t *testing.T) {
	fresh := t.TempDir()
	testutil.WriteFile(t, fresh, "metadata.rb", "name 'fresh'\n")
	freshDigest, err := ComputeSourceDigest(fresh)
	require.NoError(t, err)

	stale := t.TempDir()
	testutil.WriteFile(t, stale, "metadata.rb", "name 'stale'\n")

	entries := []Entry{
		{Role: "fresh", Source: fresh, SourceDigest: freshDigest},
		{Role: "stale", Source: stale, SourceDigest: "sha256:outdated"},
		{Role: "gone", Source: filepath.Join(fresh, "missing"), SourceDigest: "sha256:x"},
	}

	statuses := Classify(entries)
	require.Len(t, statuses, 3)

	assert.Equal(t, StateFresh, statuses[0].State)
	assert.Equal(t, freshDigest, statuses[0].CurrentDigest)

	assert.Equal(t, StateStale, statuses[1].State)
	assert.NotEmpty(t, statuses[1].CurrentDigest)

	assert.Equal(t, StateMissing, statuses[2].State)
	assert.Empty(t, statuses[2].CurrentDigest)
}
