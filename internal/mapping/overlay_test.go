package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefport/cli/internal/testutil"
)

const overlayYAML = `mysql_database:
  ansible_module: company.internal.mysql_db
  property_mapping:
    database_name: db
consul_service:
  ansible_module: company.internal.consul_service
  property_mapping:
    service_name: name
    enable: state
  value_mapping:
    enable:
      "true": present
      "false": absent
`

func TestNewRegistryWithOverlay(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "mappings.yaml", overlayYAML)

	registry, err := NewRegistryWithOverlay(path)
	require.NoError(t, err)

	// Overlay replaces the built-in entry wholesale.
	tasks := registry.Transform("mysql_database", map[string]string{
		"database_name": "app",
		"user":          "root",
	})
	require.Len(t, tasks, 1)
	assert.Equal(t, "company.internal.mysql_db", tasks[0].Module)
	assert.Equal(t, map[string]interface{}{"db": "app"}, tasks[0].Params)

	// New types become mappable.
	tasks = registry.Transform("consul_service", map[string]string{
		"service_name": "web",
		"enable":       "true",
	})
	require.Len(t, tasks, 1)
	assert.Equal(t, "company.internal.consul_service", tasks[0].Module)
	assert.Equal(t, "present", tasks[0].ParamsMap()["state"])

	// Untouched built-ins survive.
	tasks = registry.Transform("cron_job", map[string]string{"command": "/usr/bin/backup"})
	require.Len(t, tasks, 1)
	assert.Equal(t, "ansible.builtin.cron", tasks[0].Module)
}

func TestNewRegistryWithOverlay_EmptyPath(t *testing.T) {
	registry, err := NewRegistryWithOverlay("")
	require.NoError(t, err)
	_, ok := registry.Lookup("mysql_database")
	assert.True(t, ok)
}

func TestNewRegistryWithOverlay_MissingFile(t *testing.T) {
	_, err := NewRegistryWithOverlay("/nonexistent/mappings.yaml")
	assert.Error(t, err)
}

func TestLoadOverlay_JSON(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "mappings.json", `{
  "redis_instance": {
    "ansible_module": "community.general.redis",
    "property_mapping": {"port": "login_port"}
  }
}`)

	entries, err := LoadOverlay(path)
	require.NoError(t, err)
	require.Contains(t, entries, "redis_instance")
	assert.Equal(t, "community.general.redis", entries["redis_instance"].AnsibleModule)
}

func TestLoadOverlay_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "bad.yaml", "mysql_database: [not, a, mapping]\n")

	_, err := LoadOverlay(path)
	assert.Error(t, err)
}

func TestVetOverlay_Clean(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "mappings.yaml", overlayYAML)

	issues, err := VetOverlay(path)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestVetOverlay_Issues(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "mappings.yaml", `no_module:
  property_mapping:
    a: b
no_properties:
  ansible_module: x.y.z
orphan_value_mapping:
  ansible_module: x.y.z
  property_mapping:
    a: b
  value_mapping:
    c:
      "true": present
`)

	issues, err := VetOverlay(path)
	require.NoError(t, err)

	require.Len(t, issues, 3)
	assert.Contains(t, issues[0], "no_module: missing ansible_module")
	assert.Contains(t, issues[1], "no_properties: property_mapping is empty")
	assert.Contains(t, issues[2], `value_mapping for "c"`)
}

func TestVetOverlay_LegacyNestedValueMapping(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "legacy.yaml", `apache2_site:
  ansible_module: community.general.apache2_module
  property_mapping:
    site_name: name
    value_mapping:
      enable:
        "true": present
`)

	issues, err := VetOverlay(path)
	require.NoError(t, err)

	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0], "not a valid mappings file")
	require.Len(t, issues, 2)
	assert.Contains(t, issues[1], "nested inside property_mapping")
}

func TestVetOverlay_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "empty.yaml", "")

	issues, err := VetOverlay(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "no mappings")
}

func TestVetOverlay_UnreadableFile(t *testing.T) {
	_, err := VetOverlay("/nonexistent/mappings.yaml")
	assert.Error(t, err)
}
