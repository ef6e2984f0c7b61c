package chef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractResources_Empty(t *testing.T) {
	known, skipped := ExtractResources("")
	assert.Empty(t, known)
	assert.Empty(t, skipped)
}

func TestExtractResources_NoResources(t *testing.T) {
	known, skipped := ExtractResources("# just a comment\ninclude_recipe 'base'\n")
	assert.Empty(t, known)
	assert.Empty(t, skipped)
}

func TestExtractResources_PackageAndService(t *testing.T) {
	recipe := `
package 'nginx' do
  action :install
end

service 'nginx' do
  action [:enable, :start]
  supports status: true, restart: true
end
`
	known, skipped := ExtractResources(recipe)

	require.Len(t, known, 2)
	assert.Empty(t, skipped)

	pkg := known[0]
	assert.Equal(t, "package", pkg.Type)
	assert.Equal(t, "nginx", pkg.Name)
	assert.Equal(t, ":install", pkg.Properties["action"])
	assert.Contains(t, pkg.Raw, "package 'nginx' do")

	svc := known[1]
	assert.Equal(t, "service", svc.Type)
	assert.Equal(t, "nginx", svc.Name)
	assert.Equal(t, "[:enable, :start]", svc.Properties["action"])
	assert.Equal(t, "status: true, restart: true", svc.Properties["supports"])
}

func TestExtractResources_SourceOrder(t *testing.T) {
	recipe := `
package 'nginx' do
  action :install
end

template '/etc/nginx/nginx.conf' do
  source 'nginx.conf.erb'
  notifies :restart, 'service[nginx]'
end

service 'nginx' do
  action [:enable, :start]
end
`
	known, _ := ExtractResources(recipe)

	require.Len(t, known, 3)
	// Declaration order carries semantics: the template notifies the
	// service, so reordering would break the conversion.
	assert.Equal(t, "package", known[0].Type)
	assert.Equal(t, "template", known[1].Type)
	assert.Equal(t, "service", known[2].Type)
}

func TestExtractResources_TemplateProperties(t *testing.T) {
	recipe := `
template '/etc/nginx/sites-available/default' do
  source 'site.conf.erb'
  owner 'root'
  group 'root'
  mode '0644'
  notifies :reload, 'service[nginx]', :delayed
end
`
	known, _ := ExtractResources(recipe)

	require.Len(t, known, 1)
	tmpl := known[0]
	assert.Equal(t, "/etc/nginx/sites-available/default", tmpl.Name)
	assert.Equal(t, "'site.conf.erb'", tmpl.Properties["source"])
	assert.Equal(t, "'root'", tmpl.Properties["owner"])
	assert.Equal(t, "'0644'", tmpl.Properties["mode"])
	assert.Equal(t, ":reload, 'service[nginx]', :delayed", tmpl.Properties["notifies"])
}

func TestExtractResources_UnknownTypeSkipped(t *testing.T) {
	recipe := `
chef_ingredient 'chef-server' do
  config 'nginx.enable = true'
  action :install
end

package 'curl' do
  action :install
end
`
	known, skipped := ExtractResources(recipe)

	require.Len(t, known, 1)
	assert.Equal(t, "curl", known[0].Name)

	// Out-of-vocabulary blocks are reported, not silently dropped, and they
	// keep their property split for diagnostics.
	require.Len(t, skipped, 1)
	assert.Equal(t, "chef_ingredient", skipped[0].Type)
	assert.Equal(t, "chef-server", skipped[0].Name)
	assert.Equal(t, ":install", skipped[0].Properties["action"])
	assert.Equal(t, "'nginx.enable = true'", skipped[0].Properties["config"])
}

func TestExtractResources_DuplicatePropertyLastWins(t *testing.T) {
	recipe := `
file '/tmp/marker' do
  mode '0600'
  mode '0644'
end
`
	known, _ := ExtractResources(recipe)

	require.Len(t, known, 1)
	assert.Equal(t, "'0644'", known[0].Properties["mode"])
}

func TestExtractResources_MultilineValue(t *testing.T) {
	recipe := `
execute 'run-migrations' do
  command 'systemctl daemon-reload &&
    /usr/local/bin/app --migrate'
  action :run
end
`
	known, _ := ExtractResources(recipe)

	require.Len(t, known, 1)
	cmd := known[0].Properties["command"]
	assert.Contains(t, cmd, "daemon-reload")
	assert.Contains(t, cmd, "/usr/local/bin/app --migrate")
	assert.Equal(t, ":run", known[0].Properties["action"])
}

func TestExtractResources_LineNumbers(t *testing.T) {
	recipe := "# setup\n\npackage 'nginx' do\n  action :install\nend\n\nnot_a_thing 'x' do\n  action :run\nend\n"
	known, skipped := ExtractResources(recipe)

	require.Len(t, known, 1)
	assert.Equal(t, 3, known[0].Line)

	require.Len(t, skipped, 1)
	assert.Equal(t, 7, skipped[0].Line)
}

func TestExtractResources_DoubleQuotedName(t *testing.T) {
	known, _ := ExtractResources("package \"httpd\" do\n  action :install\nend\n")

	require.Len(t, known, 1)
	assert.Equal(t, "httpd", known[0].Name)
}

func TestExtractResources_AllVocabularyTypes(t *testing.T) {
	for _, typ := range KnownResourceTypes() {
		t.Run(typ, func(t *testing.T) {
			known, skipped := ExtractResources(typ + " 'thing' do\n  action :nothing\nend\n")
			require.Len(t, known, 1)
			assert.Empty(t, skipped)
			assert.Equal(t, typ, known[0].Type)
		})
	}
}

func TestIsKnownResourceType(t *testing.T) {
	assert.True(t, IsKnownResourceType("package"))
	assert.True(t, IsKnownResourceType("apt_update"))
	assert.False(t, IsKnownResourceType("docker_container"))
	assert.False(t, IsKnownResourceType(""))
}

func TestSplitProperties_LoneWordLine(t *testing.T) {
	// A line holding only a bare word opens a property with an empty value.
	props := splitProperties("action :create\nrecursive\nmode '0755'")

	assert.Equal(t, ":create", props["action"])
	assert.Equal(t, "", props["recursive"])
	assert.Equal(t, "'0755'", props["mode"])
}

func TestSplitProperties_ContinuationLines(t *testing.T) {
	props := splitProperties("content 'line one\n  + more text'\nmode '0644'")

	assert.Contains(t, props["content"], "line one")
	assert.Contains(t, props["content"], "+ more text")
	assert.Equal(t, "'0644'", props["mode"])
}

func TestSplitProperties_HeredocValue(t *testing.T) {
	// Heredoc bodies must not be mistaken for property lines even when a
	// script line starts with a bare word.
	body := "code <<-EOH\n  systemctl daemon-reload\n  apt update\n  EOH\nuser 'root'"
	props := splitProperties(body)

	assert.Equal(t, "systemctl daemon-reload\napt update", props["code"])
	assert.Equal(t, "'root'", props["user"])
	assert.NotContains(t, props, "systemctl")
	assert.NotContains(t, props, "apt")
}

func TestSplitProperties_HeredocVariants(t *testing.T) {
	tests := []struct {
		name   string
		opener string
	}{
		{name: "dashed", opener: "<<-SCRIPT"},
		{name: "squiggly", opener: "<<~SCRIPT"},
		{name: "plain", opener: "<<SCRIPT"},
		{name: "quoted tag", opener: "<<-'SCRIPT'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := splitProperties("content " + tt.opener + "\n  echo hi\nSCRIPT\nmode '0644'")
			assert.Equal(t, "echo hi", props["content"])
			assert.Equal(t, "'0644'", props["mode"])
		})
	}
}
