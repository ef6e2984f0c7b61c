package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertAttributes_Flattening(t *testing.T) {
	content := `default['nginx']['port'] = 80
default['nginx']['worker']['count'] = 4
default['app_name'] = 'frontend'
`
	vars := ConvertAttributes(content)

	assert.Equal(t, map[string]interface{}{
		"nginx_port":         80,
		"nginx_worker_count": 4,
		"app_name":           "frontend",
	}, vars)
}

func TestConvertAttributes_AssignmentForms(t *testing.T) {
	content := `override['a'] = 1
normal['b'] = 2
force_default['c'] = 3
force_override['d'] = 4
node.default['e'] = 5
default[:sym][:key] = 6
`
	vars := ConvertAttributes(content)

	assert.Equal(t, map[string]interface{}{
		"a": 1, "b": 2, "c": 3, "d": 4, "e": 5, "sym_key": 6,
	}, vars)
}

func TestConvertAttributes_LastAssignmentWins(t *testing.T) {
	vars := ConvertAttributes("default['port'] = 80\ndefault['port'] = 8080\n")

	assert.Equal(t, 8080, vars["port"])
}

func TestConvertAttributes_ValueTypes(t *testing.T) {
	content := `default['str'] = "hello"
default['yes'] = true
default['no'] = false
default['nothing'] = nil
default['count'] = 12
default['ratio'] = 0.75
default['mode'] = 0644
`
	vars := ConvertAttributes(content)

	assert.Equal(t, "hello", vars["str"])
	assert.Equal(t, true, vars["yes"])
	assert.Equal(t, false, vars["no"])
	assert.Contains(t, vars, "nothing")
	assert.Nil(t, vars["nothing"])
	assert.Equal(t, 12, vars["count"])
	assert.Equal(t, 0.75, vars["ratio"])
	// File modes keep their leading zero as text.
	assert.Equal(t, "0644", vars["mode"])
}

func TestConvertAttributes_Arrays(t *testing.T) {
	content := `default['ports'] = [80, 443]
default['users'] = ['alice', 'bob']
default['packages'] = %w(curl wget jq)
`
	vars := ConvertAttributes(content)

	assert.Equal(t, []interface{}{80, 443}, vars["ports"])
	assert.Equal(t, []interface{}{"alice", "bob"}, vars["users"])
	assert.Equal(t, []interface{}{"curl", "wget", "jq"}, vars["packages"])
}

func TestConvertAttributes_StringInterpolation(t *testing.T) {
	vars := ConvertAttributes(`default['log_dir'] = "#{node['app']['root']}/log"` + "\n")

	assert.Equal(t, "{{ app_root }}/log", vars["log_dir"])
}

func TestConvertAttributes_AttributeAlias(t *testing.T) {
	vars := ConvertAttributes("default['listen'] = node['nginx']['port']\n")

	assert.Equal(t, "{{ nginx_port }}", vars["listen"])
}

func TestConvertAttributes_NodeFactAlias(t *testing.T) {
	vars := ConvertAttributes("default['server_name'] = node['fqdn']\n")

	assert.Equal(t, "{{ ansible_fqdn }}", vars["server_name"])
}

func TestConvertAttributes_UnparsedValueKeptRaw(t *testing.T) {
	vars := ConvertAttributes("default['computed'] = File.join('/opt', 'app')\n")

	assert.Equal(t, "File.join('/opt', 'app')", vars["computed"])
}

func TestConvertAttributes_IgnoresNonAssignments(t *testing.T) {
	content := `# frozen_string_literal: true
include_attribute 'base'

case node['platform_family']
when 'debian'
  default['pkg'] = 'nginx'
end
`
	vars := ConvertAttributes(content)

	// Only the assignment line is picked up; flow control around it is
	// invisible to the flattener.
	assert.Equal(t, map[string]interface{}{"pkg": "nginx"}, vars)
}

func TestConvertAttributes_Empty(t *testing.T) {
	assert.Empty(t, ConvertAttributes(""))
}
