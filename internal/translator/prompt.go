package translator

import (
	"fmt"
	"strings"
)

const promptPreamble = `You are an expert in both Chef and Ansible configuration management systems.
Convert the following Chef recipe to equivalent Ansible tasks.

Requirements:
- Use fully qualified Ansible module names (ansible.builtin.package, not package).
- Preserve the order of the original resources.
- Convert Chef notifications to Ansible handlers and notify directives.
- Convert Chef guards (only_if, not_if) to when conditions.
- Reference Chef node attributes as flattened Ansible variables
  (node['nginx']['port'] becomes nginx_port).
- If a resource cannot be converted, emit an ansible.builtin.debug task
  describing the manual work instead of dropping it.`

const promptFormat = `Respond with exactly three sections in this format:

# Tasks
` + "```yaml" + `
- name: ...
` + "```" + `

# Handlers
` + "```yaml" + `
- name: ...
` + "```" + `

# Variables
` + "```yaml" + `
key: value
` + "```" + `

Leave a section's YAML block empty when it has no content.`

// BuildPrompt renders the conversion prompt for a generative translator:
// preamble, worked examples, the recipe itself and any steering text.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(promptPreamble)
	b.WriteString("\n\n")

	for i, ex := range conversionExamples {
		fmt.Fprintf(&b, "Example %d:\nCHEF CODE:\n```ruby\n%s\n```\n\nANSIBLE CODE:\n```yaml\n%s\n```\n\n", i+1, ex.Chef, ex.Ansible)
	}

	fmt.Fprintf(&b, "Now convert this recipe:\nCHEF CODE:\n```ruby\n%s\n```\n\n", strings.TrimSpace(req.Recipe))

	if f := strings.TrimSpace(req.Feedback); f != "" {
		fmt.Fprintf(&b, "A previous attempt failed validation with this feedback, correct it:\n%s\n\n", f)
	}
	if in := strings.TrimSpace(req.Instructions); in != "" {
		fmt.Fprintf(&b, "Additional instructions:\n%s\n\n", in)
	}

	b.WriteString(promptFormat)
	b.WriteString("\n\nANSIBLE CODE:")
	return b.String()
}
