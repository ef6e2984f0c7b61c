package translator

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chefport/cli/internal/ansible"
)

var (
	tasksSection     = sectionPattern("Tasks")
	handlersSection  = sectionPattern("Handlers")
	variablesSection = sectionPattern("Variables")

	// yamlBlockPattern matches any yaml-tagged fenced block, the fallback
	// when a response drops the section headers.
	yamlBlockPattern = regexp.MustCompile("(?s)```ya?ml[ \t]*\n?(.*?)```")
)

// sectionPattern matches a markdown header followed by a fenced code block.
// The language tag is optional and the header match is case-insensitive.
func sectionPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)#+\s*` + name + `[^\n]*\n\s*` + "```" + `(?:ya?ml)?[ \t]*\n?(.*?)` + "```")
}

// ExtractSections parses translator response text into its three sections.
//
// Labeled # Tasks / # Handlers / # Variables blocks win. When no labeled
// section is present, yaml fenced blocks are taken in document order:
// first tasks, second handlers, third variables. Content that fails to
// parse yields an empty section, never an error; a recipe conversion must
// not die on a sloppy response.
func ExtractSections(response string) Sections {
	var s Sections

	tasksBlock, tasksOK := findSection(tasksSection, response)
	handlersBlock, handlersOK := findSection(handlersSection, response)
	varsBlock, varsOK := findSection(variablesSection, response)

	if tasksOK || handlersOK || varsOK {
		s.Tasks = decodeTasks(tasksBlock)
		s.Handlers = decodeTasks(handlersBlock)
		s.Variables = decodeVariables(varsBlock)
		return s
	}

	blocks := yamlBlockPattern.FindAllStringSubmatch(response, -1)
	if len(blocks) > 0 {
		s.Tasks = decodeTasks(blocks[0][1])
	}
	if len(blocks) > 1 {
		s.Handlers = decodeTasks(blocks[1][1])
	}
	if len(blocks) > 2 {
		s.Variables = decodeVariables(blocks[2][1])
	}
	return s
}

func findSection(re *regexp.Regexp, response string) (string, bool) {
	m := re.FindStringSubmatch(response)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// decodeTasks parses a YAML block into tasks. A single mapping is treated
// as a one-task list. Unparseable content decodes to nothing.
func decodeTasks(block string) []ansible.Task {
	block = strings.TrimSpace(block)
	if block == "" {
		return nil
	}

	var tasks []ansible.Task
	if err := yaml.Unmarshal([]byte(block), &tasks); err == nil {
		return tasks
	}

	var one ansible.Task
	if err := yaml.Unmarshal([]byte(block), &one); err == nil && one.Module != "" {
		return []ansible.Task{one}
	}
	return nil
}

// decodeVariables parses a YAML block into a variable map. A list of
// mappings is merged in order, matching how some responses wrap the
// variables section in a list item.
func decodeVariables(block string) map[string]interface{} {
	block = strings.TrimSpace(block)
	if block == "" {
		return nil
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &m); err == nil {
		return m
	}

	var list []map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &list); err == nil {
		merged := make(map[string]interface{})
		for _, item := range list {
			for k, v := range item {
				merged[k] = v
			}
		}
		if len(merged) > 0 {
			return merged
		}
	}
	return nil
}
