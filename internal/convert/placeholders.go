package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chefport/cli/internal/ansible"
	"github.com/chefport/cli/internal/mapping"
)

// Placeholder tasks are recognized by their text, not by provenance, so
// tasks from any translator (rule-based or generative) resolve the same way.
const (
	placeholderNameMarker = "TODO: Convert Chef custom resource"
	placeholderMsgMarker  = "requires manual conversion"
)

// quotedTypePattern captures the resource type from placeholder text. The
// first single-quoted span wins.
var quotedTypePattern = regexp.MustCompile(`'([^']+)'`)

// IsPlaceholder reports whether a task is a manual-conversion placeholder.
func IsPlaceholder(task ansible.Task) bool {
	if strings.Contains(task.Name, placeholderNameMarker) {
		return true
	}
	if task.Module == "ansible.builtin.debug" {
		if msg, ok := task.ParamsMap()["msg"].(string); ok {
			return strings.Contains(msg, placeholderMsgMarker)
		}
	}
	return false
}

// CountPlaceholders counts the manual-conversion placeholders in tasks.
func CountPlaceholders(tasks []ansible.Task) int {
	n := 0
	for _, task := range tasks {
		if IsPlaceholder(task) {
			n++
		}
	}
	return n
}

// ResolvePlaceholders runs every placeholder task back through the registry
// and returns the task list with resolvable placeholders replaced in place.
// Placeholders the registry still cannot map are kept verbatim, preserving
// the property vars for a later pass with a richer registry. The second
// return counts the placeholders that resolved.
func ResolvePlaceholders(registry *mapping.Registry, tasks []ansible.Task) ([]ansible.Task, int) {
	if registry == nil {
		return tasks, 0
	}

	out := make([]ansible.Task, 0, len(tasks))
	resolved := 0

	for _, task := range tasks {
		if !IsPlaceholder(task) {
			out = append(out, task)
			continue
		}

		replacement := registry.Transform(placeholderType(task), placeholderProperties(task))
		if len(replacement) == 1 && IsPlaceholder(replacement[0]) {
			out = append(out, task)
			continue
		}

		out = append(out, replacement...)
		resolved++
	}

	return out, resolved
}

// placeholderType recovers the resource type from the placeholder text,
// checking the task name first and the debug message second.
func placeholderType(task ansible.Task) string {
	texts := []string{task.Name}
	if msg, ok := task.ParamsMap()["msg"].(string); ok {
		texts = append(texts, msg)
	}

	for _, text := range texts {
		if m := quotedTypePattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return "custom_resource"
}

// placeholderProperties recovers the source properties from the task vars.
func placeholderProperties(task ansible.Task) map[string]string {
	if len(task.Vars) == 0 {
		return nil
	}

	props := make(map[string]string, len(task.Vars))
	for k, v := range task.Vars {
		if s, ok := v.(string); ok {
			props[k] = s
			continue
		}
		props[k] = fmt.Sprintf("%v", v)
	}
	return props
}
