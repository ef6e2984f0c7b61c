package translator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chefport/cli/internal/template"
)

var (
	// attributeAssignmentPattern matches one default/override assignment per
	// line. Multi-line right-hand sides are out of scope for the flattener.
	attributeAssignmentPattern = regexp.MustCompile(`(?m)^\s*(?:node\.)?(?:force_default|force_override|default|override|normal)((?:\[[^\]\n]+\])+)\s*=\s*(.+)$`)

	attributeKeyPattern = regexp.MustCompile(`\[\s*['":]?([^'"\]]+?)['"]?\s*\]`)
)

// ConvertAttributes flattens Chef attribute assignments into Ansible
// variables: default['nginx']['port'] = 80 becomes nginx_port: 80. Later
// assignments to the same key win, matching Ruby execution order.
func ConvertAttributes(content string) map[string]interface{} {
	vars := make(map[string]interface{})

	for _, m := range attributeAssignmentPattern.FindAllStringSubmatch(content, -1) {
		var parts []string
		for _, seg := range attributeKeyPattern.FindAllStringSubmatch(m[1], -1) {
			parts = append(parts, strings.TrimPrefix(seg[1], ":"))
		}
		if len(parts) == 0 {
			continue
		}
		vars[strings.Join(parts, "_")] = parseAttributeValue(m[2])
	}

	return vars
}

// parseAttributeValue interprets the common Ruby literals. Strings run
// through the template pipeline so embedded attribute references come out
// as Jinja expressions; anything unrecognized stays raw text.
func parseAttributeValue(raw string) interface{} {
	raw = strings.TrimSpace(raw)

	if len(raw) >= 2 {
		if (raw[0] == '\'' && raw[len(raw)-1] == '\'') || (raw[0] == '"' && raw[len(raw)-1] == '"') {
			return template.Transpile(raw[1 : len(raw)-1])
		}
	}

	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "nil":
		return nil
	}

	// A leading zero marks a Ruby octal literal; keep it as text so file
	// modes survive unmangled.
	if !isOctalLike(raw) {
		if i, err := strconv.Atoi(raw); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		return parseAttributeArray(raw[1 : len(raw)-1])
	}
	if strings.HasPrefix(raw, "%w(") && strings.HasSuffix(raw, ")") {
		var items []interface{}
		for _, w := range strings.Fields(raw[3 : len(raw)-1]) {
			items = append(items, w)
		}
		return items
	}

	// A bare attribute reference means this variable aliases another one.
	if strings.HasPrefix(raw, "node[") || strings.HasPrefix(raw, "node.") {
		return "{{ " + template.Transpile(raw) + " }}"
	}

	return raw
}

func isOctalLike(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseAttributeArray splits a bracket literal on commas. Nested arrays are
// not handled; their elements land as raw text.
func parseAttributeArray(inner string) []interface{} {
	var items []interface{}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, parseAttributeValue(part))
	}
	return items
}
