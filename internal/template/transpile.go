// Package template converts ERB templates to Jinja2.
//
// Transpile is a pure string pipeline: each step is an independent rewrite
// and a template that cannot be fully converted keeps whatever partial
// rewrites succeeded. Nothing in here errors.
package template

import (
	"regexp"
	"strings"

	"github.com/chefport/cli/internal/chef"
)

const (
	rawOpen  = "{% raw %}"
	rawClose = "{% endraw %}"
)

// Transpile converts ERB template text to Jinja2.
//
// Steps, in order: escape stray Jinja2 delimiters already present in the
// input, rewrite output tags, rewrite control tags (conditionals, loops,
// closers, comments, generic statements) with a type-tagged block stack,
// flatten node attribute lookups, rewrite Ruby string interpolation, and
// alias the reserved variable name.
func Transpile(text string) string {
	out := escapeStrayDelimiters(text)
	out = rewriteOutputTags(out)
	out = rewriteControlTags(out)
	out = flattenAttributes(out)
	out = rewriteInterpolations(out)
	out = aliasReservedNames(out)
	return out
}

// TranspileFile converts one template record, swapping the .erb extension
// for .j2. Records with nil content (unreadable at parse time) are skipped;
// the second return reports whether a converted record was produced.
func TranspileFile(t chef.TemplateFile) (chef.TemplateFile, bool) {
	if t.Content == nil {
		return chef.TemplateFile{}, false
	}

	return chef.TemplateFile{
		Name:    t.Name,
		Path:    strings.ReplaceAll(t.Path, ".erb", ".j2"),
		Content: []byte(Transpile(string(t.Content))),
	}, true
}

// escapeStrayDelimiters wraps unpaired Jinja2 delimiter tokens in raw tags
// so later steps cannot misread pre-existing target-syntax text. Balanced
// {{ ... }} / {% ... %} spans and existing raw regions pass through
// untouched, which makes the whole pipeline idempotent on its own output.
func escapeStrayDelimiters(text string) string {
	var sb strings.Builder
	i := 0

	for i < len(text) {
		// Existing raw regions pass through unchanged.
		if strings.HasPrefix(text[i:], rawOpen) {
			if end := strings.Index(text[i+len(rawOpen):], rawClose); end >= 0 {
				stop := i + len(rawOpen) + end + len(rawClose)
				sb.WriteString(text[i:stop])
				i = stop
				continue
			}
		}

		tok, closer := delimiterAt(text, i)
		if tok == "" {
			sb.WriteByte(text[i])
			i++
			continue
		}

		if closer != "" {
			if end := strings.Index(text[i+len(tok):], closer); end >= 0 {
				stop := i + len(tok) + end + len(closer)
				sb.WriteString(text[i:stop])
				i = stop
				continue
			}
		}

		// Orphan token.
		sb.WriteString(rawOpen)
		sb.WriteString(tok)
		sb.WriteString(rawClose)
		i += len(tok)
	}

	return sb.String()
}

// delimiterAt returns the Jinja2 delimiter token starting at i and, for
// opening tokens, the closer that balances it.
func delimiterAt(text string, i int) (tok, closer string) {
	switch {
	case strings.HasPrefix(text[i:], "{{"):
		return "{{", "}}"
	case strings.HasPrefix(text[i:], "{%"):
		return "{%", "%}"
	case strings.HasPrefix(text[i:], "}}"):
		return "}}", ""
	case strings.HasPrefix(text[i:], "%}"):
		return "%}", ""
	}
	return "", ""
}

// outputTagPattern matches ERB output tags <%= expr %>, tolerating trim
// markers.
var outputTagPattern = regexp.MustCompile(`(?s)<%=\s*(.*?)\s*-?%>`)

func rewriteOutputTags(text string) string {
	return outputTagPattern.ReplaceAllStringFunc(text, func(m string) string {
		expr := outputTagPattern.FindStringSubmatch(m)[1]
		return "{{ " + stripIvars(expr) + " }}"
	})
}

// blockKind tags an open ERB block so its shared `end` keyword can be
// closed with the right Jinja2 tag.
type blockKind int

const (
	kindConditional blockKind = iota
	kindLoop
)

// controlTagPattern matches remaining ERB tags <% ... %> and comments
// <%# ... %> after output tags have been rewritten.
var controlTagPattern = regexp.MustCompile(`(?s)<%(#?)-?\s*(.*?)\s*-?%>`)

// eachPattern matches Ruby iteration openers `<collection>.each do |item|`.
var eachPattern = regexp.MustCompile(`^(.+?)\.each\s+do\s*\|\s*([^|]+?)\s*\|$`)

// rewriteControlTags converts ERB statement tags in document order while
// tracking open blocks on a stack. ERB closes loops and conditionals with
// the same `end` keyword; pushing the kind at open time and popping at close
// time labels every closer correctly even when blocks interleave. Closers
// with no matching opener become {% endif %}.
func rewriteControlTags(text string) string {
	matches := controlTagPattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var sb strings.Builder
	var stack []blockKind
	last := 0

	for _, m := range matches {
		sb.WriteString(text[last:m[0]])
		last = m[1]

		body := text[m[4]:m[5]]
		if m[2] != m[3] {
			// Comment marker present.
			sb.WriteString("{# " + body + " #}")
			continue
		}
		sb.WriteString(convertControlTag(body, &stack))
	}
	sb.WriteString(text[last:])

	return sb.String()
}

func convertControlTag(body string, stack *[]blockKind) string {
	trimmed := strings.TrimSpace(body)

	switch {
	case trimmed == "end":
		if n := len(*stack); n > 0 {
			kind := (*stack)[n-1]
			*stack = (*stack)[:n-1]
			if kind == kindLoop {
				return "{% endfor %}"
			}
		}
		return "{% endif %}"

	case trimmed == "else":
		return "{% else %}"

	case strings.HasPrefix(trimmed, "if "):
		*stack = append(*stack, kindConditional)
		return "{% if " + stripIvars(strings.TrimSpace(trimmed[3:])) + " %}"

	case strings.HasPrefix(trimmed, "elsif "):
		return "{% elif " + stripIvars(strings.TrimSpace(trimmed[6:])) + " %}"

	case strings.HasPrefix(trimmed, "unless "):
		*stack = append(*stack, kindConditional)
		return "{% if not (" + stripIvars(strings.TrimSpace(trimmed[7:])) + ") %}"
	}

	if m := eachPattern.FindStringSubmatch(trimmed); m != nil {
		*stack = append(*stack, kindLoop)
		return "{% for " + strings.TrimSpace(m[2]) + " in " + stripIvars(strings.TrimSpace(m[1])) + " %}"
	}

	// Anything else passes through as a generic statement tag.
	return "{% " + stripIvars(trimmed) + " %}"
}

// attributeAliases maps well-known Chef node attributes to Ansible facts.
var attributeAliases = map[string]string{
	"hostname":         "ansible_hostname",
	"fqdn":             "ansible_fqdn",
	"ipaddress":        "ansible_default_ipv4.address",
	"platform":         "ansible_distribution",
	"platform_family":  "ansible_os_family",
	"platform_version": "ansible_distribution_version",
}

var (
	// node['a']['b']['c'], double quotes allowed
	bracketStringAttrPattern = regexp.MustCompile(`\bnode\[['"]([^'"]+)['"]\](?:\[['"]([^'"]+)['"]\])?(?:\[['"]([^'"]+)['"]\])?`)
	// node[:a][:b][:c]
	bracketSymbolAttrPattern = regexp.MustCompile(`\bnode\[:(\w+)\](?:\[:(\w+)\])?(?:\[:(\w+)\])?`)
	// node.a.b.c
	dotAttrPattern = regexp.MustCompile(`\bnode\.(\w+)(?:\.(\w+))?(?:\.(\w+))?`)
)

// flattenAttributes rewrites node attribute lookups (bracket-string,
// bracket-symbol, and dot forms, up to three levels deep) into flat
// underscore-joined variable names. Single-segment lookups of well-known
// attributes map to their Ansible fact names instead.
func flattenAttributes(text string) string {
	for _, pattern := range []*regexp.Regexp{
		bracketStringAttrPattern,
		bracketSymbolAttrPattern,
		dotAttrPattern,
	} {
		pattern := pattern
		text = pattern.ReplaceAllStringFunc(text, func(m string) string {
			groups := pattern.FindStringSubmatch(m)

			var parts []string
			for _, g := range groups[1:] {
				if g != "" {
					parts = append(parts, g)
				}
			}

			if len(parts) == 1 {
				if alias, ok := attributeAliases[parts[0]]; ok {
					return alias
				}
			}
			return strings.Join(parts, "_")
		})
	}
	return text
}

// interpolationPattern matches Ruby string interpolation #{expr}.
var interpolationPattern = regexp.MustCompile(`#\{([^}]*)\}`)

func rewriteInterpolations(text string) string {
	return interpolationPattern.ReplaceAllStringFunc(text, func(m string) string {
		expr := interpolationPattern.FindStringSubmatch(m)[1]
		return "{{ " + stripIvars(strings.TrimSpace(expr)) + " }}"
	})
}

var (
	// tagSpanPattern finds emitted expression and statement tags.
	tagSpanPattern = regexp.MustCompile(`(?s)\{\{.*?\}\}|\{%.*?%\}`)

	// nameWordPattern matches the bare word `name` outside attribute access.
	nameWordPattern = regexp.MustCompile(`(^|[^.\w])name\b`)
)

// aliasReservedNames rewrites the bare variable `name` to name_var inside
// emitted tags. Ansible reserves `name` for the task field, so a template
// variable of that name must travel under an alias (the variable emission
// side uses the same alias).
func aliasReservedNames(text string) string {
	return tagSpanPattern.ReplaceAllStringFunc(text, func(span string) string {
		return nameWordPattern.ReplaceAllString(span, "${1}name_var")
	})
}

// ivarPattern matches Ruby instance variable references.
var ivarPattern = regexp.MustCompile(`@(\w+)`)

// stripIvars rewrites Ruby @ivar references to bare names. ERB templates
// receive their variables as instance variables; Jinja2 templates receive
// them as plain context names.
func stripIvars(expr string) string {
	return ivarPattern.ReplaceAllString(expr, "$1")
}
