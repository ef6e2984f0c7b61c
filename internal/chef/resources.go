package chef

import (
	"regexp"
	"strings"
)

// knownResourceTypes is the fixed vocabulary of Chef resource keywords the
// extractor recognizes. Blocks with any other leading word are reported as
// skipped, never silently dropped.
var knownResourceTypes = []string{
	"package", "service", "template", "cookbook_file", "file", "directory",
	"execute", "bash", "ruby_block", "cron", "user", "group", "mount",
	"remote_file", "git", "apt_repository", "yum_repository", "apt_update",
}

var knownResourceSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(knownResourceTypes))
	for _, t := range knownResourceTypes {
		set[t] = struct{}{}
	}
	return set
}()

// KnownResourceTypes returns the extractor vocabulary in its canonical order.
func KnownResourceTypes() []string {
	out := make([]string, len(knownResourceTypes))
	copy(out, knownResourceTypes)
	return out
}

// IsKnownResourceType reports whether typ is in the extractor vocabulary.
func IsKnownResourceType(typ string) bool {
	_, ok := knownResourceSet[typ]
	return ok
}

// blockPattern matches `<word> '<name>' do ... end` blocks. The body is
// non-greedy and DOTALL so it spans lines and tolerates nested quotes, at the
// cost of closing at the first `end`: a nested do...end inside a block
// truncates the match. That limitation is accepted, not worked around.
var blockPattern = regexp.MustCompile(`(?s)\b(\w+)\s+['"]([^'"]+)['"]\s+do\s+(.*?)\s+end\b`)

// propertyLinePattern matches a body line that opens a property: a leading
// word token, then either the value text or end of line.
var propertyLinePattern = regexp.MustCompile(`^(\w+)(?:\s+(.*))?$`)

// heredocOpenPattern matches a value ending in a heredoc opener and captures
// the terminator tag.
var heredocOpenPattern = regexp.MustCompile(`<<[-~]?['"]?(\w+)['"]?\s*$`)

// ExtractResources scans recipe text for resource blocks of the shape
// `<type> '<name>' do ... end` and returns them partitioned into known
// (vocabulary) and skipped (everything else) records, both in source order.
//
// Property boundaries inside a body are inferred positionally: a line whose
// first token is a bare word opens a property and following lines extend its
// value until the next such line. Resources with dynamically computed names,
// one-line declarations without a do block, or multiline Ruby inside a body
// are outside what this extractor can see; callers surface the skipped list
// so nothing disappears without signal.
func ExtractResources(text string) (known, skipped []Resource) {
	for _, idx := range blockPattern.FindAllStringSubmatchIndex(text, -1) {
		res := Resource{
			Type:       text[idx[2]:idx[3]],
			Name:       text[idx[4]:idx[5]],
			Properties: splitProperties(text[idx[6]:idx[7]]),
			Raw:        text[idx[0]:idx[1]],
			Line:       1 + strings.Count(text[:idx[0]], "\n"),
		}

		if IsKnownResourceType(res.Type) {
			known = append(known, res)
		} else {
			skipped = append(skipped, res)
		}
	}

	return known, skipped
}

// splitProperties splits a block body into property name/value pairs.
// Duplicate names keep the last occurrence. A value opening a heredoc
// consumes lines verbatim until the terminator tag, so script bodies cannot
// be mistaken for property lines; the opener and terminator are dropped.
func splitProperties(body string) map[string]string {
	props := make(map[string]string)

	var current string
	var value []string
	var heredocTag string

	flush := func() {
		if current == "" {
			return
		}
		props[current] = strings.TrimSpace(strings.Join(value, "\n"))
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if heredocTag != "" {
			if trimmed == heredocTag {
				heredocTag = ""
				continue
			}
			value = append(value, trimmed)
			continue
		}

		if trimmed == "" {
			continue
		}

		if m := propertyLinePattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = m[1]
			value = value[:0]
			if m[2] != "" {
				if h := heredocOpenPattern.FindStringSubmatch(m[2]); h != nil {
					heredocTag = h[1]
					continue
				}
				value = append(value, m[2])
			}
			continue
		}

		// Continuation of the current value. Text before the first
		// property line has nowhere to go and is dropped.
		if current != "" {
			value = append(value, trimmed)
		}
	}
	flush()

	return props
}
