package translator

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chefport/cli/internal/ansible"
	"github.com/chefport/cli/internal/chef"
	"github.com/chefport/cli/internal/mapping"
)

// Offline is the deterministic rule-based translator and the default wiring.
// It converts the known resource vocabulary through fixed rules and emits
// the standard placeholder for everything else, so no resource disappears.
type Offline struct{}

// NewOffline returns the deterministic translator.
func NewOffline() *Offline {
	return &Offline{}
}

// Translate converts one recipe. Feedback and instructions are prompt
// steering for generative translators and are ignored here; the rules have
// exactly one answer per input.
func (o *Offline) Translate(_ context.Context, req Request) (string, error) {
	var tasks, handlers []ansible.Task
	seenHandlers := make(map[string]bool)

	for _, r := range orderResources(req.Recipe) {
		var c converted
		if r.known {
			c = convertResource(r.res)
		} else {
			c.tasks = []ansible.Task{mapping.PlaceholderTask(r.res.Type, r.res.Properties)}
		}

		tasks = append(tasks, c.tasks...)
		for _, h := range c.handlers {
			if !seenHandlers[h.Name] {
				seenHandlers[h.Name] = true
				handlers = append(handlers, h)
			}
		}
	}

	return renderResponse(Sections{Tasks: tasks, Handlers: handlers})
}

// orderedResource pairs an extracted resource with its vocabulary
// membership so known and skipped blocks can be recombined in declaration
// order.
type orderedResource struct {
	res   chef.Resource
	known bool
}

func orderResources(recipe string) []orderedResource {
	known, skipped := chef.ExtractResources(recipe)
	out := make([]orderedResource, 0, len(known)+len(skipped))

	for _, r := range known {
		out = append(out, orderedResource{res: r, known: true})
	}
	for _, r := range skipped {
		out = append(out, orderedResource{res: r})
	}

	// Both lists arrive in source order, so the recorded line restores the
	// interleaving.
	sort.SliceStable(out, func(i, j int) bool { return out[i].res.Line < out[j].res.Line })
	return out
}

// renderResponse serializes sections into the three-block response format
// shared with generative translators. Empty sections render as empty blocks
// so ExtractSections always finds its headers.
func renderResponse(s Sections) (string, error) {
	tasks, err := marshalBlock(s.Tasks, len(s.Tasks) > 0)
	if err != nil {
		return "", fmt.Errorf("rendering tasks: %w", err)
	}
	handlers, err := marshalBlock(s.Handlers, len(s.Handlers) > 0)
	if err != nil {
		return "", fmt.Errorf("rendering handlers: %w", err)
	}
	variables, err := marshalBlock(s.Variables, len(s.Variables) > 0)
	if err != nil {
		return "", fmt.Errorf("rendering variables: %w", err)
	}

	var b strings.Builder
	writeSection(&b, "Tasks", tasks)
	writeSection(&b, "Handlers", handlers)
	writeSection(&b, "Variables", variables)
	return b.String(), nil
}

func writeSection(b *strings.Builder, name, body string) {
	b.WriteString("# ")
	b.WriteString(name)
	b.WriteString("\n```yaml\n")
	b.WriteString(body)
	b.WriteString("```\n\n")
}

func marshalBlock(v interface{}, nonEmpty bool) (string, error) {
	if !nonEmpty {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
