// Package mapping translates Chef custom resources into Ansible tasks.
//
// The registry is a declarative rule table with a handler escape hatch:
// each entry names a target module, a property rename table, and optional
// per-property value substitutions. Types too irregular for a table get a
// registered handler function, checked before the table. Types with neither
// produce a placeholder task, never an error.
package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chefport/cli/internal/ansible"
)

// Entry is one declarative mapping rule.
type Entry struct {
	// AnsibleModule is the fully qualified target module name.
	AnsibleModule string `json:"ansible_module"`

	// PropertyMapping renames source properties to module parameters.
	// Source properties without an entry are dropped.
	PropertyMapping map[string]string `json:"property_mapping"`

	// ValueMapping substitutes parameter values, keyed by source property.
	// The source value lookup is case-insensitive.
	ValueMapping map[string]map[string]string `json:"value_mapping,omitempty"`
}

// Handler translates one resource type with arbitrary logic.
type Handler func(resourceType string, properties map[string]string) []ansible.Task

// Registry resolves resource types to Ansible tasks. The entry table is
// immutable after construction; handlers may be registered at wiring time.
type Registry struct {
	entries  map[string]Entry
	handlers map[string]Handler
}

// NewRegistry returns a registry holding the built-in table.
func NewRegistry() *Registry {
	return &Registry{
		entries:  defaultEntries(),
		handlers: map[string]Handler{},
	}
}

// NewRegistryWithOverlay returns a registry holding the built-in table with
// entries from the given file overlaid. Overlay entries replace built-ins
// wholesale on key collision.
func NewRegistryWithOverlay(path string) (*Registry, error) {
	registry := NewRegistry()
	if path == "" {
		return registry, nil
	}

	overlay, err := LoadOverlay(path)
	if err != nil {
		return nil, err
	}
	for resourceType, entry := range overlay {
		registry.entries[resourceType] = entry
	}

	return registry, nil
}

// RegisterHandler installs a handler for a resource type. Handlers take
// precedence over table entries.
func (r *Registry) RegisterHandler(resourceType string, handler Handler) {
	r.handlers[resourceType] = handler
}

// HasHandler reports whether a handler is registered for the type.
func (r *Registry) HasHandler(resourceType string) bool {
	_, ok := r.handlers[resourceType]
	return ok
}

// Lookup returns the table entry for a resource type.
func (r *Registry) Lookup(resourceType string) (Entry, bool) {
	entry, ok := r.entries[resourceType]
	return entry, ok
}

// Types returns all mapped resource types sorted, handlers included.
func (r *Registry) Types() []string {
	seen := map[string]bool{}
	for resourceType := range r.entries {
		seen[resourceType] = true
	}
	for resourceType := range r.handlers {
		seen[resourceType] = true
	}

	types := make([]string, 0, len(seen))
	for resourceType := range seen {
		types = append(types, resourceType)
	}
	sort.Strings(types)
	return types
}

// Transform turns a resource type plus its property set into tasks.
// Handler first, then table, then placeholder.
func (r *Registry) Transform(resourceType string, properties map[string]string) []ansible.Task {
	if handler, ok := r.handlers[resourceType]; ok {
		return handler(resourceType, properties)
	}

	entry, ok := r.entries[resourceType]
	if !ok {
		return []ansible.Task{PlaceholderTask(resourceType, properties)}
	}

	params := map[string]interface{}{}
	for srcProp, dstProp := range entry.PropertyMapping {
		value, ok := properties[srcProp]
		if !ok {
			continue
		}
		if sub, ok := entry.ValueMapping[srcProp]; ok {
			if mapped, ok := lookupValueFold(sub, value); ok {
				value = mapped
			}
		}
		params[dstProp] = value
	}

	return []ansible.Task{{
		Name:   fmt.Sprintf("Converted from Chef custom resource '%s'", resourceType),
		Module: entry.AnsibleModule,
		Params: params,
	}}
}

// PlaceholderTask is the diagnostic stand-in for a type with no mapping.
// The source properties travel in task vars so a later pass with a richer
// registry can still resolve the task.
func PlaceholderTask(resourceType string, properties map[string]string) ansible.Task {
	task := ansible.Task{
		Name:   fmt.Sprintf("TODO: Convert Chef custom resource '%s'", resourceType),
		Module: "ansible.builtin.debug",
		Params: map[string]interface{}{
			"msg": fmt.Sprintf("Chef custom resource '%s' requires manual conversion", resourceType),
		},
	}
	if len(properties) > 0 {
		vars := make(map[string]interface{}, len(properties))
		for k, v := range properties {
			vars[k] = v
		}
		task.Vars = vars
	}
	return task
}

func lookupValueFold(sub map[string]string, value string) (string, bool) {
	lower := strings.ToLower(value)
	for k, v := range sub {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	return "", false
}
