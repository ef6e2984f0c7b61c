// Package ansible models generated Ansible content and writes role trees.
package ansible

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Task is one Ansible task. Params holds whatever travels under the module
// key: a parameter mapping, a free-form scalar, or a list. Handlers use the
// same shape in the handlers file.
type Task struct {
	Name   string
	Module string
	Params interface{}
	When   string
	Notify []string
	Vars   map[string]interface{}
}

// taskDirectiveKeys are task keywords that are never module names. They are
// skipped when locating the module key in decoded YAML; the model does not
// carry them.
var taskDirectiveKeys = map[string]bool{
	"args":          true,
	"become":        true,
	"become_user":   true,
	"changed_when":  true,
	"delay":         true,
	"delegate_to":   true,
	"environment":   true,
	"failed_when":   true,
	"ignore_errors": true,
	"loop":          true,
	"no_log":        true,
	"register":      true,
	"retries":       true,
	"run_once":      true,
	"tags":          true,
	"until":         true,
	"with_items":    true,
}

// MarshalYAML writes the task in the conventional Ansible order: name first,
// then the module key with its params, then when, notify, and vars.
func (t Task) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, value interface{}) error {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(value); err != nil {
			return fmt.Errorf("encoding task field %s: %w", key, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
		return nil
	}

	if t.Name != "" {
		if err := add("name", t.Name); err != nil {
			return nil, err
		}
	}
	if t.Module != "" {
		params := t.Params
		if params == nil {
			params = map[string]interface{}{}
		}
		if err := add(t.Module, params); err != nil {
			return nil, err
		}
	}
	if t.When != "" {
		if err := add("when", t.When); err != nil {
			return nil, err
		}
	}
	if len(t.Notify) > 0 {
		if err := add("notify", t.Notify); err != nil {
			return nil, err
		}
	}
	if len(t.Vars) > 0 {
		if err := add("vars", t.Vars); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// UnmarshalYAML reads a task mapping back into the model. The module is the
// first key that is neither a modelled field nor a task directive; later
// unknown keys are ignored. `when` given as a list is joined with "and",
// `notify` given as a scalar becomes a one-element list.
func (t *Task) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("task must be a mapping, got %s", node.Tag)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		switch key {
		case "name":
			if err := val.Decode(&t.Name); err != nil {
				return fmt.Errorf("decoding task name: %w", err)
			}
		case "when":
			when, err := decodeWhen(val)
			if err != nil {
				return err
			}
			t.When = when
		case "notify":
			notify, err := decodeNotify(val)
			if err != nil {
				return err
			}
			t.Notify = notify
		case "vars":
			if err := val.Decode(&t.Vars); err != nil {
				return fmt.Errorf("decoding task vars: %w", err)
			}
		default:
			if taskDirectiveKeys[key] || t.Module != "" {
				continue
			}
			t.Module = key
			var params interface{}
			if err := val.Decode(&params); err != nil {
				return fmt.Errorf("decoding params for %s: %w", key, err)
			}
			t.Params = params
		}
	}

	return nil
}

func decodeWhen(node *yaml.Node) (string, error) {
	if node.Kind == yaml.SequenceNode {
		var conditions []string
		if err := node.Decode(&conditions); err != nil {
			return "", fmt.Errorf("decoding when list: %w", err)
		}
		return strings.Join(conditions, " and "), nil
	}

	var value interface{}
	if err := node.Decode(&value); err != nil {
		return "", fmt.Errorf("decoding when: %w", err)
	}
	if value == nil {
		return "", nil
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", value), nil
}

func decodeNotify(node *yaml.Node) ([]string, error) {
	if node.Kind == yaml.SequenceNode {
		var handlers []string
		if err := node.Decode(&handlers); err != nil {
			return nil, fmt.Errorf("decoding notify list: %w", err)
		}
		return handlers, nil
	}

	var handler string
	if err := node.Decode(&handler); err != nil {
		return nil, fmt.Errorf("decoding notify: %w", err)
	}
	if handler == "" {
		return nil, nil
	}
	return []string{handler}, nil
}

// ParamsMap returns the params as a mapping when they are one, or nil.
func (t Task) ParamsMap() map[string]interface{} {
	m, _ := t.Params.(map[string]interface{})
	return m
}
