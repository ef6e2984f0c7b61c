// Package translator turns parsed Chef recipes into Ansible task sections.
//
// Every translator speaks one wire contract: free-form response text
// carrying # Tasks, # Handlers and # Variables fenced YAML sections, parsed
// by ExtractSections. The deterministic Offline translator is the default;
// a generative implementation plugs in behind the same interface.
package translator

import (
	"context"

	"github.com/chefport/cli/internal/ansible"
)

// Request carries one recipe to translate plus optional steering text.
type Request struct {
	// Recipe is the raw recipe source.
	Recipe string

	// Feedback carries validation output from a previous attempt, letting a
	// generative translator correct itself on retry.
	Feedback string

	// Instructions are extra user instructions appended to the prompt.
	Instructions string
}

// Sections is the parsed three-section translator response.
type Sections struct {
	Tasks     []ansible.Task
	Handlers  []ansible.Task
	Variables map[string]interface{}
}

// Translator converts one recipe into response text in the section format.
type Translator interface {
	Translate(ctx context.Context, req Request) (string, error)
}
