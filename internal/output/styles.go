package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette — named constants for all ANSI 256 colors used in the CLI.
// These are the single source of truth; never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: cookbook names, role paths, resource types.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "converted" cookbook status (bright, high-visibility).
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "partial" cookbook status (medium visibility).
	ColorYellow = lipgloss.Color("220")

	// ColorOrange is used for the "placeholder" status (needs manual attention).
	ColorOrange = lipgloss.Color("214")

	// ColorRed is used for the "failed" cookbook status (matches ERROR level).
	ColorRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (cookbook names, role paths, resource types).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (parsing, converting, writing).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators, timestamps).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleSuccess styles additions and passing checks.
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGreen)

	// StyleWarning styles modifications and partial results.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleError styles removals and failures.
	StyleError = lipgloss.NewStyle().Foreground(ColorRed)
)

// Cookbook conversion status constants.
const (
	StatusConverted   = "converted"
	StatusPartial     = "partial"
	StatusPlaceholder = "placeholder"
	StatusSkipped     = "skipped"
	StatusFailed      = "failed"
)

// StatusStyle returns the lipgloss style for a given conversion status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusConverted:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusPartial:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusPlaceholder:
		return lipgloss.NewStyle().Foreground(ColorOrange)
	case StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minCookbookColumnWidth is the minimum width for the cookbook path column
// before the status suffix. This ensures status words align consistently.
const minCookbookColumnWidth = 48

// FormatCookbookLine renders a cookbook identifier with a right-aligned,
// color-coded status suffix.
//
// Format: c:<cookbook/role>  <status>
// When role matches the cookbook name: c:<cookbook>
//
// The "c:" prefix is dim, the path is cyan, and the status uses StatusStyle.
func FormatCookbookLine(cookbook, role, status string) string {
	path := cookbook
	if role != "" && role != cookbook {
		path = cookbook + "/" + role
	}

	padding := minCookbookColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	prefix := StyleDim.Render("c:")
	styledPath := StyleNoun.Render(path)
	styledStatus := StatusStyle(status).Render(status)

	return prefix + styledPath + strings.Repeat(" ", padding) + styledStatus
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatVetCheck renders a validation check line with an aligned detail suffix.
func FormatVetCheck(check, detail string) string {
	if detail == "" {
		return FormatCheckmark(check)
	}

	padding := minCookbookColumnWidth - len(check)
	if padding < 2 {
		padding = 2
	}
	return FormatCheckmark(check) + strings.Repeat(" ", padding) + StyleDim.Render(detail)
}
