package output

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is attached to a terminal.
// Spinners and screen clearing are suppressed when it returns false.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal when attached to a TTY.
func ClearScreen() {
	if IsTTY() {
		os.Stdout.WriteString("\033[2J\033[H")
	}
}
