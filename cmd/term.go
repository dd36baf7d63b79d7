package cmd

import (
	"os"

	"github.com/charmbracelet/x/term"
)

const defaultWidth = 80

// terminalWidth returns the stdout width, or 80 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
