package repl

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// colorSupported follows the NO_COLOR convention and skips dumb terminals.
func colorSupported(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if !IsTerminal(f) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiDim   = "\033[2m"
)

// paint colors a status line by its outcome.
func paint(line string) string {
	switch {
	case strings.HasPrefix(line, "Error:"), strings.HasPrefix(line, "Failed"):
		return ansiRed + line + ansiReset
	case strings.HasPrefix(line, "Created"), strings.HasPrefix(line, "Method"):
		return ansiGreen + line + ansiReset
	}
	return line
}
