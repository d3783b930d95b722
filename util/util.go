package util

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	TerminalReset  = "\033[0m"
	TerminalRed    = "\033[31m"
	TerminalGreen  = "\033[32m"
	TerminalYellow = "\033[33m"
	TerminalBlue   = "\033[34m"
	TerminalPurple = "\033[35m"
	TerminalCyan   = "\033[36m"
	TerminalWhite  = "\033[37m"
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Stdout returns a writer that renders ANSI colours on every platform
func Stdout() io.Writer {
	return colorable.NewColorableStdout()
}

// Colorize wraps s in color when enabled is true
func Colorize(enabled bool, color, s string) string {
	if !enabled {
		return s
	}
	return color + s + TerminalReset
}
