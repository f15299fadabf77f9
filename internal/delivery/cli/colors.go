package cli

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorGreen  = "\033[92m"
	colorRed    = "\033[91m"
	colorBlue   = "\033[94m"
	colorYellow = "\033[93m"
	colorReset  = "\033[0m"
)

type palette struct {
	enabled bool
}

func (p palette) paint(color, s string) string {
	if !p.enabled {
		return s
	}
	return color + s + colorReset
}

// ColorEnabled reports whether ANSI colors should be written to f.
// NO_COLOR disables them regardless of the terminal.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
