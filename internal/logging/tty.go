package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is an *os.File attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether log output to w should be colorized.
func SupportsColor(w io.Writer) bool {
	return supportsColor(IsTTY(w))
}

// supportsColor applies the NO_COLOR, FORCE_COLOR and TERM=dumb conventions
// on top of terminal detection. NO_COLOR wins.
func supportsColor(isTTY bool) bool {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return false
	case os.Getenv("FORCE_COLOR") != "":
		return true
	case os.Getenv("TERM") == "dumb":
		return false
	default:
		return isTTY
	}
}
