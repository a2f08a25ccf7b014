package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorEnabled reports whether w is an interactive terminal that should get
// colored output. NO_COLOR and a dumb TERM disable it.
func ColorEnabled(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

type palette map[string]*color.Color

func newPalette(enabled bool) palette {
	p := palette{
		"ERROR": color.New(color.FgRed, color.Bold),
		"WARN":  color.New(color.FgYellow),
		"INFO":  color.New(color.FgCyan),
		"":      color.New(color.Faint),
	}
	for _, c := range p {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) sprint(severity string, s string) string {
	c, ok := p[severity]
	if !ok {
		c = p[""]
	}
	return c.Sprint(s)
}
