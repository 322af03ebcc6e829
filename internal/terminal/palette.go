package terminal

import "github.com/futig/examgenie/internal/entity"

const ansiReset = "\033[0m"

// Palette maps message roles to ANSI sequences for one theme
type Palette struct {
	Title   string
	Muted   string
	Accent  string
	Warning string
	Error   string
	Success string
}

var (
	lightPalette = Palette{
		Title:   "\033[1;34m",
		Muted:   "\033[90m",
		Accent:  "\033[35m",
		Warning: "\033[33m",
		Error:   "\033[31m",
		Success: "\033[32m",
	}
	darkPalette = Palette{
		Title:   "\033[1;96m",
		Muted:   "\033[37m",
		Accent:  "\033[95m",
		Warning: "\033[93m",
		Error:   "\033[91m",
		Success: "\033[92m",
	}
)

// PaletteFor returns the palette of a theme; color=false yields a palette without escapes.
func PaletteFor(theme entity.Theme, color bool) Palette {
	if !color {
		return Palette{}
	}
	if theme == entity.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

func (p Palette) paint(seq, s string) string {
	if seq == "" {
		return s
	}
	return seq + s + ansiReset
}
