package entity

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const (
	iconSun  = "☀️"
	iconMoon = "🌙"
)

// ParseTheme maps a stored value to a Theme; anything but "dark" is light.
func ParseTheme(value string) Theme {
	if value == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Icon shows the action the next toggle performs: a sun while dark is active, a moon otherwise.
func (t Theme) Icon() string {
	if t == ThemeDark {
		return iconSun
	}
	return iconMoon
}

// UserSession is the logged-in user record kept in the preference store
type UserSession struct {
	Name string `json:"name"`
}

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
	FormatXLSX     ExportFormat = "xlsx"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF, FormatXLSX:
		return true
	default:
		return false
	}
}
