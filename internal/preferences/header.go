package preferences

import "github.com/futig/examgenie/internal/entity"

type HeaderVariant int

const (
	HeaderLoggedOut HeaderVariant = iota
	HeaderLoggedIn
)

// HeaderAction is a control rendered in the header
type HeaderAction string

const (
	ActionLogin       HeaderAction = "login"
	ActionLogout      HeaderAction = "logout"
	ActionToggleTheme HeaderAction = "theme"
)

type Header struct {
	Variant   HeaderVariant
	UserName  string
	Theme     entity.Theme
	ThemeIcon string
	Actions   []HeaderAction
}

// BuildHeader picks the header variant from the user record. Adapters bind
// the actions; nothing here depends on how they are rendered.
func BuildHeader(user *entity.UserSession, theme entity.Theme) Header {
	if user != nil {
		return Header{
			Variant:   HeaderLoggedIn,
			UserName:  user.Name,
			Theme:     theme,
			ThemeIcon: theme.Icon(),
			Actions:   []HeaderAction{ActionLogout},
		}
	}

	return Header{
		Variant:   HeaderLoggedOut,
		Theme:     theme,
		ThemeIcon: theme.Icon(),
		Actions:   []HeaderAction{ActionLogin, ActionToggleTheme},
	}
}
