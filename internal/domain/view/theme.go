package view

// Theme is the light/dark appearance passed explicitly down the render tree.
type Theme struct {
	dark bool
}

// Themes.
var (
	Light = Theme{}
	Dark  = Theme{dark: true}
)

// Apply sets dark mode on or off. Applying the same value twice is the same
// as applying it once.
func (t Theme) Apply(dark bool) Theme {
	t.dark = dark
	return t
}

// Dark reports whether dark mode is on.
func (t Theme) Dark() bool { return t.dark }

// RootClass is the class set on the page root element.
func (t Theme) RootClass() string {
	if t.dark {
		return "dark"
	}
	return ""
}

// String names the theme for logs and metrics.
func (t Theme) String() string {
	if t.dark {
		return "dark"
	}
	return "light"
}
