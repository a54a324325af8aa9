package styles

import (
	"fmt"

	lipgloss "charm.land/lipgloss/v2"
)

// Theme names a built-in palette.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = ThemeDark

// themes holds the built-in palettes.
var themes = map[Theme]Palette{
	ThemeDark: {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	ThemeLight: {
		Primary:    lipgloss.Color("#2e7de9"),
		Secondary:  lipgloss.Color("#007197"),
		Foreground: lipgloss.Color("#3760bf"),
		Muted:      lipgloss.Color("#848cb5"),
		Background: lipgloss.Color("#e1e2e7"),
		Surface:    lipgloss.Color("#c4c8da"),
		Success:    lipgloss.Color("#587539"),
		Warning:    lipgloss.Color("#8c6c3e"),
		Error:      lipgloss.Color("#f52a65"),
	},
}

// Themes returns the built-in themes in display order.
func Themes() []Theme {
	return []Theme{ThemeDark, ThemeLight}
}

// ParseTheme validates a theme name. Empty selects DefaultTheme.
func ParseTheme(v string) (Theme, error) {
	if v == "" {
		return DefaultTheme, nil
	}
	t := Theme(v)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid theme %q: must be dark or light", v)
	}
	return t, nil
}

// IsValid reports whether t names a built-in palette.
func (t Theme) IsValid() bool {
	_, ok := themes[t]
	return ok
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ToggleLabel names the action the theme toggle performs: it shows the
// theme that pressing it switches to.
func (t Theme) ToggleLabel() string {
	if t == ThemeLight {
		return IconMoon + " dark"
	}
	return IconSun + " light"
}

// Palette returns the palette for t, falling back to DefaultTheme.
func (t Theme) Palette() Palette {
	if p, ok := themes[t]; ok {
		return p
	}
	return themes[DefaultTheme]
}
