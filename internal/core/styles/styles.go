// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/colonyops/tick/internal/core/task"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

var (
	// CurrentTheme is the active theme.
	CurrentTheme Theme
	// CurrentPalette holds the active theme palette.
	CurrentPalette Palette
)

// Exported colors of the active palette.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	AppStyle    lipgloss.Style
	TitleStyle  lipgloss.Style
	MutedStyle  lipgloss.Style
	ErrorStyle  lipgloss.Style
	StatusStyle lipgloss.Style

	InputStyle        lipgloss.Style
	InputFocusedStyle lipgloss.Style

	ButtonStyle         lipgloss.Style
	ButtonSelectedStyle lipgloss.Style

	FilterStyle       lipgloss.Style
	FilterActiveStyle lipgloss.Style

	RowStyle         lipgloss.Style
	RowSelectedStyle lipgloss.Style
	RowEnteringStyle lipgloss.Style
	RowExitingStyle  lipgloss.Style
	TimestampStyle   lipgloss.Style
	ActionHintStyle  lipgloss.Style

	PendingStyle   lipgloss.Style
	CompletedStyle lipgloss.Style
	CancelledStyle lipgloss.Style

	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style
)

// SetTheme activates a built-in theme and rebuilds all global styles.
func SetTheme(t Theme) {
	CurrentTheme = t
	SetPalette(t.Palette())
}

// SetPalette sets the active palette and rebuilds all global styles.
func SetPalette(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	AppStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Padding(0, 1)
	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	StatusStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	InputFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		PaddingLeft(1)

	ButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	FilterStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 1)
	FilterActiveStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	RowStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	RowSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Background(ColorSurface).
		Bold(true)
	RowEnteringStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	RowExitingStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Faint(true).
		Strikethrough(true)
	TimestampStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ActionHintStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	PendingStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	CompletedStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Strikethrough(true)
	CancelledStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Strikethrough(true)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
}

// StatusStyleFor returns the text style for a task status.
func StatusStyleFor(s task.Status) lipgloss.Style {
	switch s {
	case task.StatusCompleted:
		return CompletedStyle
	case task.StatusCancelled:
		return CancelledStyle
	default:
		return PendingStyle
	}
}

// StatusIcon returns the glyph for a task status.
func StatusIcon(s task.Status) string {
	switch s {
	case task.StatusCompleted:
		return IconCompleted
	case task.StatusCancelled:
		return IconCancelled
	default:
		return IconPending
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(DefaultTheme)
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	if CurrentTheme == ThemeLight {
		cfg = glamourstyles.LightStyleConfig
	}

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	cfg.Table.Color = fg

	return cfg
}
