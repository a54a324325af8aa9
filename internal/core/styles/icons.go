package styles

// Status glyphs.
var (
	IconPending   = "○"
	IconCompleted = "✓"
	IconCancelled = "✗"
	IconCursor    = "›"
)

// Theme toggle glyphs.
var (
	IconSun  = "☀"
	IconMoon = "☾"
)
