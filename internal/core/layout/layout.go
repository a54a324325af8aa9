// Package layout derives the responsive layout mode from the viewport width.
package layout

import (
	"fmt"
	"strings"
)

// Mode is the responsive layout used to render the task list.
type Mode string

const (
	Desktop Mode = "desktop"
	Tablet  Mode = "tablet"
	Mobile  Mode = "mobile"
)

// Width thresholds, inclusive upper bounds.
const (
	MobileMaxWidth = 480
	TabletMaxWidth = 768
)

// DefaultCellWidth is the number of viewport units one terminal column counts for.
const DefaultCellWidth = 8

// Modes returns the selectable modes in selector order.
func Modes() []Mode {
	return []Mode{Desktop, Tablet, Mobile}
}

// Detect maps a viewport width to a layout mode.
func Detect(width int) Mode {
	switch {
	case width <= MobileMaxWidth:
		return Mobile
	case width <= TabletMaxWidth:
		return Tablet
	default:
		return Desktop
	}
}

// DetectColumns maps a terminal width in columns to a layout mode, counting
// each column as cellWidth viewport units.
func DetectColumns(columns, cellWidth int) Mode {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	return Detect(columns * cellWidth)
}

// ParseMode parses a mode name.
func ParseMode(v string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(v)))
	if !m.IsValid() {
		return "", fmt.Errorf("invalid layout %q: must be one of desktop, tablet, mobile", v)
	}
	return m, nil
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case Desktop, Tablet, Mobile:
		return true
	default:
		return false
	}
}

// Next returns the mode after m in selector order, wrapping around.
func (m Mode) Next() Mode {
	all := Modes()
	for i, cur := range all {
		if cur == m {
			return all[(i+1)%len(all)]
		}
	}
	return Desktop
}
