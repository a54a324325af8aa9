package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/colonyops/tick/internal/core/styles"
	"github.com/rs/zerolog/log"
)

const helpMarkdown = `# tick

## Adding

| Key | Action |
|-----|--------|
| a, i, / | focus the input |
| enter | add the typed task |
| tab | move focus: input, add button, list |
| esc | leave the input |

## Tasks

| Key | Action |
|-----|--------|
| ↑/k ↓/j | move the cursor |
| c | complete |
| x | cancel |
| d | delete |

Completed and cancelled tasks are final.

## View

| Key | Action |
|-----|--------|
| 1 2 3 4 | all, pending, completed, cancelled |
| f / F | next / previous filter |
| t | toggle light and dark |
| m | cycle desktop, tablet, mobile |
| ? | close this help |
| q | quit |
`

// renderHelp renders the help overlay body with the active theme. Raw
// markdown is returned if glamour fails.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw help")
		return helpMarkdown
	}

	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render help markdown")
		return helpMarkdown
	}

	return strings.Trim(out, "\n")
}
