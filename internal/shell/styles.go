package shell

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// clearSequence moves the cursor home and erases the screen.
const clearSequence = "\033[H\033[2J"

// styles holds the lipgloss styles used for the banner and prompts.
type styles struct {
	banner lipgloss.Style
	accent lipgloss.Style
}

// newStyles builds styles bound to w. The renderer drops color codes on its own
// when w is not a terminal; color=false drops them unconditionally.
func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		return styles{banner: r.NewStyle(), accent: r.NewStyle()}
	}
	green := lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	return styles{
		banner: r.NewStyle().Foreground(green),
		accent: r.NewStyle().Foreground(green).Bold(true),
	}
}
