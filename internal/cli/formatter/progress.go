package formatter

import (
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShareBar renders a share (0-1) as a fixed-width block bar such as
// ████░░░░. Values outside the range are clamped.
func RenderShareBar(share float64, width int) string {
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(share*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if share > 0 && filled == 0 {
		filled = 1
	}

	return StyleGreen.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}
