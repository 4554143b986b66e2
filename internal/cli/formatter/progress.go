package formatter

import (
	"fmt"
	"strings"

	"github.com/tetsunavi/tetsunavi/internal/view"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderProgressSummary renders "3 / 7 完了" followed by a bar.
func RenderProgressSummary(s view.ProgressSummary, width int) string {
	label := fmt.Sprintf("%d / %d 完了", s.Completed, s.Total)
	if s.Total > 0 && s.Completed == s.Total {
		label = StyleGreen.Render(label)
	} else {
		label = Bold(label)
	}
	return label + "  " + RenderProgress(s.Ratio(), width)
}
