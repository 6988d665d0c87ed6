package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 3/8 for done out of total.
// The bar is green once everything is done and yellow otherwise.
func RenderProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	if total <= 0 {
		return fmt.Sprintf("[%s] 0/0", StyleDim.Render(strings.Repeat(emptyBlock, width)))
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}

	filled := done * width / total
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	if done == total {
		style = StyleGreen
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}
