package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		width       int
		filled      int
		suffix      string
	}{
		{"none", 0, 4, 8, 0, "0/4"},
		{"half", 2, 4, 8, 4, "2/4"},
		{"all", 4, 4, 8, 8, "4/4"},
		{"over clamps", 9, 4, 8, 8, "4/4"},
		{"negative clamps", -1, 4, 8, 0, "0/4"},
		{"empty batch", 0, 0, 8, 0, "0/0"},
		{"tiny width clamps to 2", 1, 2, 1, 1, "1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderProgress(tt.done, tt.total, tt.width))
			assert.True(t, strings.HasSuffix(got, tt.suffix), got)
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
		})
	}
}
