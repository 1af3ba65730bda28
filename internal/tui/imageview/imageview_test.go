package imageview

import (
	"image"
	"image/color"
	"strings"
	"testing"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFitCols(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		maxCols int
		maxRows int
		want    int
	}{
		{"landscape keeps width", 1920, 1080, 40, 12, 40},
		{"portrait narrows", 1080, 1920, 50, 12, 13},
		{"no row limit", 1080, 1920, 50, 0, 50},
		{"tall sliver", 1, 1000, 50, 12, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := image.Rect(0, 0, tt.w, tt.h)
			cols := FitCols(b, tt.maxCols, tt.maxRows)
			assert.Equal(t, tt.want, cols)
			if tt.maxRows > 0 && tt.want > 1 {
				assert.LessOrEqual(t, NewGrid(solid(tt.w, tt.h, color.White), cols).Rows, tt.maxRows)
			}
		})
	}
}

func TestNewGrid(t *testing.T) {
	t.Run("keeps aspect ratio", func(t *testing.T) {
		g := NewGrid(solid(200, 100, color.White), 20)
		assert.Equal(t, 20, g.Cols)
		assert.Equal(t, 5, g.Rows) // 20 cols -> 10 px rows -> 5 cell rows
	})

	t.Run("minimum one row", func(t *testing.T) {
		g := NewGrid(solid(1000, 10, color.White), 10)
		assert.Equal(t, 1, g.Rows)
	})

	t.Run("clamps cols", func(t *testing.T) {
		g := NewGrid(solid(4, 4, color.White), 0)
		assert.Equal(t, 1, g.Cols)
	})

	t.Run("empty image", func(t *testing.T) {
		g := NewGrid(image.NewRGBA(image.Rect(0, 0, 0, 0)), 10)
		assert.Zero(t, g.Rows)
		assert.Empty(t, g.Render(nil))
	})

	t.Run("colors sampled", func(t *testing.T) {
		red := color.RGBA{R: 0xff, A: 0xff}
		g := NewGrid(solid(10, 10, red), 4)
		require.Positive(t, g.Rows)
		assert.Equal(t, red, g.At(0, 0).Top)
		assert.Equal(t, red, g.At(3, g.Rows-1).Bottom)
	})
}

func TestSourceRect(t *testing.T) {
	g := NewGrid(solid(100, 50, color.White), 10)
	require.Equal(t, 10, g.Cols)

	assert.Equal(t, image.Rect(0, 0, 10, 50/g.Rows), g.SourceRect(0, 0))

	last := g.SourceRect(g.Cols-1, g.Rows-1)
	assert.Equal(t, 100, last.Max.X)
	assert.Equal(t, 50, last.Max.Y)
}

func TestRender(t *testing.T) {
	t.Run("one glyph per cell", func(t *testing.T) {
		out := ansi.Strip(Render(solid(8, 8, color.White), 4))
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, strings.Repeat(upperHalf, 4), lines[0])
	})

	t.Run("decorate overrides cells", func(t *testing.T) {
		g := NewGrid(solid(8, 8, color.White), 4)
		out := g.Render(func(x, y int, _ Cell) (string, lipgloss.Style, bool) {
			if x == 0 && y == 0 {
				return "X", lipgloss.NewStyle(), true
			}
			return "", lipgloss.Style{}, false
		})
		lines := strings.Split(ansi.Strip(out), "\n")
		assert.True(t, strings.HasPrefix(lines[0], "X"))
		assert.Equal(t, strings.Repeat(upperHalf, 4), lines[1])
	})
}
