// Package imageview renders raster images in the terminal using half-block
// glyphs: every cell shows two vertically stacked pixels, the upper one as the
// foreground of "▀" and the lower one as its background.
package imageview

import (
	"image"
	"image/color"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	xdraw "golang.org/x/image/draw"
)

const upperHalf = "▀"

// Cell is the pair of pixels rendered by one terminal cell.
type Cell struct {
	Top    color.Color
	Bottom color.Color
}

// Grid is an image downscaled to terminal cells.
type Grid struct {
	Cols, Rows int
	cells      [][]Cell
	source     image.Rectangle
}

// NewGrid scales img to cols cells wide, keeping the aspect ratio. Each cell
// row covers two pixel rows. cols is clamped to at least 1.
func NewGrid(img image.Image, cols int) Grid {
	b := img.Bounds()
	if cols < 1 {
		cols = 1
	}
	if b.Dx() == 0 || b.Dy() == 0 {
		return Grid{source: b}
	}

	pxH := max(cols*b.Dy()/b.Dx(), 2)
	rows := (pxH + 1) / 2
	pxH = rows * 2

	dst := image.NewRGBA(image.Rect(0, 0, cols, pxH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)

	cells := make([][]Cell, rows)
	for y := range rows {
		cells[y] = make([]Cell, cols)
		for x := range cols {
			cells[y][x] = Cell{
				Top:    dst.RGBAAt(x, y*2),
				Bottom: dst.RGBAAt(x, y*2+1),
			}
		}
	}

	return Grid{Cols: cols, Rows: rows, cells: cells, source: b}
}

// At returns the cell at x, y.
func (g Grid) At(x, y int) Cell { return g.cells[y][x] }

// SourceRect returns the rectangle of the source image covered by cell x, y.
func (g Grid) SourceRect(x, y int) image.Rectangle {
	if g.Cols == 0 || g.Rows == 0 {
		return image.Rectangle{}
	}
	w, h := g.source.Dx(), g.source.Dy()
	return image.Rect(
		g.source.Min.X+x*w/g.Cols,
		g.source.Min.Y+y*h/g.Rows,
		g.source.Min.X+(x+1)*w/g.Cols,
		g.source.Min.Y+(y+1)*h/g.Rows,
	)
}

// CellFunc lets callers restyle individual cells. Returning ok=false renders
// the default half block.
type CellFunc func(x, y int, c Cell) (glyph string, style lipgloss.Style, ok bool)

// Render draws the grid. decorate may be nil.
func (g Grid) Render(decorate CellFunc) string {
	var sb strings.Builder
	for y := range g.Rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range g.Cols {
			c := g.cells[y][x]
			if decorate != nil {
				if glyph, style, ok := decorate(x, y, c); ok {
					sb.WriteString(style.Render(glyph))
					continue
				}
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(c.Top).Background(c.Bottom).Render(upperHalf))
		}
	}
	return sb.String()
}

// FitCols returns the widest column count, at most maxCols, at which an image
// with bounds b renders in no more than maxRows rows. A maxRows of 0 or less
// leaves the width alone.
func FitCols(b image.Rectangle, maxCols, maxRows int) int {
	if maxRows <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return max(maxCols, 1)
	}
	return max(min(maxCols, 2*maxRows*b.Dx()/b.Dy()), 1)
}

// Render is a shortcut for NewGrid(img, cols).Render(nil).
func Render(img image.Image, cols int) string {
	return NewGrid(img, cols).Render(nil)
}
