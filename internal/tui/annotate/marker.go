package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/colonyops/feedback/internal/core/capture"
	"github.com/colonyops/feedback/internal/core/styles"
	"github.com/colonyops/feedback/internal/tui/imageview"
)

// DefaultMarkerWidth is the surface width in cells when none is configured.
const DefaultMarkerWidth = 48

// markColors are the highlight colours cycled with the colour key.
var markColors = []colorful.Color{
	colorful.MustParseHex("#f7768e"),
	colorful.MustParseHex("#e0af68"),
	colorful.MustParseHex("#9ece6a"),
	colorful.MustParseHex("#7aa2f7"),
}

// MarkerKeys are the key bindings of the marker surface.
type MarkerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Color  key.Binding
	Clear  key.Binding
	Done   key.Binding
}

// DefaultMarkerKeys returns the default marker bindings.
func DefaultMarkerKeys() MarkerKeys {
	return MarkerKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Toggle: key.NewBinding(key.WithKeys("space", "x"), key.WithHelp("space", "mark")),
		Color:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "colour")),
		Clear:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "clear")),
		Done:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "attach")),
	}
}

// Marker is an in-terminal surface: the image is shown as a half-block grid
// and the user highlights cells. Every highlighted cell becomes a rectangle
// outline on the full resolution image.
type Marker struct {
	width int
	keys  MarkerKeys

	src      image.Image
	grid     imageview.Grid
	cursor   image.Point
	marks    map[image.Point]int
	colorIdx int
	onSubmit SubmitFunc
	done     bool
}

// NewMarker creates a marker surface width cells wide.
func NewMarker(width int) *Marker {
	if width <= 0 {
		width = DefaultMarkerWidth
	}
	return &Marker{width: width, keys: DefaultMarkerKeys()}
}

func (m *Marker) Start(src string, onSubmit SubmitFunc) tea.Cmd {
	img, err := capture.DecodeImage(src)
	if err != nil {
		m.done = true
		return failed(err)
	}

	m.src = img
	m.grid = imageview.NewGrid(img, m.width)
	m.cursor = image.Point{}
	m.marks = make(map[image.Point]int)
	m.colorIdx = 0
	m.onSubmit = onSubmit
	m.done = false
	return nil
}

func (m *Marker) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.done || m.src == nil {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.move(0, -1)
	case key.Matches(keyMsg, m.keys.Down):
		m.move(0, 1)
	case key.Matches(keyMsg, m.keys.Left):
		m.move(-1, 0)
	case key.Matches(keyMsg, m.keys.Right):
		m.move(1, 0)
	case key.Matches(keyMsg, m.keys.Toggle):
		if _, marked := m.marks[m.cursor]; marked {
			delete(m.marks, m.cursor)
		} else {
			m.marks[m.cursor] = m.colorIdx
		}
	case key.Matches(keyMsg, m.keys.Color):
		m.colorIdx = (m.colorIdx + 1) % len(markColors)
	case key.Matches(keyMsg, m.keys.Clear):
		clear(m.marks)
	case key.Matches(keyMsg, m.keys.Done):
		return m.finish()
	}
	return nil
}

// Marks returns the number of highlighted cells.
func (m *Marker) Marks() int { return len(m.marks) }

// Cursor returns the cell under the cursor.
func (m *Marker) Cursor() image.Point { return m.cursor }

func (m *Marker) move(dx, dy int) {
	m.cursor.X = min(max(m.cursor.X+dx, 0), m.grid.Cols-1)
	m.cursor.Y = min(max(m.cursor.Y+dy, 0), m.grid.Rows-1)
}

func (m *Marker) finish() tea.Cmd {
	m.done = true

	src, marks, grid, onSubmit := m.src, m.snapshotMarks(), m.grid, m.onSubmit
	return func() tea.Msg {
		data, err := capture.EncodePNG(Highlight(src, grid, marks))
		if err != nil {
			return FailedMsg{Err: err}
		}
		return onSubmit(data)
	}
}

// Mark is a highlighted grid cell and its colour index.
type Mark struct {
	Cell  image.Point
	Color int
}

func (m *Marker) snapshotMarks() []Mark {
	out := make([]Mark, 0, len(m.marks))
	for p, c := range m.marks {
		out = append(out, Mark{Cell: p, Color: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cell.Y != out[j].Cell.Y {
			return out[i].Cell.Y < out[j].Cell.Y
		}
		return out[i].Cell.X < out[j].Cell.X
	})
	return out
}

// Highlight returns a copy of src with an outline drawn around the source
// rectangle of every marked cell.
func Highlight(src image.Image, grid imageview.Grid, marks []Mark) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, src, b.Min, draw.Src)

	thickness := max(b.Dx()/300, 1)
	for _, mk := range marks {
		r := grid.SourceRect(mk.Cell.X, mk.Cell.Y).Intersect(b)
		if r.Empty() {
			continue
		}
		outline(out, r, thickness, markColors[mk.Color%len(markColors)])
	}
	return out
}

func outline(img *image.RGBA, r image.Rectangle, t int, c color.Color) {
	u := image.NewUniform(c)
	t = min(t, r.Dx()/2+1, r.Dy()/2+1)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func (m *Marker) View() string {
	if m.src == nil {
		return ""
	}

	grid := m.grid.Render(func(x, y int, c imageview.Cell) (string, lipgloss.Style, bool) {
		p := image.Pt(x, y)
		idx, marked := m.marks[p]
		isCursor := p == m.cursor
		if !marked && !isCursor {
			return "", lipgloss.Style{}, false
		}

		top, bottom := c.Top, c.Bottom
		if marked {
			top, bottom = tint(top, idx), tint(bottom, idx)
		}
		st := lipgloss.NewStyle().Foreground(top).Background(bottom)
		if isCursor {
			return "▣", st.Foreground(markColors[m.colorIdx]), true
		}
		return "▀", st, true
	})

	status := fmt.Sprintf("%d marked", len(m.marks))
	swatch := lipgloss.NewStyle().Foreground(markColors[m.colorIdx]).Render("■")
	help := styles.ModalHelpStyle.Render(
		"arrows/hjkl move  space mark  c colour " + swatch + "  backspace clear  enter attach",
	)

	return lipgloss.JoinVertical(lipgloss.Left, grid, "", styles.TextMutedStyle.Render(status), help)
}

func tint(c color.Color, idx int) color.Color {
	base, ok := colorful.MakeColor(c)
	if !ok {
		return markColors[idx%len(markColors)]
	}
	return base.BlendRgb(markColors[idx%len(markColors)], 0.6).Clamped()
}
