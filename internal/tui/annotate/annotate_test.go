package annotate

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/feedback/internal/core/capture"
	"github.com/colonyops/feedback/internal/tui/imageview"
)

type submitted struct{ image []byte }

func collect(b []byte) tea.Msg { return submitted{image: b} }

func whiteRef(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	data, err := capture.EncodePNG(img)
	require.NoError(t, err)
	return capture.EncodeDataURL(capture.MimePNG, data)
}

func key(code rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

func TestPassthrough(t *testing.T) {
	t.Run("submits source bytes", func(t *testing.T) {
		ref := capture.EncodeDataURL(capture.MimePNG, []byte("raw"))
		msg := Passthrough{}.Start(ref, collect)()
		assert.Equal(t, submitted{image: []byte("raw")}, msg)
	})

	t.Run("invalid source fails", func(t *testing.T) {
		msg := Passthrough{}.Start("nope", collect)()
		_, ok := msg.(FailedMsg)
		assert.True(t, ok)
	})
}

func TestMarker(t *testing.T) {
	t.Run("invalid source fails", func(t *testing.T) {
		m := NewMarker(10)
		cmd := m.Start("data:image/png;base64,AAAA", collect)
		require.NotNil(t, cmd)
		_, ok := cmd().(FailedMsg)
		assert.True(t, ok)
	})

	t.Run("cursor stays inside the grid", func(t *testing.T) {
		m := NewMarker(4)
		require.Nil(t, m.Start(whiteRef(t, 8, 8), collect))

		m.Update(key(tea.KeyLeft))
		m.Update(key(tea.KeyUp))
		assert.Equal(t, image.Pt(0, 0), m.Cursor())

		for range 10 {
			m.Update(key(tea.KeyRight))
			m.Update(key(tea.KeyDown))
		}
		assert.Equal(t, image.Pt(3, 1), m.Cursor())
	})

	t.Run("space toggles marks", func(t *testing.T) {
		m := NewMarker(4)
		require.Nil(t, m.Start(whiteRef(t, 8, 8), collect))

		m.Update(key(tea.KeySpace))
		assert.Equal(t, 1, m.Marks())
		m.Update(key(tea.KeySpace))
		assert.Equal(t, 0, m.Marks())

		m.Update(key(tea.KeySpace))
		m.Update(key('l'))
		m.Update(key(tea.KeySpace))
		assert.Equal(t, 2, m.Marks())

		m.Update(key(tea.KeyBackspace))
		assert.Equal(t, 0, m.Marks())
	})

	t.Run("enter submits once with highlighted image", func(t *testing.T) {
		m := NewMarker(4)
		require.Nil(t, m.Start(whiteRef(t, 40, 40), collect))

		m.Update(key(tea.KeySpace))
		cmd := m.Update(key(tea.KeyEnter))
		require.NotNil(t, cmd)

		// Further input after finishing is ignored.
		assert.Nil(t, m.Update(key(tea.KeyEnter)))

		msg, ok := cmd().(submitted)
		require.True(t, ok)

		img, err := png.Decode(bytes.NewReader(msg.image))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 40, 40), img.Bounds())

		// Top-left pixel is on the outline of the first cell.
		r, g, b, _ := img.At(0, 0).RGBA()
		assert.NotEqual(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})

		// A pixel outside every marked cell is untouched.
		r, g, b, _ = img.At(39, 39).RGBA()
		assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
	})

	t.Run("view renders status", func(t *testing.T) {
		m := NewMarker(4)
		require.Nil(t, m.Start(whiteRef(t, 8, 8), collect))
		m.Update(key(tea.KeySpace))
		assert.Contains(t, m.View(), "1 marked")
	})
}

func TestHighlight(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	grid := imageview.NewGrid(src, 2)

	out := Highlight(src, grid, []Mark{{Cell: image.Pt(1, 0), Color: 0}})

	assert.NotEqual(t, color.RGBA{}, out.RGBAAt(10, 0), "outline drawn on marked cell")
	assert.Equal(t, color.RGBA{}, out.RGBAAt(0, 0), "unmarked cell untouched")
	assert.Equal(t, color.RGBA{}, src.RGBAAt(10, 0), "source not modified")
}

func TestExternal(t *testing.T) {
	t.Run("empty command", func(t *testing.T) {
		_, err := NewExternal(nil, "")
		require.Error(t, err)
	})

	t.Run("invalid source fails without running", func(t *testing.T) {
		e, err := NewExternal([]string{"true"}, t.TempDir())
		require.NoError(t, err)

		cmd := e.Start("nope", collect)
		require.NotNil(t, cmd)
		_, ok := cmd().(FailedMsg)
		assert.True(t, ok)
	})

	t.Run("temp file written to configured dir", func(t *testing.T) {
		dir := t.TempDir()
		e, err := NewExternal([]string{"true"}, dir)
		require.NoError(t, err)

		cmd := e.Start(capture.EncodeDataURL(capture.MimePNG, []byte("img")), collect)
		require.NotNil(t, cmd)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		require.NoError(t, err)
		assert.Equal(t, []byte("img"), data)
	})

	t.Run("view names the editor", func(t *testing.T) {
		e, err := NewExternal([]string{"/usr/bin/pinta"}, "")
		require.NoError(t, err)
		assert.Contains(t, e.View(), "pinta")
	})
}
