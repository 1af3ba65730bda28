package styles

import (
	"image/color"
	"testing"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemes(t *testing.T) {
	names := ThemeNames()
	require.Contains(t, names, DefaultTheme)
	assert.IsIncreasing(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p, ok := GetPalette(name)
			require.True(t, ok)
			assert.NotNil(t, p.Primary)
			assert.NotNil(t, p.Background)
		})
	}

	_, ok := GetPalette("nope")
	assert.False(t, ok)
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, _ := GetPalette("gruvbox")
	SetTheme(p)
	assert.Equal(t, p.Primary, ColorPrimary)
	assert.Equal(t, p, CurrentPalette)
	assert.NotNil(t, ColorBackdrop)
}

func TestMix(t *testing.T) {
	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	r, g, b, _ := Mix(black, white, 0).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r, g, b})

	r, _, _, _ = Mix(black, white, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	mid, _, _, _ := Mix(black, white, 0.5).RGBA()
	assert.InDelta(t, 0x7fff, int(mid), 0x200)

	assert.Equal(t, lipgloss.Color("#123456"), Mix(lipgloss.Color("#123456"), nil, 0.5))
}
