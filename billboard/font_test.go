package billboard

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFontRegistry_Families(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{FamilyGo, FamilyLatinModernRoman}, r.Families())

	_, err := r.font("Noto Serif Medium")
	assert.ErrorIs(t, err, ErrFontUnavailable)

	r.Register("Broken", []byte("not a font"))
	_, err = r.font("Broken")
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

func TestFaceRasterizer_Measure(t *testing.T) {
	fr := NewFaceRasterizer(nil)

	short, err := fr.MeasureText(FamilyLatinModernRoman, 20, "you go on.")
	require.NoError(t, err)
	long, err := fr.MeasureText(FamilyLatinModernRoman, 20, "that is how I know ")
	require.NoError(t, err)
	assert.Greater(t, long, short)

	empty, err := fr.MeasureText(FamilyGo, 20, "")
	require.NoError(t, err)
	assert.Zero(t, empty)

	bigger, err := fr.MeasureText(FamilyLatinModernRoman, 40, "you go on.")
	require.NoError(t, err)
	assert.Greater(t, bigger, short)

	_, err = fr.MeasureText(FamilyGo, -1, "x")
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestFaceRasterizer_DrawTextTopAligned(t *testing.T) {
	fr := NewFaceRasterizer(nil)
	dst := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	fill := color.NRGBA{R: 10, G: 20, B: 30, A: 230}

	require.NoError(t, fr.DrawText(dst, FamilyGo, 20, "H", 0, 32, fill))

	band := func(y0, y1 int) int {
		n := 0
		for y := y0; y < y1; y++ {
			for x := 0; x < 64; x++ {
				if dst.NRGBAAt(x, y).A > 0 {
					n++
				}
			}
		}
		return n
	}
	assert.Zero(t, band(0, 32), "nothing drawn above the line origin")
	assert.Positive(t, band(32, 52), "glyph drawn inside the line box")
}

func TestCompositeMask_SourceOver(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	mask := image.NewAlpha(dst.Bounds())
	mask.SetAlpha(0, 0, color.Alpha{A: 255})
	mask.SetAlpha(1, 0, color.Alpha{A: 0})
	fill := color.NRGBA{R: 42, G: 54, B: 56, A: 230}

	compositeMask(dst, mask, fill)
	compositeMask(dst, mask, fill)

	p := dst.NRGBAAt(0, 0)
	assert.Equal(t, uint8(42), p.R)
	assert.Equal(t, uint8(54), p.G)
	assert.Equal(t, uint8(56), p.B)
	// 0.902 + 0.902*(1-0.902)
	assert.Equal(t, uint8(253), p.A)
	assert.Zero(t, dst.NRGBAAt(1, 0).A)
}
