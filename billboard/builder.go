package billboard

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSpec is returned for non-positive or non-finite sizes and ratios.
var ErrInvalidSpec = errors.New("invalid text spec")

// DefaultFamily is used when a TextSpec leaves Family empty.
const DefaultFamily = FamilyLatinModernRoman

// GlyphAlpha is the opacity of fully covered glyph pixels.
const GlyphAlpha = 0.9

// Color is an RGB triple with channels in [0,1].
type Color struct {
	R, G, B float64
}

// ColorFromHex converts 0xRRGGBB into channel fractions.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
	}
}

// ParseHexColor accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseHexColor(s string) (Color, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
	if len(v) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	hex, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return ColorFromHex(uint32(hex)), nil
}

// Fill returns the 8-bit glyph fill: floor(channel*255) with alpha GlyphAlpha.
func (c Color) Fill() color.NRGBA {
	return color.NRGBA{
		R: channel8(c.R),
		G: channel8(c.G),
		B: channel8(c.B),
		A: uint8(math.Round(GlyphAlpha * 255)),
	}
}

func channel8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Floor(v * 255))
}

// TextSpec describes one panel of text.
type TextSpec struct {
	Text             string
	FontSizePx       float64
	Color            Color
	DevicePixelRatio float64
	// Family selects the bold face; empty means DefaultFamily.
	Family string
}

func (s TextSpec) validate() error {
	if !positiveFinite(s.FontSizePx) {
		return fmt.Errorf("%w: font size %v", ErrInvalidSpec, s.FontSizePx)
	}
	if !positiveFinite(s.DevicePixelRatio) {
		return fmt.Errorf("%w: device pixel ratio %v", ErrInvalidSpec, s.DevicePixelRatio)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Image is the rasterized panel texture.
type Image struct {
	Lines []string

	PixelWidth, PixelHeight int
	// Logical sizes are pixel sizes divided by the device pixel ratio and are
	// used as world-space extents of the billboard.
	LogicalWidth, LogicalHeight float64

	Pixels *image.NRGBA
}

// SplitLines splits text on explicit line breaks. It always returns at least one line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

type Builder struct {
	Rasterizer Rasterizer
}

func NewBuilder(r Rasterizer) *Builder {
	return &Builder{Rasterizer: r}
}

// NewDefaultBuilder draws with the embedded font families.
func NewDefaultBuilder() *Builder {
	return NewBuilder(NewFaceRasterizer(DefaultRegistry()))
}

// Build rasterizes spec into a texture sized to its widest line and line count.
// Lines are left aligned, top aligned at index*lineHeight.
func (b *Builder) Build(spec TextSpec) (*Image, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if b.Rasterizer == nil {
		return nil, fmt.Errorf("%w: no rasterizer", ErrFontUnavailable)
	}
	family := spec.Family
	if family == "" {
		family = DefaultFamily
	}

	lines := SplitLines(spec.Text)
	sizePx := spec.FontSizePx * spec.DevicePixelRatio

	maxLineWidth := 0.0
	for _, line := range lines {
		w, err := b.Rasterizer.MeasureText(family, sizePx, line)
		if err != nil {
			return nil, fmt.Errorf("measure line %q: %w", line, err)
		}
		if w > maxLineWidth {
			maxLineWidth = w
		}
	}

	lineHeight := sizePx
	pixelWidth := max(1, int(math.Ceil(maxLineWidth)))
	pixelHeight := max(1, int(math.Ceil(lineHeight*float64(len(lines)))))

	img := image.NewNRGBA(image.Rect(0, 0, pixelWidth, pixelHeight))
	fill := spec.Color.Fill()
	for i, line := range lines {
		if line == "" {
			continue
		}
		y := float64(i) * lineHeight
		if err := b.Rasterizer.DrawText(img, family, sizePx, line, 0, y, fill); err != nil {
			return nil, fmt.Errorf("draw line %q: %w", line, err)
		}
	}

	return &Image{
		Lines:         lines,
		PixelWidth:    pixelWidth,
		PixelHeight:   pixelHeight,
		LogicalWidth:  float64(pixelWidth) / spec.DevicePixelRatio,
		LogicalHeight: float64(pixelHeight) / spec.DevicePixelRatio,
		Pixels:        img,
	}, nil
}
