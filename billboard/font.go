package billboard

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrFontUnavailable is returned when a font family cannot be measured or
// rendered. Callers pick a fallback family or skip the panel.
var ErrFontUnavailable = errors.New("font unavailable")

const (
	FamilyGo               = "Go"
	FamilyLatinModernRoman = "Latin Modern Roman"
)

// Rasterizer is the font/canvas capability the builder draws through.
// Sizes and coordinates are device pixels. y is the top of the line box.
type Rasterizer interface {
	MeasureText(family string, sizePx float64, text string) (float64, error)
	DrawText(dst *image.NRGBA, family string, sizePx float64, text string, x, y float64, fill color.NRGBA) error
}

// FontRegistry maps family names to the bold face of that family.
type FontRegistry struct {
	mu      sync.Mutex
	sources map[string][]byte
	parsed  map[string]*opentype.Font
}

func NewFontRegistry() *FontRegistry {
	return &FontRegistry{
		sources: make(map[string][]byte),
		parsed:  make(map[string]*opentype.Font),
	}
}

// DefaultRegistry knows the embedded Go Bold and Latin Modern Roman Bold faces.
func DefaultRegistry() *FontRegistry {
	r := NewFontRegistry()
	r.Register(FamilyGo, gobold.TTF)
	r.Register(FamilyLatinModernRoman, lmroman10bold.TTF)
	return r
}

// Register adds or replaces the bold face data for family.
func (r *FontRegistry) Register(family string, data []byte) {
	family = strings.TrimSpace(family)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[family] = data
	delete(r.parsed, family)
}

func (r *FontRegistry) Families() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	families := make([]string, 0, len(r.sources))
	for name := range r.sources {
		families = append(families, name)
	}
	sort.Strings(families)
	return families
}

func (r *FontRegistry) font(family string) (*opentype.Font, error) {
	family = strings.TrimSpace(family)
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.parsed[family]; ok {
		return f, nil
	}
	data, ok := r.sources[family]
	if !ok {
		return nil, fmt.Errorf("%w: unknown family %q", ErrFontUnavailable, family)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %q: %v", ErrFontUnavailable, family, err)
	}
	r.parsed[family] = f
	return f, nil
}

type faceKey struct {
	family string
	size   float64
}

// FaceRasterizer implements Rasterizer on top of x/image opentype faces.
// Faces are cached per family and size.
type FaceRasterizer struct {
	registry *FontRegistry

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

func NewFaceRasterizer(registry *FontRegistry) *FaceRasterizer {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &FaceRasterizer{
		registry: registry,
		faces:    make(map[faceKey]font.Face),
	}
}

func (fr *FaceRasterizer) face(family string, sizePx float64) (font.Face, error) {
	if sizePx <= 0 || math.IsNaN(sizePx) || math.IsInf(sizePx, 0) {
		return nil, fmt.Errorf("%w: size %v", ErrInvalidSpec, sizePx)
	}

	key := faceKey{family: family, size: sizePx}
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if f, ok := fr.faces[key]; ok {
		return f, nil
	}

	otf, err := fr.registry.font(family)
	if err != nil {
		return nil, err
	}
	// 72 DPI makes the point size equal to the pixel size.
	f, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create face %q@%v: %v", ErrFontUnavailable, family, sizePx, err)
	}
	fr.faces[key] = f
	return f, nil
}

func (fr *FaceRasterizer) MeasureText(family string, sizePx float64, text string) (float64, error) {
	f, err := fr.face(family, sizePx)
	if err != nil {
		return 0, err
	}
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fixedToFloat64(font.MeasureString(f, text)), nil
}

// DrawText rasterizes text with its em-box top at y and blends fill over dst,
// scaling fill's alpha by glyph coverage.
func (fr *FaceRasterizer) DrawText(dst *image.NRGBA, family string, sizePx float64, text string, x, y float64, fill color.NRGBA) error {
	f, err := fr.face(family, sizePx)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	fr.mu.Lock()
	mask := image.NewAlpha(dst.Bounds())
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: f,
		Dot: fixed.Point26_6{
			X: floatToFixed(x),
			Y: floatToFixed(y + emBaseline(f.Metrics(), sizePx)),
		},
	}
	d.DrawString(text)
	fr.mu.Unlock()

	compositeMask(dst, mask, fill)
	return nil
}

// emBaseline is the baseline's distance below the em-box top. The font's
// ascent and descent are scaled to share exactly sizePx, so a line drawn at y
// keeps its ink inside [y, y+sizePx).
func emBaseline(m font.Metrics, sizePx float64) float64 {
	ascent, descent := fixedToFloat64(m.Ascent), fixedToFloat64(m.Descent)
	if ascent+descent <= 0 {
		return ascent
	}
	return sizePx * ascent / (ascent + descent)
}

// compositeMask blends fill over dst (source-over, non-premultiplied) wherever
// mask has coverage.
func compositeMask(dst *image.NRGBA, mask *image.Alpha, fill color.NRGBA) {
	b := dst.Bounds().Intersect(mask.Bounds())
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			cov := mask.AlphaAt(px, py).A
			if cov == 0 {
				continue
			}
			sa := float64(fill.A) / 255 * float64(cov) / 255
			i := dst.PixOffset(px, py)
			p := dst.Pix[i : i+4 : i+4]
			da := float64(p[3]) / 255

			oa := sa + da*(1-sa)
			if oa == 0 {
				continue
			}
			blend := func(sc, dc uint8) uint8 {
				v := (float64(sc)*sa + float64(dc)*da*(1-sa)) / oa
				return uint8(math.Round(v))
			}
			p[0] = blend(fill.R, p[0])
			p[1] = blend(fill.G, p[1])
			p[2] = blend(fill.B, p[2])
			p[3] = uint8(math.Round(oa * 255))
		}
	}
}

func fixedToFloat64(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
