package seascape

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"math"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gekko3d/seascape/billboard"
)

// manualClock is advanced by tests.
type manualClock struct {
	now time.Time
}

func newManualClock(ms int64) *manualClock {
	return &manualClock{now: time.UnixMilli(ms)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// monoRasterizer measures half an em per rune and fills glyph cells solid.
// Families listed in missing are unavailable.
type monoRasterizer struct {
	missing map[string]bool
}

func (m monoRasterizer) MeasureText(family string, sizePx float64, text string) (float64, error) {
	if m.missing[family] {
		return 0, billboard.ErrFontUnavailable
	}
	return float64(utf8.RuneCountInString(text)) * sizePx / 2, nil
}

func (m monoRasterizer) DrawText(dst *image.NRGBA, family string, sizePx float64, text string, x, y float64, fill color.NRGBA) error {
	w, err := m.MeasureText(family, sizePx, text)
	if err != nil {
		return err
	}
	r := image.Rect(int(x), int(y), int(math.Ceil(x+w)), int(math.Ceil(y+sizePx))).Intersect(dst.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			dst.SetNRGBA(px, py, fill)
		}
	}
	return nil
}

type recordingRenderer struct {
	frames  []*Frame
	resizes [][2]int
	err     error
}

func (r *recordingRenderer) Render(frame *Frame) error {
	r.frames = append(r.frames, frame)
	return r.err
}

func (r *recordingRenderer) Resize(width, height int) {
	r.resizes = append(r.resizes, [2]int{width, height})
}

func (r *recordingRenderer) last() *Frame {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

type staticLoader struct {
	model ModelAsset
	err   error
}

func (l staticLoader) Load(ctx context.Context, req ModelRequest) (ModelAsset, error) {
	return l.model, l.err
}

// syncBuffer guards log output written from test goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// stepUntil steps app until cond holds or the attempts run out.
func stepUntil(app *App, cond func() bool) bool {
	for i := 0; i < 2000; i++ {
		app.Step()
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}
