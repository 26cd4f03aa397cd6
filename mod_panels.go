package seascape

import (
	"errors"
	"fmt"

	"github.com/gekko3d/seascape/billboard"
	"github.com/go-gl/mathgl/mgl32"
)

// PanelDef places one block of text in the scene.
type PanelDef struct {
	Text      string
	Position  mgl32.Vec3
	RotationY float32
}

// BillboardComponent is a textured, transparent quad of Width x Height world units.
type BillboardComponent struct {
	Text         string
	Texture      AssetId
	Width        float32
	Height       float32
	Transparent  bool
	LinearFilter bool
}

// Quad returns the billboard's corners in local space, centred on the origin,
// counter-clockwise from bottom-left.
func (b BillboardComponent) Quad() [4]mgl32.Vec3 {
	hw, hh := b.Width/2, b.Height/2
	return [4]mgl32.Vec3{
		{-hw, -hh, 0},
		{hw, -hh, 0},
		{hw, hh, 0},
		{-hw, hh, 0},
	}
}

type TextPanelModule struct {
	Panels         []PanelDef
	FontSizePx     float64
	Color          billboard.Color
	Family         string
	FallbackFamily string
	// Builder defaults to the embedded font families.
	Builder *billboard.Builder
}

// panelSet remembers the spawned panels and the pixel ratio their textures
// were baked for.
type panelSet struct {
	dpr     float64
	entries []panelEntry
}

type panelEntry struct {
	index  int
	entity EntityId
	text   string
}

func (m TextPanelModule) Install(app *App, cmd *Commands) {
	assets := MustResource[AssetServer](app, "TextPanelModule")
	input := MustResource[Input](app, "TextPanelModule")
	logger := app.Logger()

	builder := m.Builder
	if builder == nil {
		builder = billboard.NewDefaultBuilder()
	}

	set := &panelSet{dpr: input.DevicePixelRatio}
	for i, panel := range m.Panels {
		img, err := m.buildTexture(builder, panel.Text, set.dpr, logger)
		if err != nil {
			logger.Errorf("Skipping text panel %d: %v", i, err)
			continue
		}

		texture := assets.CreateTexture(
			fmt.Sprintf("panel-%d", i),
			img.Pixels.Pix,
			uint32(img.PixelWidth),
			uint32(img.PixelHeight),
			TextureFormatRGBA8Unorm,
		)
		tr := NewTransform(panel.Position).RotatedY(panel.RotationY)
		eid := cmd.AddEntity(&tr, &BillboardComponent{
			Text:         panel.Text,
			Texture:      texture,
			Width:        float32(img.LogicalWidth),
			Height:       float32(img.LogicalHeight),
			Transparent:  true,
			LinearFilter: true,
		})
		set.entries = append(set.entries, panelEntry{index: i, entity: eid, text: panel.Text})
		logger.Debugf("Text panel %d: %dx%d px at %v", i, img.PixelWidth, img.PixelHeight, panel.Position)
	}

	app.UseSystem(
		System(func(input *Input, assets *AssetServer, cmd *Commands) {
			m.rebakeSystem(builder, set, input, assets, cmd)
		}).InStage(Update),
	)
}

// rebakeSystem rebuilds every panel texture in place when the device pixel
// ratio changes, e.g. after the window moves to another monitor.
func (m TextPanelModule) rebakeSystem(builder *billboard.Builder, set *panelSet, input *Input, assets *AssetServer, cmd *Commands) {
	dpr := input.DevicePixelRatio
	if dpr <= 0 || dpr == set.dpr {
		return
	}
	set.dpr = dpr

	logger := cmd.Logger()
	rebuilt := 0
	for _, e := range set.entries {
		b, ok := GetComponent[BillboardComponent](cmd, e.entity)
		if !ok {
			continue
		}
		img, err := m.buildTexture(builder, e.text, dpr, logger)
		if err != nil {
			logger.Errorf("Keeping text panel %d at its old resolution: %v", e.index, err)
			continue
		}
		if err := assets.UpdateTexture(b.Texture, img.Pixels.Pix, uint32(img.PixelWidth), uint32(img.PixelHeight)); err != nil {
			logger.Errorf("Text panel %d: %v", e.index, err)
			continue
		}
		b.Width = float32(img.LogicalWidth)
		b.Height = float32(img.LogicalHeight)
		rebuilt++
	}
	logger.Infof("Rebuilt %d text panels for device pixel ratio %.2f", rebuilt, dpr)
}

// buildTexture tries the configured family, then the fallback once.
func (m TextPanelModule) buildTexture(builder *billboard.Builder, text string, dpr float64, logger Logger) (*billboard.Image, error) {
	spec := billboard.TextSpec{
		Text:             text,
		FontSizePx:       m.FontSizePx,
		Color:            m.Color,
		DevicePixelRatio: dpr,
		Family:           m.Family,
	}
	img, err := builder.Build(spec)
	if err == nil || !errors.Is(err, billboard.ErrFontUnavailable) || m.FallbackFamily == "" || m.FallbackFamily == m.Family {
		return img, err
	}

	logger.Warnf("Font %q unavailable (%v); falling back to %q", m.Family, err, m.FallbackFamily)
	spec.Family = m.FallbackFamily
	return builder.Build(spec)
}
