package seascape

import (
	"fmt"
	"math"
	"os"

	"github.com/gekko3d/seascape/billboard"
	"github.com/gekko3d/seascape/scroll"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type SceneConfig struct {
	LogPrefix string `yaml:"log_prefix"`
	Debug     bool   `yaml:"debug"`

	Viewport    ViewportConfig `yaml:"viewport"`
	Camera      CameraConfig   `yaml:"camera"`
	Scroll      ScrollConfig   `yaml:"scroll"`
	Text        TextConfig     `yaml:"text"`
	Panels      []PanelConfig  `yaml:"panels"`
	Boat        BoatConfig     `yaml:"boat"`
	Environment EnvironmentDef `yaml:"environment"`
}

type ViewportConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	DevicePixelRatio float64 `yaml:"device_pixel_ratio"`
	Title            string  `yaml:"title"`
}

type CameraConfig struct {
	FovDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	Height     float32 `yaml:"height"`
}

type ScrollConfig struct {
	Gain           float64 `yaml:"gain"`
	Period         float64 `yaml:"period"`
	Amplitude      float64 `yaml:"amplitude"`
	AttachedOffset float64 `yaml:"attached_offset"`
	WrapThreshold  float64 `yaml:"wrap_threshold"`
	// CoupleToWheel only re-evaluates sway and wrap-around on wheel events.
	CoupleToWheel bool `yaml:"couple_to_wheel"`
}

type TextConfig struct {
	Family         string  `yaml:"family"`
	FallbackFamily string  `yaml:"fallback_family"`
	FontSizePx     float64 `yaml:"font_size_px"`
	Color          string  `yaml:"color"`

	// FontFile, when set, is a TrueType/OpenType file registered as Family.
	FontFile string `yaml:"font_file"`
}

type PanelConfig struct {
	Text      string     `yaml:"text"`
	Position  [3]float32 `yaml:"position"`
	RotationY float32    `yaml:"rotation_y"`
}

type BoatConfig struct {
	Disabled       bool    `yaml:"disabled"`
	Dir            string  `yaml:"dir"`
	Object         string  `yaml:"object"`
	Material       string  `yaml:"material"`
	Scale          float32 `yaml:"scale"`
	RotationY      float32 `yaml:"rotation_y"`
	VerticalOffset float32 `yaml:"vertical_offset"`
}

var defaultLyrics = []string{
	"Every night  \nI see you I feel you",
	"that is how I know \nyou go on.",
	"Far across \nthe distance",
	"and spaces \nbetween us",
	"you have come to show \nyou go on.",
	"Near, far, \nwhere ever you are",
	"I believe that \nthe heart does go on.",
	"Once more, \nyou open the door",
	"and you're here \nin my heart and",
	"my heart will \ngo on and on.",
}

// DefaultPanels staggers the lyric panels every 300 units along -Z,
// alternating sides and facing the travel axis.
func DefaultPanels() []PanelConfig {
	panels := make([]PanelConfig, len(defaultLyrics))
	for i, text := range defaultLyrics {
		x, rot := float32(-40), float32(math.Pi/4)
		if i%2 == 1 {
			x, rot = 40, -float32(math.Pi/4)
		}
		panels[i] = PanelConfig{
			Text:      text,
			Position:  [3]float32{x, 10, float32(300 - 300*i)},
			RotationY: rot,
		}
	}
	return panels
}

func DefaultSceneConfig() SceneConfig {
	boat := DefaultBoatModule(nil)
	return SceneConfig{
		LogPrefix: "seascape",
		Viewport: ViewportConfig{
			Width:            1280,
			Height:           720,
			DevicePixelRatio: 1,
			Title:            "Seascape",
		},
		Camera: CameraConfig{
			FovDegrees: scroll.DefaultFovDegrees,
			Near:       1,
			Far:        1000,
			Height:     10,
		},
		Scroll: ScrollConfig{
			Gain:           scroll.DefaultScrollGain,
			Period:         scroll.DefaultPeriod,
			Amplitude:      scroll.DefaultAmplitude,
			AttachedOffset: scroll.DefaultAttachedOffset,
			WrapThreshold:  scroll.DefaultWrapThreshold,
		},
		Text: TextConfig{
			Family:         billboard.FamilyLatinModernRoman,
			FallbackFamily: billboard.FamilyGo,
			FontSizePx:     10,
			Color:          "#2b3638",
		},
		Panels: DefaultPanels(),
		Boat: BoatConfig{
			Dir:            boat.Request.Dir,
			Object:         boat.Request.Object,
			Material:       boat.Request.Material,
			Scale:          boat.Scale,
			RotationY:      boat.RotationY,
			VerticalOffset: boat.VerticalOffset,
		},
		Environment: DefaultEnvironment(),
	}
}

// ParseSceneConfig overlays YAML onto DefaultSceneConfig and validates the result.
// A panels list in the YAML replaces the default panels.
func ParseSceneConfig(data []byte) (SceneConfig, error) {
	cfg := DefaultSceneConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SceneConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return SceneConfig{}, err
	}
	return cfg, nil
}

func LoadSceneConfig(path string) (SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneConfig{}, fmt.Errorf("failed to read scene config: %w", err)
	}
	return ParseSceneConfig(data)
}

func (c SceneConfig) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return invalid("viewport %dx%d must be positive", c.Viewport.Width, c.Viewport.Height)
	}
	if !(c.Viewport.DevicePixelRatio > 0) {
		return invalid("device pixel ratio %v must be positive", c.Viewport.DevicePixelRatio)
	}
	if !(c.Text.FontSizePx > 0) {
		return invalid("font size %v must be positive", c.Text.FontSizePx)
	}
	if _, err := billboard.ParseHexColor(c.Text.Color); err != nil {
		return invalid("text color: %v", err)
	}
	if c.Scroll.Period == 0 {
		return invalid("scroll period must be non-zero")
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		return invalid("camera fov %v must be in (0, 180)", c.Camera.FovDegrees)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return invalid("camera clip range [%v, %v] is empty", c.Camera.Near, c.Camera.Far)
	}
	if !c.Boat.Disabled && c.Boat.Object == "" {
		return invalid("boat object file is required unless the boat is disabled")
	}
	return nil
}

func (c SceneConfig) ScrollAnimatorConfig() scroll.Config {
	cfg := scroll.DefaultConfig(float64(c.Viewport.Height))
	cfg.ScrollGain = c.Scroll.Gain
	cfg.Period = c.Scroll.Period
	cfg.Amplitude = c.Scroll.Amplitude
	cfg.AttachedOffset = c.Scroll.AttachedOffset
	cfg.WrapThreshold = c.Scroll.WrapThreshold
	cfg.FovDegrees = float64(c.Camera.FovDegrees)
	return cfg
}

func (c SceneConfig) PanelDefs() []PanelDef {
	defs := make([]PanelDef, len(c.Panels))
	for i, p := range c.Panels {
		defs[i] = PanelDef{
			Text:      p.Text,
			Position:  mgl32.Vec3(p.Position),
			RotationY: p.RotationY,
		}
	}
	return defs
}

func (c SceneConfig) TextColor() billboard.Color {
	col, err := billboard.ParseHexColor(c.Text.Color)
	if err != nil {
		return billboard.Color{}
	}
	return col
}
