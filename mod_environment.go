package seascape

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WaterTimeStep is how far the water animation advances per frame.
const WaterTimeStep = float32(1.0 / 60.0)

// EnvironmentDef holds the ocean, sky and lighting parameters handed to the
// renderer. Colours are 0xRRGGBB.
type EnvironmentDef struct {
	FogColor uint32  `yaml:"fog_color"`
	FogNear  float32 `yaml:"fog_near"`
	FogFar   float32 `yaml:"fog_far"`

	WaterSize        float32 `yaml:"water_size"`
	WaterTextureSize int     `yaml:"water_texture_size"`
	WaterColor       uint32  `yaml:"water_color"`
	WaterNormals     string  `yaml:"water_normals"`
	SunColor         uint32  `yaml:"sun_color"`
	DistortionScale  float32 `yaml:"distortion_scale"`

	SkyScale        float32 `yaml:"sky_scale"`
	Turbidity       float32 `yaml:"turbidity"`
	Rayleigh        float32 `yaml:"rayleigh"`
	MieCoefficient  float32 `yaml:"mie_coefficient"`
	MieDirectionalG float32 `yaml:"mie_directional_g"`

	// Sun position in degrees.
	SunElevation float32 `yaml:"sun_elevation"`
	SunAzimuth   float32 `yaml:"sun_azimuth"`

	AmbientLightColor     uint32 `yaml:"ambient_light_color"`
	DirectionalLightColor uint32 `yaml:"directional_light_color"`
	ToneMapping           string `yaml:"tone_mapping"`
}

func DefaultEnvironment() EnvironmentDef {
	return EnvironmentDef{
		FogColor: 0xbaa59e,
		FogNear:  1,
		FogFar:   800,

		WaterSize:        10000,
		WaterTextureSize: 512,
		WaterColor:       0x22bbff,
		WaterNormals:     "textures/waternormals.jpg",
		SunColor:         0xffffff,
		DistortionScale:  2,

		SkyScale:        10000,
		Turbidity:       8,
		Rayleigh:        3,
		MieCoefficient:  0.005,
		MieDirectionalG: 0.8,

		SunElevation: 2,
		SunAzimuth:   180,

		AmbientLightColor:     0xffffff,
		DirectionalLightColor: 0xffffff,
		ToneMapping:           "aces-filmic",
	}
}

// Environment is the per-scene resource the renderer reads.
type Environment struct {
	Def          EnvironmentDef
	SunDirection mgl32.Vec3
	WaterTime    float32
}

// SunDirection converts elevation/azimuth in degrees into a unit vector, y up.
// Azimuth 180 points toward -Z.
func SunDirection(elevation, azimuth float32) mgl32.Vec3 {
	phi := float64(mgl32.DegToRad(90 - elevation))
	theta := float64(mgl32.DegToRad(azimuth))
	sinPhi := math.Sin(phi)
	return mgl32.Vec3{
		float32(sinPhi * math.Sin(theta)),
		float32(math.Cos(phi)),
		float32(sinPhi * math.Cos(theta)),
	}.Normalize()
}

type EnvironmentModule struct {
	Def EnvironmentDef
}

func (m EnvironmentModule) Install(app *App, cmd *Commands) {
	def := m.Def
	if def == (EnvironmentDef{}) {
		def = DefaultEnvironment()
	}
	cmd.AddResources(&Environment{
		Def:          def,
		SunDirection: SunDirection(def.SunElevation, def.SunAzimuth),
	})
	app.UseSystem(
		System(environmentSystem).
			InStage(Update),
	)
}

func environmentSystem(env *Environment) {
	env.WaterTime += WaterTimeStep
}

// SetSun moves the sun and recomputes its direction.
func (env *Environment) SetSun(elevation, azimuth float32) {
	env.Def.SunElevation = elevation
	env.Def.SunAzimuth = azimuth
	env.SunDirection = SunDirection(elevation, azimuth)
}
