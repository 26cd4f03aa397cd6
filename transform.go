package seascape

import (
	"github.com/go-gl/mathgl/mgl32"
)

type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// RotatedY returns t rotated about the world Y axis by angle radians.
func (t TransformComponent) RotatedY(angle float32) TransformComponent {
	t.Rotation = mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0}).Mul(t.Rotation)
	return t
}

// Matrix composes translation * rotation * scale.
func (t TransformComponent) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}
