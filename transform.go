package scenegraph

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform holds position, rotation and scale relative to some frame
// (the parent node, or the world for a derived transform).
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func IdentityTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Apply composes a child local transform with t acting as the parent frame.
// Components are propagated directly instead of going through a Mat4
// decomposition, which preserves scale signs (reflections):
//
//	WorldPos   = ParentPos + ParentRot * (ParentScale * LocalPos)
//	WorldRot   = ParentRot * LocalRot
//	WorldScale = ParentScale * LocalScale
func (t Transform) Apply(local Transform) Transform {
	scaledLocalPos := mgl32.Vec3{
		local.Position.X() * t.Scale.X(),
		local.Position.Y() * t.Scale.Y(),
		local.Position.Z() * t.Scale.Z(),
	}
	return Transform{
		Position: t.Position.Add(t.Rotation.Rotate(scaledLocalPos)),
		Rotation: t.Rotation.Mul(local.Rotation).Normalize(),
		Scale: mgl32.Vec3{
			t.Scale.X() * local.Scale.X(),
			t.Scale.Y() * local.Scale.Y(),
			t.Scale.Z() * local.Scale.Z(),
		},
	}
}

// TransformPoint maps a point from t's local frame into its parent frame.
func (t Transform) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	scaled := mgl32.Vec3{
		p.X() * t.Scale.X(),
		p.Y() * t.Scale.Y(),
		p.Z() * t.Scale.Z(),
	}
	return t.Position.Add(t.Rotation.Rotate(scaled))
}

// Mat4 returns the equivalent matrix, M = T * R * S.
func (t Transform) Mat4() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// MaxScale returns the largest axis scale magnitude. Used to turn a local
// bounding radius into a conservative world-space radius.
func (t Transform) MaxScale() float32 {
	return math32.Max(math32.Abs(t.Scale.X()),
		math32.Max(math32.Abs(t.Scale.Y()), math32.Abs(t.Scale.Z())))
}
