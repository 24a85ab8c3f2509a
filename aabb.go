package scenegraph

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box stored as min/max corners.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyAABB returns an inverted box that merges as a no-op.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) HalfSize() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Radius returns the radius of the sphere around Center enclosing the box.
func (b AABB) Radius() float32 {
	return b.HalfSize().Len()
}

func (b AABB) Merge(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{
			math32.Min(b.Min.X(), o.Min.X()),
			math32.Min(b.Min.Y(), o.Min.Y()),
			math32.Min(b.Min.Z(), o.Min.Z()),
		},
		Max: mgl32.Vec3{
			math32.Max(b.Max.X(), o.Max.X()),
			math32.Max(b.Max.Y(), o.Max.Y()),
			math32.Max(b.Max.Z(), o.Max.Z()),
		},
	}
}

func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

// Transformed returns the tight axis-aligned bound of the box under a general
// affine transform. All 8 corners are mapped; assuming the transform preserves
// axis alignment would under-estimate the bound under rotation.
func (b AABB) Transformed(t Transform) AABB {
	corners := [8]mgl32.Vec3{
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
	}

	out := EmptyAABB()
	for _, c := range corners {
		wc := t.TransformPoint(c)
		out.Min = mgl32.Vec3{
			math32.Min(out.Min.X(), wc.X()),
			math32.Min(out.Min.Y(), wc.Y()),
			math32.Min(out.Min.Z(), wc.Z()),
		}
		out.Max = mgl32.Vec3{
			math32.Max(out.Max.X(), wc.X()),
			math32.Max(out.Max.Y(), wc.Y()),
			math32.Max(out.Max.Z(), wc.Z()),
		}
	}
	return out
}

// InFrustum checks the box against 6 frustum planes in Ax+By+Cz+D=0 form with
// normals pointing inside. The p-vertex (the corner with the highest signed
// distance) is tested per plane; if even that corner is behind, the whole box
// is out.
func (b AABB) InFrustum(planes [6]mgl32.Vec4) bool {
	for i := 0; i < 6; i++ {
		plane := planes[i]

		var p mgl32.Vec3
		if plane[0] > 0 {
			p[0] = b.Max[0]
		} else {
			p[0] = b.Min[0]
		}
		if plane[1] > 0 {
			p[1] = b.Max[1]
		} else {
			p[1] = b.Min[1]
		}
		if plane[2] > 0 {
			p[2] = b.Max[2]
		} else {
			p[2] = b.Min[2]
		}

		dist := plane[0]*p[0] + plane[1]*p[1] + plane[2]*p[2] + plane[3]
		if dist < 0 {
			return false
		}
	}
	return true
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s Sphere) IntersectsSphere(o Sphere) bool {
	d := s.Center.Sub(o.Center)
	r := s.Radius + o.Radius
	return d.Dot(d) <= r*r
}
