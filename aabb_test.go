package scenegraph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAabbTransformedStaysTightUnderRotation(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	tr := IdentityTransform()
	tr.Rotation = mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})

	out := box.Transformed(tr)

	// A unit cube rotated 45 deg around Y widens to sqrt(2) in X and Z.
	want := float32(1.41421356)
	if diff := out.Max.X() - want; diff < -1e-4 || diff > 1e-4 {
		t.Errorf("expected rotated extent ~%v, got %v", want, out.Max.X())
	}
	if diff := out.Max.Y() - 1; diff < -1e-5 || diff > 1e-5 {
		t.Errorf("Y extent should be unchanged, got %v", out.Max.Y())
	}
}

func TestAabbTransformedTranslateScale(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -2, -3}, Max: mgl32.Vec3{1, 2, 3}}
	tr := Transform{
		Position: mgl32.Vec3{10, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{2, 1, 1},
	}
	out := box.Transformed(tr)
	vec3Near(t, mgl32.Vec3{8, -2, -3}, out.Min, 1e-5, "min corner")
	vec3Near(t, mgl32.Vec3{12, 2, 3}, out.Max, 1e-5, "max corner")
}

func TestAabbInFrustum(t *testing.T) {
	// Camera at origin looking down -Z, 90 deg FOV, near 1, far 100.
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1.0, 1.0, 100.0)
	view := mgl32.LookAtV(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 0, -1},
		mgl32.Vec3{0, 1, 0},
	)
	cam := NewCamera()
	cam.ExtractFrustum(proj.Mul4(view))

	tests := []struct {
		name     string
		min, max mgl32.Vec3
		expected bool
	}{
		{"inside center", mgl32.Vec3{-1, -1, -10}, mgl32.Vec3{1, 1, -5}, true},
		{"outside left", mgl32.Vec3{-20, -1, -10}, mgl32.Vec3{-15, 1, -5}, false},
		{"outside right", mgl32.Vec3{15, -1, -10}, mgl32.Vec3{20, 1, -5}, false},
		{"behind near", mgl32.Vec3{-1, -1, 2}, mgl32.Vec3{1, 1, 5}, false},
		{"beyond far", mgl32.Vec3{-1, -1, -200}, mgl32.Vec3{1, 1, -150}, false},
		{"straddles edge", mgl32.Vec3{-20, -1, -10}, mgl32.Vec3{0, 1, -5}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			box := AABB{Min: tc.min, Max: tc.max}
			if got := box.InFrustum(cam.Planes); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestAabbMergeAndIntersects(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	b := AABB{Min: mgl32.Vec3{2, 0, 0}, Max: mgl32.Vec3{3, 1, 1}}

	if a.Intersects(b) {
		t.Error("disjoint boxes should not intersect")
	}
	m := a.Merge(b)
	if m.Min != (mgl32.Vec3{0, 0, 0}) || m.Max != (mgl32.Vec3{3, 1, 1}) {
		t.Errorf("unexpected merge result: %+v", m)
	}
	if !m.Intersects(a) || !m.Intersects(b) {
		t.Error("merged box must intersect both inputs")
	}
}
