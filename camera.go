package scenegraph

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera carries the view parameters the culling stage needs: a world
// position for depth tests, frustum planes, and the pixel display ratio used
// by min-pixel-size culling. Projection math itself lives with the renderer.
type Camera struct {
	Position mgl32.Vec3

	// Planes are the 6 frustum planes in Ax+By+Cz+D=0 form, normals pointing
	// inside. Fill them with ExtractFrustum.
	Planes [6]mgl32.Vec4

	// PixelRatio relates world size at unit distance to on-screen pixels.
	PixelRatio float32

	Perspective          bool
	UseRenderingDistance bool
	UseMinPixelSize      bool
}

func NewCamera() *Camera {
	return &Camera{
		PixelRatio:           1,
		Perspective:          true,
		UseRenderingDistance: true,
	}
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection
// matrix into cam.Planes. Order: Left, Right, Bottom, Top, Near, Far.
func (c *Camera) ExtractFrustum(vp mgl32.Mat4) {
	var planes [6]mgl32.Vec4

	// Left plane: Row 3 + Row 0
	planes[0] = mgl32.Vec4{
		vp.At(3, 0) + vp.At(0, 0),
		vp.At(3, 1) + vp.At(0, 1),
		vp.At(3, 2) + vp.At(0, 2),
		vp.At(3, 3) + vp.At(0, 3),
	}
	// Right plane: Row 3 - Row 0
	planes[1] = mgl32.Vec4{
		vp.At(3, 0) - vp.At(0, 0),
		vp.At(3, 1) - vp.At(0, 1),
		vp.At(3, 2) - vp.At(0, 2),
		vp.At(3, 3) - vp.At(0, 3),
	}
	// Bottom plane: Row 3 + Row 1
	planes[2] = mgl32.Vec4{
		vp.At(3, 0) + vp.At(1, 0),
		vp.At(3, 1) + vp.At(1, 1),
		vp.At(3, 2) + vp.At(1, 2),
		vp.At(3, 3) + vp.At(1, 3),
	}
	// Top plane: Row 3 - Row 1
	planes[3] = mgl32.Vec4{
		vp.At(3, 0) - vp.At(1, 0),
		vp.At(3, 1) - vp.At(1, 1),
		vp.At(3, 2) - vp.At(1, 2),
		vp.At(3, 3) - vp.At(1, 3),
	}
	// Near plane: Row 3 + Row 2 (OpenGL-style -1..1 clip)
	planes[4] = mgl32.Vec4{
		vp.At(3, 0) + vp.At(2, 0),
		vp.At(3, 1) + vp.At(2, 1),
		vp.At(3, 2) + vp.At(2, 2),
		vp.At(3, 3) + vp.At(2, 3),
	}
	// Far plane: Row 3 - Row 2
	planes[5] = mgl32.Vec4{
		vp.At(3, 0) - vp.At(2, 0),
		vp.At(3, 1) - vp.At(2, 1),
		vp.At(3, 2) - vp.At(2, 2),
		vp.At(3, 3) - vp.At(2, 3),
	}

	for i := 0; i < 6; i++ {
		length := math32.Sqrt(planes[i][0]*planes[i][0] + planes[i][1]*planes[i][1] + planes[i][2]*planes[i][2])
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	c.Planes = planes
}

// HasFrustum reports whether any plane has been set; an all-zero frustum
// disables the frustum test.
func (c *Camera) HasFrustum() bool {
	for _, p := range c.Planes {
		if p != (mgl32.Vec4{}) {
			return true
		}
	}
	return false
}
