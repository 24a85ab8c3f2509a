package scenegraph

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type LightType uint32

const (
	LightTypePoint LightType = iota
	LightTypeDirectional
	LightTypeSpot
)

// Light is a scene light. Position/Direction are local to Node when one is
// set, world-space otherwise. Directional lights have no meaningful position;
// distance-based queries treat them as distance zero (see FindLights).
type Light struct {
	Name      string
	Type      LightType
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     [3]float32
	Intensity float32
	Range     float32 // attenuation range for point/spot
	ConeAngle float32 // full cone angle in degrees (spot)

	// LightMask selects which objects this light affects: a query matches
	// when object.lightMask & light.LightMask != 0.
	LightMask uint32

	// VisibilityMask gates the light against the scene's combined mask the
	// same way object visibility flags are gated.
	VisibilityMask uint32

	// Node optionally anchors the light in the transform hierarchy.
	Node *Node
}

func NewLight(name string, t LightType) *Light {
	if name == "" {
		name = uuid.NewString()
	}
	return &Light{
		Name:           name,
		Type:           t,
		Direction:      mgl32.Vec3{0, -1, 0},
		Color:          [3]float32{1, 1, 1},
		Intensity:      1,
		Range:          100,
		LightMask:      0xFFFFFFFF,
		VisibilityMask: 0xFFFFFFFF,
	}
}

// WorldPosition resolves the light position through its node, if any. The
// node's cached derived transform is used, so this is only as fresh as the
// last update pass.
func (l *Light) WorldPosition() mgl32.Vec3 {
	if l.Node != nil {
		return l.Node.DerivedTransform().TransformPoint(l.Position)
	}
	return l.Position
}

// BoundingSphere is the light's world-space influence sphere. Directional
// lights influence everything; their sphere is infinite.
func (l *Light) BoundingSphere() Sphere {
	if l.Type == LightTypeDirectional {
		return Sphere{Radius: math32.Inf(1)}
	}
	return Sphere{Center: l.WorldPosition(), Radius: l.Range}
}

// GlobalLightList is the per-frame SoA snapshot of the scene's lights after
// visibility-mask culling. The visibility masks and bounding spheres are
// copied out of the lights so queries avoid one level of indirection.
// GlobalIndex values handed to queries index into this snapshot.
type GlobalLightList struct {
	Lights         []*Light
	VisibilityMask []uint32
	BoundingSphere []Sphere
}

func (g *GlobalLightList) clear() {
	g.Lights = g.Lights[:0]
	g.VisibilityMask = g.VisibilityMask[:0]
	g.BoundingSphere = g.BoundingSphere[:0]
}

func (g *GlobalLightList) add(l *Light) {
	g.Lights = append(g.Lights, l)
	g.VisibilityMask = append(g.VisibilityMask, l.VisibilityMask)
	g.BoundingSphere = append(g.BoundingSphere, l.BoundingSphere())
}

func (g *GlobalLightList) Len() int { return len(g.Lights) }
