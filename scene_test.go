package scenegraph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachBoxAt(sm *SceneManager, name string, pos mgl32.Vec3) *MovableObject {
	n := sm.CreateNode(name+"-node", PartitionDynamic)
	n.SetPosition(pos.X(), pos.Y(), pos.Z())
	o := NewMovableObject(sm, name)
	o.SetBounds(AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}})
	o.AttachTo(n)
	return o
}

func lookDownNegZ() *Camera {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1.0, 1.0, 100.0)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	cam := NewCamera()
	cam.ExtractFrustum(proj.Mul4(view))
	return cam
}

func TestUpdateFrameCullsAgainstFrustum(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})

	inFront := attachBoxAt(sm, "in-front", mgl32.Vec3{0, 0, -10})
	behind := attachBoxAt(sm, "behind", mgl32.Vec3{0, 0, 10})
	offLeft := attachBoxAt(sm, "off-left", mgl32.Vec3{-50, 0, -10})

	sm.UpdateFrame(lookDownNegZ())

	visible := sm.VisibleObjects()
	require.Len(t, visible, 1)
	assert.Same(t, inFront, visible[0])
	_ = behind
	_ = offLeft

	// The render queues mirror the visible set.
	total := 0
	sm.RenderQueues().Visit(func(id uint8, objs []*MovableObject) { total += len(objs) })
	assert.Equal(t, 1, total)
}

func TestUpdateFrameHonorsVisibilityMask(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	o := attachBoxAt(sm, "masked", mgl32.Vec3{0, 0, -10})
	o.SetVisibilityFlags(0x2)

	sm.SetVisibilityMask(0x1)
	sm.UpdateFrame(lookDownNegZ())
	assert.Empty(t, sm.VisibleObjects())

	sm.SetVisibilityMask(0x2)
	sm.UpdateFrame(lookDownNegZ())
	assert.Len(t, sm.VisibleObjects(), 1)
}

func TestUpdateFrameUpperDistanceCulling(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	far := attachBoxAt(sm, "far", mgl32.Vec3{0, 0, -60})
	far.SetUpperDistance(20)

	sm.UpdateFrame(lookDownNegZ())
	assert.Empty(t, sm.VisibleObjects(), "object beyond its upper distance must not render")
	assert.True(t, far.BeyondFarDistance())

	far.SetUpperDistance(200)
	sm.UpdateFrame(lookDownNegZ())
	assert.Len(t, sm.VisibleObjects(), 1)
}

func TestUpdateFrameMinPixelSizeCulling(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	tiny := attachBoxAt(sm, "tiny", mgl32.Vec3{0, 0, -50})
	tiny.SetMinPixelSize(1)

	cam := lookDownNegZ()
	cam.UseMinPixelSize = true
	cam.PixelRatio = 0.5

	sm.UpdateFrame(cam)
	// 2-unit box at depth 50 with threshold 0.5*1: 4 < 2500*0.25.
	assert.Empty(t, sm.VisibleObjects())

	tiny.SetMinPixelSize(0)
	sm.UpdateFrame(cam)
	assert.Len(t, sm.VisibleObjects(), 1)
}

func TestInvisibleObjectStillUpdatesBounds(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	o := attachBoxAt(sm, "hidden", mgl32.Vec3{0, 0, -10})
	o.SetVisible(false)

	o.ParentNode().SetPosition(4, 0, 0)
	sm.UpdateFrame(lookDownNegZ())

	assert.Empty(t, sm.VisibleObjects())
	box := o.WorldAabb()
	assert.InDelta(t, 3.0, box.Min.X(), 1e-5, "invisible object bounds must still track the node")
}

func TestDestroyNodeDetachesSubtree(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	parent := sm.CreateNode("parent", PartitionDynamic)
	child := parent.CreateChild("child", PartitionDynamic)

	a := NewMovableObject(sm, "a")
	a.SetBounds(testBox())
	a.AttachTo(parent)
	b := NewMovableObject(sm, "b")
	b.SetBounds(testBox())
	b.AttachTo(child)

	sm.DestroyNode(parent)

	assert.False(t, a.IsAttached())
	assert.False(t, b.IsAttached())
	assert.Equal(t, 0, sm.BoundsStoreFor(PartitionDynamic).Len())
	assert.Empty(t, sm.RootNode().Children())
}

func TestCreateMovableThroughFactory(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	sm.RegisterFactory(BasicFactory{})

	o, err := sm.CreateMovable("Basic", "crate", map[string]string{
		"bounds_half_extent": "2",
		"render_queue":       "60",
		"cast_shadows":       "false",
	})
	require.NoError(t, err)
	assert.Equal(t, "crate", o.Name())
	assert.Same(t, sm, o.Manager())
	assert.Equal(t, uint8(60), o.RenderQueue())
	assert.False(t, o.CastShadows())
	assert.Equal(t, uint32(1), o.TypeFlags())
	assert.Equal(t, AABB{Min: mgl32.Vec3{-2, -2, -2}, Max: mgl32.Vec3{2, 2, 2}}, o.LocalBounds())

	_, err = sm.CreateMovable("Nope", "x", nil)
	assert.Error(t, err)

	_, err = sm.CreateMovable("Basic", "bad", map[string]string{"render_queue": "many"})
	assert.Error(t, err)
}

func TestObjectQueryLightsUsesScaledRadius(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	n := sm.CreateNode("n", PartitionDynamic)
	n.SetScale(3, 1, 1)

	o := NewMovableObject(sm, "obj")
	o.SetBounds(AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}})
	o.AttachTo(n)

	l := NewLight("l", LightTypePoint)
	l.Position = mgl32.Vec3{6, 0, 0}
	l.Range = 1
	sm.AddLight(l)
	sm.UpdateFrame(nil)

	// Local radius sqrt(3), max scale 3: effective radius ~5.2, light at
	// distance 6 with range 1 is reachable. With unit scale it would not be.
	ll := o.QueryLights()
	require.Equal(t, 1, ll.Len())

	n.SetScale(1, 1, 1)
	sm.UpdateFrame(nil)
	ll = o.QueryLights()
	assert.Equal(t, 0, ll.Len())
}
