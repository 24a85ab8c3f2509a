package scenegraph

import (
	"github.com/chewxy/math32"
	"github.com/google/uuid"
)

// Default flag masks applied to newly created objects.
var (
	DefaultQueryFlags      uint32 = 0xFFFFFFFF
	DefaultVisibilityFlags uint32 = 0xFFFFFFFF
)

const (
	// RenderQueueMain is the default queue for ordinary scene content.
	RenderQueueMain uint8 = 50
	// RenderQueueMax bounds the valid render queue id range.
	RenderQueueMax uint8 = 104
	// defaultRenderPriority is the default intra-queue priority.
	defaultRenderPriority uint16 = 100
)

// ObjectListener observes one object's scene-topology transitions. Calls are
// synchronous, single-subscriber, and happen exactly once per transition. A
// panicking listener propagates to whoever triggered the transition; being
// panic-safe is the listener's responsibility.
type ObjectListener interface {
	ObjectAttached(o *MovableObject)
	ObjectDetached(o *MovableObject)
	ObjectMoved(o *MovableObject)
	ObjectDestroyed(o *MovableObject)
}

// MovableObject is a scene entity with a bounding volume, render-queue
// assignment and visibility flags. Its bounds live in a BoundsStore slot of
// the partition its node belongs to; the object only keeps the index.
type MovableObject struct {
	name    string
	creator MovableObjectFactory
	manager *SceneManager

	parent    *Node
	slot      int
	partition Partition

	localBounds    AABB
	boundingRadius float32

	visible         bool
	queryFlags      uint32
	visibilityFlags uint32
	lightMask       uint32

	renderQueue    uint8
	renderPriority uint16
	castShadows    bool

	upperDistance float32
	minPixelSize  float32
	beyondFar     bool

	lightList      LightList
	lightListFrame uint64

	listener ObjectListener

	worldAabbStale bool
}

// NewMovableObject creates a detached object bound to the given scene
// context. An empty name gets a generated one.
func NewMovableObject(manager *SceneManager, name string) *MovableObject {
	if name == "" {
		name = uuid.NewString()
	}
	return &MovableObject{
		name:            name,
		manager:         manager,
		slot:            -1,
		visible:         true,
		queryFlags:      DefaultQueryFlags,
		visibilityFlags: DefaultVisibilityFlags,
		lightMask:       0xFFFFFFFF,
		renderQueue:     RenderQueueMain,
		renderPriority:  defaultRenderPriority,
		castShadows:     true,
		upperDistance:   math32.Inf(1),
		lightListFrame:  ^uint64(0),
		worldAabbStale:  true,
	}
}

func (o *MovableObject) Name() string           { return o.name }
func (o *MovableObject) Manager() *SceneManager { return o.manager }
func (o *MovableObject) ParentNode() *Node      { return o.parent }
func (o *MovableObject) IsAttached() bool       { return o.parent != nil }

// AttachTo attaches the object to a node, allocating its bounds slot in that
// node's partition store. Attaching an already-attached object detaches it
// from its previous node first; both sides of the link change together.
func (o *MovableObject) AttachTo(n *Node) {
	if o.parent == n {
		return
	}
	if o.parent != nil {
		o.DetachFromParent()
	}
	o.parent = n
	o.partition = n.partition
	store := o.manager.boundsStore(n.partition)
	o.slot = store.Allocate(o)
	store.SetLocalAabb(o.slot, o.localBounds)
	store.UpdateWorldAabb(o.slot, n.DerivedTransform())
	o.worldAabbStale = n.dirty
	n.attachObject(o)
	if o.listener != nil {
		o.listener.ObjectAttached(o)
	}
}

// DetachFromParent releases the bounds slot and unlinks the object from its
// node. Detaching an unattached object is a no-op, never an error.
func (o *MovableObject) DetachFromParent() {
	if o.parent == nil {
		return
	}
	n := o.parent
	n.detachObject(o)
	o.manager.boundsStore(o.partition).Release(o.slot)
	o.slot = -1
	o.parent = nil
	o.worldAabbStale = true
	o.lightListFrame = ^uint64(0)
	if o.listener != nil {
		o.listener.ObjectDetached(o)
	}
}

// Destroy notifies the listener and detaches. The object must not be used
// afterwards.
func (o *MovableObject) Destroy() {
	if o.listener != nil {
		o.listener.ObjectDestroyed(o)
	}
	o.DetachFromParent()
}

// SetListener installs the single listener slot; nil clears it.
func (o *MovableObject) SetListener(l ObjectListener) { o.listener = l }
func (o *MovableObject) Listener() ObjectListener     { return o.listener }

// notifyMoved marks the cached world AABB stale and fires the moved
// notification. Called when the owning node's transform changes.
func (o *MovableObject) notifyMoved() {
	o.worldAabbStale = true
	if o.listener != nil {
		o.listener.ObjectMoved(o)
	}
}

// SetBounds sets the object-local bounding box. The bounding radius is the
// conservative sphere around the node origin enclosing the box. The world box
// refreshes immediately from the node's cached derived transform; if that
// cache is itself stale (un-notified static node), the usual notification
// rules apply.
func (o *MovableObject) SetBounds(box AABB) {
	o.localBounds = box
	o.boundingRadius = box.Center().Len() + box.HalfSize().Len()
	if o.parent != nil {
		store := o.manager.boundsStore(o.partition)
		store.SetLocalAabb(o.slot, box)
		store.UpdateWorldAabb(o.slot, o.parent.DerivedTransform())
	}
}

func (o *MovableObject) LocalBounds() AABB         { return o.localBounds }
func (o *MovableObject) BoundingRadius() float32   { return o.boundingRadius }
func (o *MovableObject) Slot() int                 { return o.slot }
func (o *MovableObject) StorePartition() Partition { return o.partition }

// WorldAabb returns the cached world bounding box. Reading it while stale is
// a contract violation: run the partition's update pass (or use
// WorldAabbUpdated) first.
func (o *MovableObject) WorldAabb() AABB {
	debugAssert(o.parent != nil, "scenegraph: WorldAabb on detached object %q", o.name)
	debugAssert(!o.worldAabbStale, "scenegraph: WorldAabb read while stale on %q; update pass required", o.name)
	return o.manager.boundsStore(o.partition).WorldAabb(o.slot)
}

// WorldAabbUpdated force-recomputes this object's world box from a freshly
// derived node transform and returns it. O(tree depth), independent of the
// batched update pass; meant for on-demand probes outside the frame cadence.
func (o *MovableObject) WorldAabbUpdated() AABB {
	debugAssert(o.parent != nil, "scenegraph: WorldAabbUpdated on detached object %q", o.name)
	derived := o.parent.DerivedTransformUpdated()
	box := o.manager.boundsStore(o.partition).UpdateWorldAabb(o.slot, derived)
	o.worldAabbStale = false
	return box
}

func (o *MovableObject) updateWorldAabbFromDerived(derived Transform) {
	if o.parent == nil {
		return
	}
	o.manager.boundsStore(o.partition).UpdateWorldAabb(o.slot, derived)
	o.worldAabbStale = false
}

// migrateStore moves the bounds slot to the other partition's store when the
// owning node crosses the partition boundary.
func (o *MovableObject) migrateStore(p Partition) {
	if o.parent == nil || o.partition == p {
		return
	}
	o.manager.boundsStore(o.partition).Release(o.slot)
	o.partition = p
	store := o.manager.boundsStore(p)
	o.slot = store.Allocate(o)
	store.SetLocalAabb(o.slot, o.localBounds)
	o.worldAabbStale = true
}

// Visibility ----------------------------------------------------------------

func (o *MovableObject) SetVisible(v bool) { o.visible = v }
func (o *MovableObject) VisibleFlag() bool { return o.visible }

// IsVisible reports whether the object passes its own flag and the scene's
// combined visibility mask. This governs culling, not existence: an invisible
// object still participates in bounds and transform updates.
func (o *MovableObject) IsVisible() bool {
	if !o.visible {
		return false
	}
	return o.visibilityFlags&o.manager.CombinedVisibilityMask() != 0
}

func (o *MovableObject) SetQueryFlags(f uint32)      { o.queryFlags = f }
func (o *MovableObject) QueryFlags() uint32          { return o.queryFlags }
func (o *MovableObject) SetVisibilityFlags(f uint32) { o.visibilityFlags = f }
func (o *MovableObject) VisibilityFlags() uint32     { return o.visibilityFlags }
func (o *MovableObject) SetLightMask(m uint32)       { o.lightMask = m }
func (o *MovableObject) LightMask() uint32           { return o.lightMask }

// Render queue --------------------------------------------------------------

// SetRenderQueue assigns the draw-order bucket. Out-of-range ids are a
// contract violation.
func (o *MovableObject) SetRenderQueue(queue uint8) {
	debugAssert(queue <= RenderQueueMax, "scenegraph: render queue %d out of range (max %d)", queue, RenderQueueMax)
	o.renderQueue = queue
}

func (o *MovableObject) SetRenderQueueAndPriority(queue uint8, priority uint16) {
	o.SetRenderQueue(queue)
	o.renderPriority = priority
}

func (o *MovableObject) RenderQueue() uint8     { return o.renderQueue }
func (o *MovableObject) RenderPriority() uint16 { return o.renderPriority }

func (o *MovableObject) SetCastShadows(v bool) { o.castShadows = v }
func (o *MovableObject) CastShadows() bool     { return o.castShadows }

// Distance / pixel-size culling --------------------------------------------

// SetUpperDistance caps how far away the object still renders; the object's
// scaled bounding radius extends the cap.
func (o *MovableObject) SetUpperDistance(d float32) { o.upperDistance = d }
func (o *MovableObject) UpperDistance() float32     { return o.upperDistance }

// SetMinPixelSize culls the object once its on-screen footprint drops below
// the threshold. Zero disables the check.
func (o *MovableObject) SetMinPixelSize(px float32) { o.minPixelSize = px }
func (o *MovableObject) MinPixelSize() float32      { return o.minPixelSize }

// BeyondFarDistance reports the outcome of the last NotifyCamera call.
func (o *MovableObject) BeyondFarDistance() bool { return o.beyondFar }

// NotifyCamera evaluates the distance and min-pixel-size culling rules
// against the camera. Called by the scene during culling, once per frame.
func (o *MovableObject) NotifyCamera(cam *Camera) {
	if o.parent == nil {
		return
	}
	o.beyondFar = false
	derived := o.parent.DerivedTransform()
	viewVec := derived.Position.Sub(cam.Position)
	sqDepth := viewVec.Dot(viewVec)

	if cam.UseRenderingDistance && o.upperDistance > 0 && !math32.IsInf(o.upperDistance, 1) {
		maxDist := o.upperDistance + o.boundingRadius*derived.MaxScale()
		if sqDepth > maxDist*maxDist {
			o.beyondFar = true
		}
	}

	if !o.beyondFar && cam.UseMinPixelSize && o.minPixelSize > 0 {
		// The shortest displayed dimension of a projected box is at most the
		// second largest of its 3 world-space dimensions; work with squares
		// to lose the signs.
		size := o.localBounds.Size()
		bx := size.X() * math32.Abs(derived.Scale.X())
		by := size.Y() * math32.Abs(derived.Scale.Y())
		bz := size.Z() * math32.Abs(derived.Scale.Z())
		bx, by, bz = bx*bx, by*by, bz*bz
		sqrMedian := math32.Max(math32.Max(
			math32.Min(bx, by),
			math32.Min(bx, bz)),
			math32.Min(by, bz))

		sqrDistance := float32(1)
		if cam.Perspective {
			sqrDistance = sqDepth
		}
		threshold := cam.PixelRatio * o.minPixelSize
		o.beyondFar = sqrMedian < sqrDistance*threshold*threshold
	}
}

// Lights --------------------------------------------------------------------

// QueryLights returns the lights affecting this object: mask-filtered nearest
// lights within the object's scaled bounding radius, sorted and capped per
// the scene config. The result is cached for the current frame; callers get
// the same list until the next UpdateFrame.
//
// A detached object gets an empty (cleared) list, never an error.
func (o *MovableObject) QueryLights() *LightList {
	if o.parent == nil {
		o.lightList.Clear()
		return &o.lightList
	}
	if o.lightListFrame == o.manager.frame {
		return &o.lightList
	}
	derived := o.parent.DerivedTransform()
	radius := o.boundingRadius * derived.MaxScale()
	o.manager.FindLights(&o.lightList, derived.Position, radius, o.lightMask)
	o.lightListFrame = o.manager.frame
	return &o.lightList
}
