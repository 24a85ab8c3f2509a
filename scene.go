package scenegraph

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneManager is the explicit scene context: it owns the node tree, the
// per-partition bounds stores, the light list and its per-frame index, and
// the render queues. Everything that used to be a process-wide lookup hangs
// off this object instead.
//
// One logical update goroutine per SceneManager. The frame sequence is
// UpdateFrame: dynamic pass, static pass, light index rebuild, culling and
// queue fill. Light queries and submission read the results until the next
// UpdateFrame.
type SceneManager struct {
	cfg SceneConfig
	log Logger

	root    *Node
	stores  [2]*BoundsStore
	statics staticTracker

	lights       []*Light
	globalLights GlobalLightList
	grid         *lightGrid
	gridReady    bool
	gridScratch  map[int]struct{}

	visibilityMask uint32
	frame          uint64

	visible []*MovableObject
	queues  *RenderQueueGroup

	factories map[string]MovableObjectFactory
}

func NewSceneManager(cfg SceneConfig) *SceneManager {
	cfg = cfg.withDefaults()
	sm := &SceneManager{
		cfg:            cfg,
		log:            cfg.Logger,
		visibilityMask: cfg.VisibilityMask,
		grid:           newLightGrid(cfg.LightGridCellSize),
		gridScratch:    make(map[int]struct{}),
		queues:         NewRenderQueueGroup(),
		factories:      make(map[string]MovableObjectFactory),
	}
	sm.stores[PartitionDynamic] = NewBoundsStore()
	sm.stores[PartitionStatic] = NewBoundsStore()
	sm.root = newNode(sm, "root", PartitionDynamic)
	return sm
}

func (sm *SceneManager) RootNode() *Node { return sm.root }

func (sm *SceneManager) Frame() uint64 { return sm.frame }

func (sm *SceneManager) boundsStore(p Partition) *BoundsStore { return sm.stores[p] }

// BoundsStoreFor exposes a partition's store, mainly for diagnostics.
func (sm *SceneManager) BoundsStoreFor(p Partition) *BoundsStore { return sm.stores[p] }

// CreateNode creates a child of the root node in the given partition.
func (sm *SceneManager) CreateNode(name string, partition Partition) *Node {
	return sm.root.CreateChild(name, partition)
}

// DestroyNode detaches every object in the node's subtree and unlinks the
// subtree from the scene. The nodes themselves are garbage once the caller
// drops its references.
func (sm *SceneManager) DestroyNode(n *Node) {
	var walk func(x *Node, depth int)
	walk = func(x *Node, depth int) {
		debugAssert(depth <= sm.cfg.MaxTreeDepth,
			"scenegraph: tree exceeds depth guard (%d), cycle?", sm.cfg.MaxTreeDepth)
		for _, o := range slices.Clone(x.attached) {
			o.DetachFromParent()
		}
		for _, c := range slices.Clone(x.children) {
			walk(c, depth+1)
		}
		x.children = nil
	}
	walk(n, 0)
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// NotifyStaticDirty registers a static node for recomputation on the next
// static pass. The whole static subtree below it updates with it. Calling it
// on a dynamic node is meaningless (those update every frame) and is ignored
// with a warning.
func (sm *SceneManager) NotifyStaticDirty(n *Node) {
	if n.partition != PartitionStatic {
		sm.log.Warnf("NotifyStaticDirty on dynamic node %q ignored", n.name)
		return
	}
	sm.statics.add(n)
}

// UpdateTransforms runs one partition's transform/bounds pass.
//
// DYNAMIC: every dynamic node recomputes top-down, parents before children.
// STATIC: only nodes reachable from the pending-dirty set through
// static-child edges recompute; the set is then cleared.
func (sm *SceneManager) UpdateTransforms(p Partition) {
	switch p {
	case PartitionDynamic:
		sm.root.updateDynamic(0)
	case PartitionStatic:
		for _, n := range sm.statics.drain() {
			n.updateStaticSubtree(0)
		}
	}
}

// Lights ---------------------------------------------------------------------

// AddLight registers a light with the scene. Frame-stable global indices are
// assigned by the per-frame light index rebuild, not by registration order.
func (sm *SceneManager) AddLight(l *Light) {
	sm.lights = append(sm.lights, l)
}

func (sm *SceneManager) RemoveLight(l *Light) {
	for i, x := range sm.lights {
		if x == l {
			sm.lights = append(sm.lights[:i], sm.lights[i+1:]...)
			return
		}
	}
}

func (sm *SceneManager) Lights() []*Light { return sm.lights }

// GlobalLights returns the current frame's light snapshot.
func (sm *SceneManager) GlobalLights() *GlobalLightList { return &sm.globalLights }

// rebuildLightIndex snapshots the scene lights that pass the combined
// visibility mask into the SoA global list and, on light-heavy scenes,
// rebuilds the broadphase grid over their bounding spheres.
func (sm *SceneManager) rebuildLightIndex() {
	sm.globalLights.clear()
	for _, l := range sm.lights {
		if l.VisibilityMask&sm.visibilityMask == 0 {
			continue
		}
		sm.globalLights.add(l)
	}
	sm.gridReady = sm.globalLights.Len() >= sm.cfg.LightGridThreshold
	if sm.gridReady {
		sm.grid.rebuild(&sm.globalLights)
	}
}

// FindLights answers a nearest-lights query against the current frame's
// light index: mask-filtered, nearest MaxLightsPerObject, sorted ascending by
// distance with deterministic index tie-break, directional lights first.
func (sm *SceneManager) FindLights(out *LightList, center mgl32.Vec3, radius float32, mask uint32) {
	var candidates []int
	if sm.gridReady {
		candidates = sm.grid.queryRadius(center, radius, sm.gridScratch)
	}
	findLights(out, &sm.globalLights, candidates, center, radius, mask, sm.cfg.MaxLightsPerObject)
}

// Visibility -----------------------------------------------------------------

func (sm *SceneManager) SetVisibilityMask(mask uint32) { sm.visibilityMask = mask }

// CombinedVisibilityMask is the scene-wide mask objects and lights are gated
// against.
func (sm *SceneManager) CombinedVisibilityMask() uint32 { return sm.visibilityMask }

// Frame sequence -------------------------------------------------------------

// UpdateFrame advances one frame: dynamic pass, static pass, light index
// rebuild, then culling against cam (nil skips camera-based culling) and
// render-queue fill.
//
// The dynamic pass runs first so a static node notified in the same frame
// its dynamic ancestor moved composes against the ancestor's fresh derived
// transform. The reverse mix (a dynamic child of a just-notified static
// parent) sees the parent's new transform one frame later; the dynamic pass
// recomputes every frame, so that lag self-corrects.
func (sm *SceneManager) UpdateFrame(cam *Camera) {
	sm.frame++
	sm.UpdateTransforms(PartitionDynamic)
	sm.UpdateTransforms(PartitionStatic)
	sm.rebuildLightIndex()
	sm.cull(cam)
}

func (sm *SceneManager) cull(cam *Camera) {
	sm.visible = sm.visible[:0]
	sm.queues.Clear()
	frustum := cam != nil && cam.HasFrustum()

	for _, p := range [2]Partition{PartitionDynamic, PartitionStatic} {
		store := sm.boundsStore(p)
		for _, o := range store.Owners() {
			if !o.IsVisible() {
				continue
			}
			if cam != nil {
				o.NotifyCamera(cam)
				if o.beyondFar {
					continue
				}
				if frustum && !store.WorldAabb(o.slot).InFrustum(cam.Planes) {
					continue
				}
			}
			sm.visible = append(sm.visible, o)
			sm.queues.Add(o)
		}
	}
}

// VisibleObjects returns the objects that survived the last cull.
func (sm *SceneManager) VisibleObjects() []*MovableObject { return sm.visible }

// RenderQueues returns the draw-order buckets filled by the last cull.
func (sm *SceneManager) RenderQueues() *RenderQueueGroup { return sm.queues }

// Factories ------------------------------------------------------------------

func (sm *SceneManager) RegisterFactory(f MovableObjectFactory) {
	sm.factories[f.Type()] = f
	sm.log.Debugf("registered movable factory %q", f.Type())
}

// CreateMovable builds an object through a registered factory and wires its
// creator/manager back-references.
func (sm *SceneManager) CreateMovable(typeName, name string, params map[string]string) (*MovableObject, error) {
	f, ok := sm.factories[typeName]
	if !ok {
		return nil, fmt.Errorf("no factory registered for type %q", typeName)
	}
	return CreateInstance(f, name, sm, params)
}
