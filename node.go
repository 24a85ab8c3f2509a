package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Partition classifies a node/object: DYNAMIC transforms auto-update every
// frame, STATIC ones only when explicitly notified via
// SceneManager.NotifyStaticDirty.
type Partition uint8

const (
	PartitionDynamic Partition = iota
	PartitionStatic
)

func (p Partition) String() string {
	if p == PartitionStatic {
		return "static"
	}
	return "dynamic"
}

// Node is a transform-hierarchy node. The tree owns its children; the parent
// pointer and the attached-object back-references are non-owning.
//
// A STATIC child of a DYNAMIC parent is NOT re-derived when the parent moves
// unless the caller notifies it dirty. That asymmetry is the point of the
// partitioning: callers who mix partitions that way own the notification.
type Node struct {
	name      string
	scene     *SceneManager
	partition Partition

	parent   *Node
	children []*Node

	local   Transform
	derived Transform
	dirty   bool

	attached []*MovableObject
}

func newNode(scene *SceneManager, name string, partition Partition) *Node {
	if name == "" {
		name = uuid.NewString()
	}
	return &Node{
		name:      name,
		scene:     scene,
		partition: partition,
		local:     IdentityTransform(),
		derived:   IdentityTransform(),
		dirty:     true,
	}
}

func (n *Node) Name() string         { return n.name }
func (n *Node) Partition() Partition { return n.partition }
func (n *Node) Parent() *Node        { return n.parent }
func (n *Node) Children() []*Node    { return n.children }

// CreateChild creates and adds a child node in the given partition. An empty
// name gets a generated one.
func (n *Node) CreateChild(name string, partition Partition) *Node {
	child := newNode(n.scene, name, partition)
	child.parent = n
	n.children = append(n.children, child)
	child.markMoved()
	return child
}

// AddChild adopts an existing parentless node. Adopting a node that is an
// ancestor of n would close a cycle; that is a contract violation.
func (n *Node) AddChild(child *Node) {
	debugAssert(child.parent == nil, "scenegraph: AddChild: node %q already has a parent", child.name)
	if DebugChecks {
		depth := 0
		for a := n; a != nil; a = a.parent {
			if a == child {
				panic("scenegraph: AddChild would create a cycle")
			}
			depth++
			debugAssert(depth <= n.scene.cfg.MaxTreeDepth,
				"scenegraph: parent chain exceeds depth guard (%d), cycle?", n.scene.cfg.MaxTreeDepth)
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	child.markMoved()
}

// RemoveChild detaches a child from the tree without destroying it. Removing
// a node that is not a child is a no-op.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			child.markMoved()
			return
		}
	}
}

func (n *Node) LocalTransform() Transform { return n.local }

// SetLocalTransform replaces the local position/rotation/scale and marks the
// node dirty. For a DYNAMIC node that is all that is needed; a STATIC node
// additionally requires SceneManager.NotifyStaticDirty before the change
// reaches its derived transform.
func (n *Node) SetLocalTransform(t Transform) {
	n.local = t
	n.markMoved()
}

func (n *Node) SetPosition(x, y, z float32) {
	n.local.Position[0], n.local.Position[1], n.local.Position[2] = x, y, z
	n.markMoved()
}

func (n *Node) SetRotation(q mgl32.Quat) {
	n.local.Rotation = q
	n.markMoved()
}

func (n *Node) SetScale(x, y, z float32) {
	n.local.Scale[0], n.local.Scale[1], n.local.Scale[2] = x, y, z
	n.markMoved()
}

// DerivedTransform returns the cached world-space transform. It is only as
// fresh as the last update pass that reached this node.
func (n *Node) DerivedTransform() Transform { return n.derived }

// DerivedTransformUpdated recomputes the derived transform for this node's
// parent chain immediately, outside the batched update pass, and returns the
// fresh value. O(depth), independent of scene size.
func (n *Node) DerivedTransformUpdated() Transform {
	n.updateDerivedChain(0)
	return n.derived
}

func (n *Node) updateDerivedChain(depth int) {
	debugAssert(depth <= n.scene.cfg.MaxTreeDepth,
		"scenegraph: parent chain exceeds depth guard (%d), cycle?", n.scene.cfg.MaxTreeDepth)
	if n.parent == nil {
		n.derived = n.local
	} else {
		n.parent.updateDerivedChain(depth + 1)
		n.derived = n.parent.derived.Apply(n.local)
	}
	n.dirty = false
}

// SetPartition moves the node to the other partition. The attached objects'
// bounds slots migrate to that partition's store and everything is recomputed
// immediately so no stale state survives the boundary crossing.
func (n *Node) SetPartition(p Partition) {
	if p == n.partition {
		return
	}
	n.partition = p
	for _, o := range n.attached {
		o.migrateStore(p)
	}
	n.DerivedTransformUpdated()
	n.refreshAttachedBounds()
	n.scene.log.Debugf("node %q moved to %s partition", n.name, p)
}

// markMoved flags the node and its whole subtree dirty: an ancestor move
// invalidates every descendant's derived transform, so attached objects all
// the way down are told their cached world bounds are stale. Staleness is
// about the cached box, not the update policy, so static children are not
// skipped here.
func (n *Node) markMoved() {
	n.dirty = true
	for _, o := range n.attached {
		o.notifyMoved()
	}
	for _, c := range n.children {
		c.markMoved()
	}
}

// AttachedObjects returns the objects currently attached to this node.
func (n *Node) AttachedObjects() []*MovableObject { return n.attached }

func (n *Node) attachObject(o *MovableObject) {
	n.attached = append(n.attached, o)
}

func (n *Node) detachObject(o *MovableObject) {
	for i, a := range n.attached {
		if a == o {
			n.attached = append(n.attached[:i], n.attached[i+1:]...)
			return
		}
	}
}

// refreshAttachedBounds recomputes world AABBs for the attached objects from
// the node's current derived transform. Must run only after that transform is
// finalized for the pass.
func (n *Node) refreshAttachedBounds() {
	for _, o := range n.attached {
		o.updateWorldAabbFromDerived(n.derived)
	}
}

// updateDynamic recomputes this node if dynamic, then recurses. Parents are
// processed before children, so a child always composes against a finalized
// parent transform. Static nodes keep their cache but are still traversed:
// their dynamic descendants must update.
func (n *Node) updateDynamic(depth int) {
	debugAssert(depth <= n.scene.cfg.MaxTreeDepth,
		"scenegraph: tree exceeds depth guard (%d), cycle?", n.scene.cfg.MaxTreeDepth)
	if n.partition == PartitionDynamic {
		if n.parent == nil {
			n.derived = n.local
		} else {
			n.derived = n.parent.derived.Apply(n.local)
		}
		n.dirty = false
		n.refreshAttachedBounds()
	}
	for _, c := range n.children {
		c.updateDynamic(depth + 1)
	}
}

// updateStaticSubtree recomputes this node and every descendant reachable
// through static-child edges. Dirtiness does not cross into dynamic subtrees
// (the dynamic pass owns those) and never travels upward.
func (n *Node) updateStaticSubtree(depth int) {
	debugAssert(depth <= n.scene.cfg.MaxTreeDepth,
		"scenegraph: tree exceeds depth guard (%d), cycle?", n.scene.cfg.MaxTreeDepth)
	if n.parent == nil {
		n.derived = n.local
	} else {
		n.derived = n.parent.derived.Apply(n.local)
	}
	n.dirty = false
	n.refreshAttachedBounds()
	for _, c := range n.children {
		if c.partition == PartitionStatic {
			c.updateStaticSubtree(depth + 1)
		}
	}
}
