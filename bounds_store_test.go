package scenegraph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsStoreAllocateReleaseRoundTrip(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	store := NewBoundsStore()

	a := NewMovableObject(sm, "a")
	b := NewMovableObject(sm, "b")
	a.slot = store.Allocate(a)
	b.slot = store.Allocate(b)
	store.SetLocalAabb(a.slot, AABB{Min: mgl32.Vec3{-1, 0, 0}, Max: mgl32.Vec3{1, 0, 0}})
	store.SetLocalAabb(b.slot, AABB{Min: mgl32.Vec3{-2, 0, 0}, Max: mgl32.Vec3{2, 0, 0}})

	sizeBefore := store.Len()
	aBox := store.LocalAabb(a.slot)
	bBox := store.LocalAabb(b.slot)

	c := NewMovableObject(sm, "c")
	c.slot = store.Allocate(c)
	store.Release(c.slot)

	assert.Equal(t, sizeBefore, store.Len(), "release(allocate()) must restore the size")
	assert.Equal(t, aBox, store.LocalAabb(a.slot), "slot a content changed")
	assert.Equal(t, bBox, store.LocalAabb(b.slot), "slot b content changed")
}

func TestBoundsStoreSwapReleaseFixesDisplacedOwner(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	store := NewBoundsStore()

	objs := make([]*MovableObject, 4)
	for i := range objs {
		objs[i] = NewMovableObject(sm, "")
		objs[i].slot = store.Allocate(objs[i])
		store.SetLocalAabb(objs[i].slot, AABB{
			Min: mgl32.Vec3{float32(i), 0, 0},
			Max: mgl32.Vec3{float32(i) + 1, 0, 0},
		})
	}

	// Releasing slot 1 swaps the last owner (objs[3]) into it.
	store.Release(objs[1].slot)

	require.Equal(t, 3, store.Len())
	assert.Equal(t, 1, objs[3].slot, "displaced owner's index not fixed up")

	// Every surviving owner still resolves to its own record.
	for _, o := range []*MovableObject{objs[0], objs[2], objs[3]} {
		assert.Same(t, o, store.Owners()[o.slot], "owner %q does not resolve to its own slot", o.name)
	}
}

func TestBoundsStoreCountMatchesAttachments(t *testing.T) {
	sm := NewSceneManager(SceneConfig{})
	n := sm.CreateNode("n", PartitionDynamic)

	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	var objs []*MovableObject
	for i := 0; i < 8; i++ {
		o := NewMovableObject(sm, "")
		o.SetBounds(box)
		o.AttachTo(n)
		objs = append(objs, o)
	}
	// Interleave detaches and re-attaches to churn the free slots.
	objs[2].DetachFromParent()
	objs[5].DetachFromParent()
	objs[2].AttachTo(n)
	objs[0].DetachFromParent()

	attached := 0
	for _, o := range objs {
		if o.IsAttached() {
			attached++
		}
	}
	store := sm.BoundsStoreFor(PartitionDynamic)
	require.Equal(t, attached, store.Len(), "occupied slots must equal attached objects")

	for _, o := range objs {
		if o.IsAttached() {
			assert.Same(t, o, store.Owners()[o.slot], "cross-talk after slot recycling")
		}
	}
}
