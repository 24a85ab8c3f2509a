package scenegraph

import "sync"

// BoundsStore keeps per-object bounding boxes in parallel slices indexed by
// slot, one store per partition. Iterating the occupied range is gap-free:
// Release swaps the last slot into the hole and shrinks.
//
// A slot index is stable for as long as its owner holds it, but a Release of
// some OTHER slot can move the last owner, so owners must always go through
// their stored index and never cache a slot across a release.
type BoundsStore struct {
	mu     sync.Mutex
	local  []AABB
	world  []AABB
	owners []*MovableObject
}

func NewBoundsStore() *BoundsStore {
	return &BoundsStore{}
}

// Len returns the number of occupied slots.
func (s *BoundsStore) Len() int { return len(s.owners) }

// Allocate reserves a slot for owner and returns its index. O(1) amortized.
func (s *BoundsStore) Allocate(owner *MovableObject) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = append(s.local, AABB{})
	s.world = append(s.world, AABB{})
	s.owners = append(s.owners, owner)
	return len(s.owners) - 1
}

// Release frees a slot by swapping the last occupied slot into its place and
// shrinking. The displaced owner's stored index is fixed up here.
func (s *BoundsStore) Release(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := len(s.owners) - 1
	debugAssert(slot >= 0 && slot <= last, "scenegraph: Release of invalid slot %d (len %d)", slot, last+1)
	if slot != last {
		s.local[slot] = s.local[last]
		s.world[slot] = s.world[last]
		s.owners[slot] = s.owners[last]
		s.owners[slot].slot = slot
	}
	s.local = s.local[:last]
	s.world = s.world[:last]
	s.owners = s.owners[:last]
}

func (s *BoundsStore) LocalAabb(slot int) AABB { return s.local[slot] }
func (s *BoundsStore) WorldAabb(slot int) AABB { return s.world[slot] }

func (s *BoundsStore) SetLocalAabb(slot int, box AABB) {
	s.local[slot] = box
}

// UpdateWorldAabb recomputes the world box for one slot from the owning
// node's derived transform. Must run only after that transform is finalized
// for the frame.
func (s *BoundsStore) UpdateWorldAabb(slot int, derived Transform) AABB {
	box := s.local[slot].Transformed(derived)
	s.world[slot] = box
	return box
}

// Owners returns the occupied owner slice for iteration. Callers must not
// hold it across Allocate/Release.
func (s *BoundsStore) Owners() []*MovableObject { return s.owners }
