package scenegraph

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// LightClosest is one entry of a nearest-lights result: the light, its index
// into the frame's GlobalLightList, and its distance to the query center
// (zero for directional lights).
type LightClosest struct {
	Light       *Light
	GlobalIndex int
	Distance    float32
}

// LightList is an ordered nearest-lights sequence with an incrementally
// usable content hash for cheap frame-over-frame comparison: dependent GPU
// state only needs a rebuild when the hash changes.
//
// The hash is lazy. Mutations just mark it dirty; a Hash read while dirty
// recomputes it first.
type LightList struct {
	items     []LightClosest
	hash      uint64
	hashDirty bool
}

func (ll *LightList) Len() int              { return len(ll.items) }
func (ll *LightList) At(i int) LightClosest { return ll.items[i] }

// Items returns the backing slice; any mutation through it must be followed
// by DirtyHash.
func (ll *LightList) Items() []LightClosest { return ll.items }

func (ll *LightList) Append(lc LightClosest) {
	ll.items = append(ll.items, lc)
	ll.hashDirty = true
}

func (ll *LightList) Clear() {
	if len(ll.items) > 0 {
		ll.items = ll.items[:0]
		ll.hashDirty = true
	}
}

func (ll *LightList) DirtyHash()        { ll.hashDirty = true }
func (ll *LightList) IsHashDirty() bool { return ll.hashDirty }

// Hash returns the content hash, recomputing it if dirty. The zero value
// has never been hashed and recomputes too, so empty lists always agree.
func (ll *LightList) Hash() uint64 {
	if ll.hashDirty || ll.hash == 0 {
		ll.recalcHash()
	}
	return ll.hash
}

func (ll *LightList) recalcHash() {
	h := fnv.New64a()
	b := make([]byte, 12)
	for _, lc := range ll.items {
		binary.LittleEndian.PutUint64(b[0:8], uint64(lc.GlobalIndex))
		binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(lc.Distance))
		h.Write(b)
	}
	ll.hash = h.Sum64()
	ll.hashDirty = false
}

// Equal compares two lists by length and content hash.
func (ll *LightList) Equal(other *LightList) bool {
	return ll.Len() == other.Len() && ll.Hash() == other.Hash()
}
