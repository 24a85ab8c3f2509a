package scenegraph

import "sync"

// staticTracker is the pending-static-update set: static nodes whose derived
// transforms must be recomputed on the next static pass. Insertion order is
// kept so the pass is deterministic; duplicates are dropped.
type staticTracker struct {
	mu      sync.Mutex
	pending []*Node
	seen    map[*Node]struct{}
}

func (st *staticTracker) add(n *Node) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.seen == nil {
		st.seen = make(map[*Node]struct{})
	}
	if _, dup := st.seen[n]; dup {
		return
	}
	st.seen[n] = struct{}{}
	st.pending = append(st.pending, n)
}

func (st *staticTracker) drain() []*Node {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := st.pending
	st.pending = nil
	st.seen = nil
	return out
}
