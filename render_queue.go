package scenegraph

import "slices"

// RenderQueueGroup routes visible objects into draw-order buckets by render
// queue id, sorted within a bucket by priority then name so submission order
// is reproducible run to run.
type RenderQueueGroup struct {
	buckets map[uint8][]*MovableObject
	ids     []uint8
}

func NewRenderQueueGroup() *RenderQueueGroup {
	return &RenderQueueGroup{
		buckets: make(map[uint8][]*MovableObject),
	}
}

func (rq *RenderQueueGroup) Add(o *MovableObject) {
	id := o.RenderQueue()
	bucket, ok := rq.buckets[id]
	if !ok {
		rq.ids = append(rq.ids, id)
	}
	rq.buckets[id] = append(bucket, o)
}

// Clear empties all buckets but keeps capacity for the next frame.
func (rq *RenderQueueGroup) Clear() {
	for id := range rq.buckets {
		rq.buckets[id] = rq.buckets[id][:0]
	}
}

// QueueIDs returns the queue ids seen so far, ascending.
func (rq *RenderQueueGroup) QueueIDs() []uint8 {
	slices.Sort(rq.ids)
	return rq.ids
}

// Queue returns one bucket sorted by (priority, name).
func (rq *RenderQueueGroup) Queue(id uint8) []*MovableObject {
	bucket := rq.buckets[id]
	slices.SortFunc(bucket, func(a, b *MovableObject) int {
		if a.renderPriority != b.renderPriority {
			return int(a.renderPriority) - int(b.renderPriority)
		}
		if a.name < b.name {
			return -1
		}
		if a.name > b.name {
			return 1
		}
		return 0
	})
	return bucket
}

// Visit walks all non-empty buckets in ascending queue order.
func (rq *RenderQueueGroup) Visit(fn func(id uint8, objects []*MovableObject)) {
	for _, id := range rq.QueueIDs() {
		objs := rq.Queue(id)
		if len(objs) > 0 {
			fn(id, objs)
		}
	}
}
