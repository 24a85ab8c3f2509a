package scenegraph

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// lightGrid is a spatial hash over the global light list's bounding spheres,
// used as a broadphase for nearest-light queries on light-heavy scenes.
// Rebuilt every frame. Directional lights have an unbounded sphere and are
// kept out of the grid; queries always consider them.
type lightGrid struct {
	cellSize    float32
	cells       map[uint64][]int
	directional []int
}

func newLightGrid(cellSize float32) *lightGrid {
	return &lightGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]int),
	}
}

func (g *lightGrid) clear() {
	for k := range g.cells {
		delete(g.cells, k)
	}
	g.directional = g.directional[:0]
}

func (g *lightGrid) rebuild(lights *GlobalLightList) {
	g.clear()
	for i, s := range lights.BoundingSphere {
		if math32.IsInf(s.Radius, 1) {
			g.directional = append(g.directional, i)
			continue
		}
		g.insertSphere(i, s)
	}
}

func (g *lightGrid) insertSphere(index int, s Sphere) {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	lo, hi := s.Center.Sub(r), s.Center.Add(r)

	minX, maxX := g.cellIndex(lo.X()), g.cellIndex(hi.X())
	minY, maxY := g.cellIndex(lo.Y()), g.cellIndex(hi.Y())
	minZ, maxZ := g.cellIndex(lo.Z()), g.cellIndex(hi.Z())

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				key := g.hashKey(x, y, z)
				g.cells[key] = append(g.cells[key], index)
			}
		}
	}
}

// queryRadius returns broadphase candidate indices for a sphere query,
// directional lights included, deduplicated. Order is arbitrary; callers do
// the exact filter and sort.
func (g *lightGrid) queryRadius(center mgl32.Vec3, radius float32, scratch map[int]struct{}) []int {
	r := mgl32.Vec3{radius, radius, radius}
	lo, hi := center.Sub(r), center.Add(r)

	minX, maxX := g.cellIndex(lo.X()), g.cellIndex(hi.X())
	minY, maxY := g.cellIndex(lo.Y()), g.cellIndex(hi.Y())
	minZ, maxZ := g.cellIndex(lo.Z()), g.cellIndex(hi.Z())

	for k := range scratch {
		delete(scratch, k)
	}

	// Non-nil even when empty: an empty candidate set is a real answer, not
	// a request for a full scan.
	results := make([]int, 0, len(g.directional)+8)
	results = append(results, g.directional...)

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				key := g.hashKey(x, y, z)
				for _, idx := range g.cells[key] {
					if _, ok := scratch[idx]; !ok {
						scratch[idx] = struct{}{}
						results = append(results, idx)
					}
				}
			}
		}
	}
	return results
}

func (g *lightGrid) cellIndex(pos float32) int {
	return int(math32.Floor(pos / g.cellSize))
}

func (g *lightGrid) hashKey(x, y, z int) uint64 {
	// large primes for mixing
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}
