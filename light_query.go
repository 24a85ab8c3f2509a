package scenegraph

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// findLights fills out with the nearest maxLights lights from the snapshot
// whose light mask intersects mask and whose influence sphere reaches the
// query sphere. Results are sorted ascending by distance with ties broken by
// the lower global index, so ordering is reproducible across runs.
//
// Directional lights are an explicit special case: they have no position, are
// always in range, and sort at distance 0 ahead of positional lights.
//
// candidates, when non-nil, restricts the scan to those global indices (the
// grid broadphase); the exact filter and sort here make the result identical
// to a full scan.
func findLights(out *LightList, lights *GlobalLightList, candidates []int,
	center mgl32.Vec3, radius float32, mask uint32, maxLights int) {

	out.Clear()

	consider := func(idx int) {
		l := lights.Lights[idx]
		if l.LightMask&mask == 0 {
			return
		}
		dist := float32(0)
		if l.Type != LightTypeDirectional {
			s := lights.BoundingSphere[idx]
			d := center.Sub(s.Center)
			dist = d.Len()
			if dist > radius+s.Radius {
				return
			}
		}
		out.Append(LightClosest{Light: l, GlobalIndex: idx, Distance: dist})
	}

	if candidates != nil {
		for _, idx := range candidates {
			consider(idx)
		}
	} else {
		for idx := range lights.Lights {
			consider(idx)
		}
	}

	items := out.Items()
	slices.SortFunc(items, func(a, b LightClosest) int {
		if a.Distance != b.Distance {
			if a.Distance < b.Distance {
				return -1
			}
			return 1
		}
		return a.GlobalIndex - b.GlobalIndex
	})
	if len(items) > maxLights {
		out.items = items[:maxLights]
	}
	out.DirtyHash()
}
