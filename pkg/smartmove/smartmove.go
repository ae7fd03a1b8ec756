// Package smartmove computes the snap offsets offered when a part is nudged
// along one of its face normals. Each offset lines the part up with a face
// or the center of a nearby part.
package smartmove

import (
	"slices"

	"cogentcore.org/core/math32"

	"github.com/chazu/keelwright/pkg/geom"
	"github.com/chazu/keelwright/pkg/proximity"
)

// DefaultReach is the largest gap to a neighbor that still offers snaps.
const DefaultReach float32 = 1.0

// minOffset drops offsets that would not move the part.
const minOffset = 1e-5

// Offsets returns the positive, ascending, de-duplicated distances origin
// can travel along its axis face normal to align with the neighbors found
// in adj on either side of that axis. Neighbours further than reach are
// ignored.
func Offsets(origin geom.OrientedBox, candidates []geom.OrientedBox, adj proximity.Adjacency, axis geom.Face, reach float32) []float32 {
	n := origin.Axis(axis)
	h := origin.HalfAlong(axis)

	var out []float32
	for _, side := range []geom.Face{axis, axis.Opposite()} {
		for _, ct := range adj[side] {
			if ct.Index < 0 || ct.Index >= len(candidates) {
				continue
			}
			c := candidates[ct.Index]
			if geom.ClosestDistance(origin, c) > reach {
				continue
			}
			planes := [3]math32.Vector3{
				c.Face(ct.Face).Center,
				c.Center,
				c.Face(ct.Face.Opposite()).Center,
			}
			for _, p := range planes {
				d := p.Sub(origin.Center).Dot(n)
				for _, o := range [3]float32{d - h, d, d + h} {
					if o > minOffset {
						out = append(out, o)
					}
				}
			}
		}
	}

	slices.Sort(out)
	return dedupe(out)
}

func dedupe(sorted []float32) []float32 {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v-out[len(out)-1] > minOffset {
			out = append(out, v)
		}
	}
	return out
}

// Offset returns the step-th snap offset, clamped to the last one, or 0
// when there is nothing to snap to. step indexes the sorted, de-duplicated
// list of Offsets, which holds up to nine offsets per neighbor: the part's
// back face, center and front face against the neighbor's near face,
// center and far face.
func Offset(origin geom.OrientedBox, candidates []geom.OrientedBox, adj proximity.Adjacency, axis geom.Face, step int, reach float32) float32 {
	offs := Offsets(origin, candidates, adj, axis, reach)
	if len(offs) == 0 {
		return 0
	}
	if step < 0 {
		step = 0
	}
	return offs[min(step, len(offs)-1)]
}
