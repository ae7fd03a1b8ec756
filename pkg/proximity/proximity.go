// Package proximity finds, for each face of a box, the faces of other boxes
// that look back at it.
package proximity

import (
	"cogentcore.org/core/math32"

	"github.com/chazu/keelwright/pkg/geom"
)

// antiParallelEps bounds |n̂a + n̂b| for two faces to count as facing.
const antiParallelEps = 0.001

// Contact is one candidate face facing an origin face.
type Contact struct {
	Index int       // position in the candidate slice
	Face  geom.Face // candidate's face
}

// Adjacency maps each origin face to the contacts facing it. Every face is
// present, possibly with an empty slice.
type Adjacency map[geom.Face][]Contact

// Tolerance tunes the optional checks of Nearby.
type Tolerance struct {
	// Separation is the allowed difference between the center distance
	// along the face normal and the sum of both half-extents.
	Separation float32
	// Overlap extends each face rectangle before the overlap test.
	Overlap float32
}

// DefaultTolerance is used by Nearby.
var DefaultTolerance = Tolerance{Separation: 0.01, Overlap: 0.1}

// Nearby runs DefaultTolerance.Nearby.
func Nearby(origin geom.OrientedBox, candidates []geom.OrientedBox, checkSeparation, checkOverlap bool) Adjacency {
	return DefaultTolerance.Nearby(origin, candidates, checkSeparation, checkOverlap)
}

// Nearby lists, per face of origin, the anti-parallel faces of candidates.
// With checkSeparation the two faces must also be coplanar, and with
// checkOverlap their rectangles must overlap. A candidate equal to origin is
// skipped. Contacts keep candidate order.
func (t Tolerance) Nearby(origin geom.OrientedBox, candidates []geom.OrientedBox, checkSeparation, checkOverlap bool) Adjacency {
	adj := make(Adjacency, len(geom.Faces))
	for _, f := range geom.Faces {
		adj[f] = []Contact{}
	}

	for i := range candidates {
		c := candidates[i]
		if c == origin {
			continue
		}
		for _, fo := range geom.Faces {
			of := origin.Face(fo)
			on := of.Normal.Normal()
			for _, fc := range geom.Faces {
				cf := c.Face(fc)
				if on.Add(cf.Normal.Normal()).Length() > antiParallelEps {
					continue
				}
				if checkSeparation && !t.separated(origin, c, of, cf, on) {
					continue
				}
				if checkOverlap && !t.overlapping(of, cf) {
					continue
				}
				adj[fo] = append(adj[fo], Contact{Index: i, Face: fc})
			}
		}
	}
	return adj
}

func (t Tolerance) separated(origin, c geom.OrientedBox, of, cf geom.FaceRect, on math32.Vector3) bool {
	gap := c.Center.Sub(origin.Center).Dot(on)
	return math32.Abs(gap-(of.Normal.Length()+cf.Normal.Length())) <= t.Separation
}

func (t Tolerance) overlapping(of, cf geom.FaceRect) bool {
	return geom.RectsOverlap(
		of.Center, geom.Extend(of.U, t.Overlap), geom.Extend(of.V, t.Overlap),
		cf.Center, geom.Extend(cf.U, t.Overlap), geom.Extend(cf.V, t.Overlap),
	)
}
