// Package touch computes how far one oriented box has to travel along a
// direction before its boundary first meets another box. It drives
// drag-to-surface placement and paste/spawn positioning.
package touch

import (
	"cogentcore.org/core/math32"

	"github.com/chazu/keelwright/pkg/geom"
)

const (
	// faceSlack widens the in-face test for vertex hits so that corners
	// lying exactly on a face border still count.
	faceSlack = 1e-4
	// behindSlack accepts hits marginally behind the start point, which
	// happens for boxes that already touch.
	behindSlack = 1e-5
	// parallelEps rejects rays and planes that are numerically parallel.
	parallelEps = 1e-6
	// A contact counts only when stepping entryStep past it overlaps the
	// boxes by more than entryDepth.
	entryStep  = 1e-2
	entryDepth = 1e-4
)

type featureKind uint8

const (
	kindVertex featureKind = iota
	kindEdge
	kindFace
)

// feature is one vertex, edge or face of a box.
type feature struct {
	kind  featureKind
	point math32.Vector3
	edge  geom.Segment
	face  geom.FaceRect
}

// features lists the 6 faces, 8 vertices and 12 edges of b.
func features(b geom.OrientedBox) []feature {
	fs := make([]feature, 0, 26)
	for _, f := range geom.Faces {
		fs = append(fs, feature{kind: kindFace, face: b.Face(f)})
	}
	for i := 0; i < 8; i++ {
		fs = append(fs, feature{kind: kindVertex, point: b.Vertex(i)})
	}
	for i := 0; i < 12; i++ {
		fs = append(fs, feature{kind: kindEdge, edge: b.Edge(i)})
	}
	return fs
}

// Distance returns how far a must move along dir to touch b, or +Inf when
// no translation along dir brings the two boundaries into contact. A
// contact counts only when moving on past it pushes a into b, so boxes
// that touch and move apart, or slide along each other, give +Inf.
//
// Every feature pair of a against b is tested along dir. Pairs of
// different kinds are also tested the other way round, b against a along
// -dir, so that b's corners can land on a's faces. Same-kind pairs are not
// re-tested in reverse.
func Distance(a, b geom.OrientedBox, dir math32.Vector3) float32 {
	d := dir.Normal()
	back := d.Negate()

	accept := func(t float32) bool {
		return penetrates(a.Translated(d.MulScalar(t+entryStep)), b)
	}

	best := math32.Inf(1)
	af, bf := features(a), features(b)
	for _, fa := range af {
		for _, fb := range bf {
			if t, ok := pair(fa, fb, d); ok && t < best && accept(t) {
				best = t
			}
			if fa.kind != fb.kind {
				if t, ok := pair(fb, fa, back); ok && t < best && accept(t) {
					best = t
				}
			}
		}
	}
	return best
}

// pair dispatches on the feature kinds. Only vertex to face and edge to
// edge contacts are resolved; every other combination reports no contact.
func pair(moving, static feature, dir math32.Vector3) (float32, bool) {
	switch {
	case moving.kind == kindVertex && static.kind == kindFace:
		return VertexToFace(moving.point, static.face, dir)
	case moving.kind == kindEdge && static.kind == kindEdge:
		return EdgeToEdge(moving.edge, static.edge, dir)
	}
	return 0, false
}

var boxAxes = [3]geom.Face{geom.FaceRight, geom.FaceTop, geom.FaceFront}

// penetrates reports whether a and b overlap by more than entryDepth on
// every separating axis: the three axes of each box and their cross
// products.
func penetrates(a, b geom.OrientedBox) bool {
	axes := make([]math32.Vector3, 0, 15)
	for _, f := range boxAxes {
		axes = append(axes, a.Axis(f), b.Axis(f))
	}
	for _, fa := range boxAxes {
		for _, fb := range boxAxes {
			if c := a.Axis(fa).Cross(b.Axis(fb)); c.Length() > parallelEps {
				axes = append(axes, c.Normal())
			}
		}
	}
	gap := b.Center.Sub(a.Center)
	for _, l := range axes {
		if radius(a, l)+radius(b, l)-math32.Abs(gap.Dot(l)) <= entryDepth {
			return false
		}
	}
	return true
}

// radius is the half length of b projected onto the unit axis l.
func radius(b geom.OrientedBox, l math32.Vector3) float32 {
	var r float32
	for _, f := range boxAxes {
		r += b.HalfAlong(f) * math32.Abs(b.Axis(f).Dot(l))
	}
	return r
}

// VertexToFace casts a ray from p along the unit vector dir and intersects
// it with the plane of face. The hit counts only when it falls inside the
// face rectangle and lies ahead of p. A vertex already on the face plane
// touches it only when it moves against the face normal.
func VertexToFace(p math32.Vector3, face geom.FaceRect, dir math32.Vector3) (float32, bool) {
	n := face.Normal.Normal()
	denom := dir.Dot(n)
	if math32.Abs(denom) < parallelEps {
		return 0, false
	}
	t := face.Center.Sub(p).Dot(n) / denom
	if t < -behindSlack {
		return 0, false
	}
	if t < behindSlack && denom > 0 {
		return 0, false
	}
	if t < 0 {
		t = 0
	}

	rel := p.Add(dir.MulScalar(t)).Sub(face.Center)
	if !within(rel, face.U) || !within(rel, face.V) {
		return 0, false
	}
	return t, true
}

func within(rel, axis math32.Vector3) bool {
	l := axis.Length()
	if l == 0 {
		return math32.Abs(rel.Length()) <= faceSlack
	}
	return math32.Abs(rel.Dot(axis.Normal())) <= l+faceSlack
}

// EdgeToEdge finds the travel along the unit vector dir that brings the
// moving segment onto the static one.
//
// The static segment is intersected with the plane swept by the moving
// segment along dir. The intersection must fall within the static segment,
// and its offset from the moving segment's start must project within the
// part of the moving segment perpendicular to dir. What remains of the
// offset is parallel to dir and is the travel distance.
func EdgeToEdge(moving, static geom.Segment, dir math32.Vector3) (float32, bool) {
	ma := moving.Dir()
	n := dir.Cross(ma)
	if n.Length() < parallelEps {
		return 0, false
	}
	n = n.Normal()

	sd := static.Dir()
	sl := sd.Length()
	if sl == 0 {
		return 0, false
	}
	su := sd.MulScalar(1 / sl)
	denom := su.Dot(n)
	if math32.Abs(denom) < parallelEps {
		return 0, false
	}
	u := moving.A.Sub(static.A).Dot(n) / denom
	if u < -faceSlack || u > sl+faceSlack {
		return 0, false
	}
	hit := static.A.Add(su.MulScalar(u))
	offset := hit.Sub(moving.A)

	perp := ma.Sub(dir.MulScalar(ma.Dot(dir)))
	pl := perp.Length()
	if pl < parallelEps {
		return 0, false
	}
	s := offset.Dot(perp.MulScalar(1 / pl))
	if s < -faceSlack || s > pl+faceSlack {
		return 0, false
	}

	rest := offset.Sub(ma.MulScalar(s / pl))
	t := rest.Dot(dir)
	if t < -behindSlack {
		return 0, false
	}
	if t < 0 {
		t = 0
	}
	return t, true
}
