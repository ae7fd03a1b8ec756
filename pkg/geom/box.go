package geom

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// OrientedBox is a cuboid given by its center, rotation and per-axis
// half-extent. Boxes are values; they are rebuilt from part poses on every
// query and never stored.
type OrientedBox struct {
	Center      math32.Vector3
	Orientation math32.Quat
	Half        math32.Vector3
}

// NewBox returns an axis-aligned box centered at center.
func NewBox(center, half math32.Vector3) OrientedBox {
	var q math32.Quat
	q.SetIdentity()
	return OrientedBox{Center: center, Orientation: q, Half: half}
}

// Rotated returns a copy of b with orientation q.
func (b OrientedBox) Rotated(q math32.Quat) OrientedBox {
	b.Orientation = q
	return b
}

// Translated returns a copy of b moved by d.
func (b OrientedBox) Translated(d math32.Vector3) OrientedBox {
	b.Center = b.Center.Add(d)
	return b
}

// Axis returns the world-space unit normal of face f.
func (b OrientedBox) Axis(f Face) math32.Vector3 {
	return f.Local().MulQuat(b.Orientation)
}

// HalfAlong returns the half-extent of b along the axis of face f.
func (b OrientedBox) HalfAlong(f Face) float32 {
	return component(b.Half, f.component())
}

// FaceRect describes one face of a box: its world center, its outward
// normal scaled by the half-extent, and the two in-plane extent vectors.
type FaceRect struct {
	Center math32.Vector3
	Normal math32.Vector3
	U      math32.Vector3
	V      math32.Vector3
}

// faceSpan lists, per face, the faces whose axes span the face plane.
var faceSpan = [6][2]Face{
	{FaceFront, FaceTop},
	{FaceRight, FaceFront},
	{FaceTop, FaceRight},
	{FaceBack, FaceBottom},
	{FaceLeft, FaceBack},
	{FaceBottom, FaceLeft},
}

// Face returns the rectangle of face f.
func (b OrientedBox) Face(f Face) FaceRect {
	n := b.Axis(f).MulScalar(b.HalfAlong(f))
	u, v := faceSpan[f][0], faceSpan[f][1]
	return FaceRect{
		Center: b.Center.Add(n),
		Normal: n,
		U:      b.Axis(u).MulScalar(b.HalfAlong(u)),
		V:      b.Axis(v).MulScalar(b.HalfAlong(v)),
	}
}

// Vertex returns corner i (0..7). Bit 1 selects +X, bit 2 +Y and bit 4 +Z;
// a clear bit selects the negative side.
func (b OrientedBox) Vertex(i int) math32.Vector3 {
	if i < 0 || i > 7 {
		panic(fmt.Sprintf("geom: vertex index %d out of range", i))
	}
	p := b.Center
	p = p.Add(b.Axis(FaceFront).MulScalar(sign(i&4) * b.Half.Z))
	p = p.Add(b.Axis(FaceTop).MulScalar(sign(i&2) * b.Half.Y))
	p = p.Add(b.Axis(FaceRight).MulScalar(sign(i&1) * b.Half.X))
	return p
}

// Vertices returns all eight corners in index order.
func (b OrientedBox) Vertices() [8]math32.Vector3 {
	var vs [8]math32.Vector3
	for i := range vs {
		vs[i] = b.Vertex(i)
	}
	return vs
}

// Segment is a bounded line from A to B.
type Segment struct {
	A, B math32.Vector3
}

// Dir returns B-A.
func (s Segment) Dir() math32.Vector3 {
	return s.B.Sub(s.A)
}

// edgeTable pairs the vertices of each of the 12 edges. Edges 0-3 run
// along X, 4-7 along Y and 8-11 along Z.
var edgeTable = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Edge returns edge i (0..11).
func (b OrientedBox) Edge(i int) Segment {
	if i < 0 || i > 11 {
		panic(fmt.Sprintf("geom: edge index %d out of range", i))
	}
	e := edgeTable[i]
	return Segment{A: b.Vertex(e[0]), B: b.Vertex(e[1])}
}

// Bounds returns the world axis-aligned bounding box of b.
func (b OrientedBox) Bounds() math32.Box3 {
	bb := math32.B3Empty()
	for _, v := range b.Vertices() {
		bb.ExpandByPoint(v)
	}
	return bb
}

// NearestFace returns the face of b whose world normal makes the smallest
// angle with dir.
func NearestFace(b OrientedBox, dir math32.Vector3) Face {
	d := dir.Normal()
	best := FaceRight
	bestDot := math32.Inf(-1)
	for _, f := range Faces {
		if dot := b.Axis(f).Dot(d); dot > bestDot {
			best, bestDot = f, dot
		}
	}
	return best
}

// ClosestDistance approximates the gap between a and b using their world
// bounding boxes: b's center is clamped into a, and that point into b.
func ClosestDistance(a, b OrientedBox) float32 {
	ab, bb := a.Bounds(), b.Bounds()
	p := ab.ClampPoint(b.Center)
	return bb.ClampPoint(p).Sub(p).Length()
}

func sign(bit int) float32 {
	if bit == 0 {
		return -1
	}
	return 1
}

func component(v math32.Vector3, i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}
