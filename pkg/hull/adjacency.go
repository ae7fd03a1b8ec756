package hull

import (
	"fmt"

	"cogentcore.org/core/math32"

	"github.com/chazu/keelwright/pkg/geom"
)

// Segment pairs a hull's collider with its shape.
type Segment struct {
	Box  geom.OrientedBox
	Hull *Hull
}

// Flip records how a neighbor is turned relative to the origin.
type Flip struct {
	Horizontal bool // forward axes opposed: front and back swap
	Vertical   bool // up axes opposed: top and bottom swap
}

// Xor composes two flips.
func (f Flip) Xor(g Flip) Flip {
	return Flip{Horizontal: f.Horizontal != g.Horizontal, Vertical: f.Vertical != g.Vertical}
}

func (f Flip) end(e End) End {
	if f.Horizontal {
		return e.Other()
	}
	return e
}

func (f Flip) level(l Level) Level {
	if f.Vertical {
		return l.Other()
	}
	return l
}

// Neighbor is a hull adjacent to the origin.
type Neighbor struct {
	Index int
	Flip  Flip
}

// Tolerance bounds the comparisons of Adjacent.
type Tolerance struct {
	Position float32 // offsets, gaps and box sizes
	Width    float32 // widths and roundness
}

// DefaultTolerance is the tolerance used by the editor.
var DefaultTolerance = Tolerance{Position: 1e-2, Width: 0.002}

type frame struct {
	right, up, forward math32.Vector3
}

func frameOf(b geom.OrientedBox) frame {
	return frame{
		right:   b.Axis(geom.FaceRight),
		up:      b.Axis(geom.FaceTop),
		forward: b.Axis(geom.FaceFront),
	}
}

func near(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

// Adjacent finds the hulls in candidates that continue origin's shape
// across one of its front, back, top or bottom faces. A continuing
// neighbor sits flush against the face with matching cross-sections, so
// the seam has no step. The first match per face wins.
func Adjacent(origin Segment, candidates []Segment, tol Tolerance) map[geom.Face]Neighbor {
	out := make(map[geom.Face]Neighbor, 4)
	if origin.Hull == nil {
		return out
	}
	of := frameOf(origin.Box)

	for i, c := range candidates {
		if len(out) == 4 {
			break
		}
		if c.Hull == nil {
			continue
		}
		face, flip, ok := adjacentFace(origin, of, c, tol)
		if !ok {
			continue
		}
		if _, taken := out[face]; taken {
			continue
		}
		out[face] = Neighbor{Index: i, Flip: flip}
	}
	return out
}

func adjacentFace(origin Segment, of frame, c Segment, tol Tolerance) (geom.Face, Flip, bool) {
	cf := frameOf(c.Box)
	upDot := of.up.Dot(cf.up)
	fwdDot := of.forward.Dot(cf.forward)
	if !near(math32.Abs(upDot), 1, tol.Position) || !near(math32.Abs(fwdDot), 1, tol.Position) {
		return 0, Flip{}, false
	}

	d := c.Box.Center.Sub(origin.Box.Center)
	if math32.Abs(d.Dot(of.right)) > tol.Position {
		return 0, Flip{}, false
	}
	flip := Flip{Horizontal: fwdDot < 0, Vertical: upDot < 0}
	dz := d.Dot(of.forward)
	dy := d.Dot(of.up)

	oh, ch := origin.Hull, c.Hull
	switch {
	case math32.Abs(dz) > tol.Position:
		if math32.Abs(dy) > tol.Position ||
			!near(origin.Box.Half.Y, c.Box.Half.Y, tol.Position) ||
			!near(math32.Abs(dz), origin.Box.Half.Z+c.Box.Half.Z, tol.Position) {
			return 0, Flip{}, false
		}
		face, oEnd := geom.FaceFront, Front
		if dz < 0 {
			face, oEnd = geom.FaceBack, Back
		}
		cEnd := Back
		if d.Dot(cf.forward) < 0 {
			cEnd = Front
		}
		for _, l := range [2]Level{Bottom, Top} {
			cl := flip.level(l)
			if !near(oh.Roundness(l), ch.Roundness(cl), tol.Width) ||
				!near(oh.Width(oEnd, l), ch.Width(cEnd, cl), tol.Width) {
				return 0, Flip{}, false
			}
		}
		return face, flip, true

	case math32.Abs(dy) > tol.Position:
		if !near(origin.Box.Half.Z, c.Box.Half.Z, tol.Position) ||
			!near(math32.Abs(dy), origin.Box.Half.Y+c.Box.Half.Y, tol.Position) {
			return 0, Flip{}, false
		}
		face, oLevel := geom.FaceTop, Top
		if dy < 0 {
			face, oLevel = geom.FaceBottom, Bottom
		}
		cLevel := Bottom
		if d.Dot(cf.up) < 0 {
			cLevel = Top
		}
		if !near(oh.Roundness(oLevel), 0, tol.Width) || !near(ch.Roundness(cLevel), 0, tol.Width) {
			return 0, Flip{}, false
		}
		for _, e := range [2]End{Front, Back} {
			if !near(oh.Width(e, oLevel), ch.Width(flip.end(e), cLevel), tol.Width) {
				return 0, Flip{}, false
			}
		}
		return face, flip, true
	}
	return 0, Flip{}, false
}

// Side names one of the eight neighbor slots around a hull.
type Side uint8

const (
	SideFront Side = iota
	SideFrontTop
	SideFrontBottom
	SideTop
	SideBottom
	SideBack
	SideBackTop
	SideBackBottom
)

// Sides lists every side.
var Sides = []Side{
	SideFront, SideFrontTop, SideFrontBottom, SideTop,
	SideBottom, SideBack, SideBackTop, SideBackBottom,
}

var sideNames = [...]string{
	"front", "front-top", "front-bottom", "top",
	"bottom", "back", "back-top", "back-bottom",
}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return fmt.Sprintf("side(%d)", s)
}

func endSide(e End) Side {
	if e == Front {
		return SideFront
	}
	return SideBack
}

func cornerSide(e End, l Level) Side {
	switch {
	case e == Front && l == Top:
		return SideFrontTop
	case e == Front:
		return SideFrontBottom
	case l == Top:
		return SideBackTop
	}
	return SideBackBottom
}

var faceSides = map[geom.Face]Side{
	geom.FaceFront:  SideFront,
	geom.FaceBack:   SideBack,
	geom.FaceTop:    SideTop,
	geom.FaceBottom: SideBottom,
}

// AdjacentWithCorners extends Adjacent with the diagonal neighbors reached
// through the front and back neighbors. Corner flips compose both hops, and
// corners are labelled top or bottom as seen from origin.
func AdjacentWithCorners(origin Segment, candidates []Segment, tol Tolerance) map[Side]Neighbor {
	direct := Adjacent(origin, candidates, tol)
	out := make(map[Side]Neighbor, 8)
	for f, n := range direct {
		out[faceSides[f]] = n
	}

	for _, e := range [2]End{Front, Back} {
		n, ok := out[endSide(e)]
		if !ok {
			continue
		}
		hop := Adjacent(candidates[n.Index], candidates, tol)
		for _, l := range [2]Level{Top, Bottom} {
			face := geom.FaceTop
			if l == Bottom {
				face = geom.FaceBottom
			}
			c, ok := hop[face]
			if !ok {
				continue
			}
			side := cornerSide(e, n.Flip.level(l))
			if _, taken := out[side]; taken {
				continue
			}
			out[side] = Neighbor{Index: c.Index, Flip: n.Flip.Xor(c.Flip)}
		}
	}
	return out
}
