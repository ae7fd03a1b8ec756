package geom

import "cogentcore.org/core/math32"

// corners returns the four corners of the rectangle center±u±v.
func corners(center, u, v math32.Vector3) [4]math32.Vector3 {
	return [4]math32.Vector3{
		center.Add(u).Add(v),
		center.Add(u).Sub(v),
		center.Add(v).Sub(u),
		center.Sub(u.Add(v)),
	}
}

// allOnOneSide reports whether every point lies strictly outside the slab
// |(p-center)·axiŝ| <= |axis|, and all on the same side of it.
func allOnOneSide(points [4]math32.Vector3, center, axis math32.Vector3) bool {
	n := axis.Normal()
	bound := axis.Length()
	c := center.Dot(n)

	first := points[0].Dot(n) - c
	if math32.Abs(first) < bound {
		return false
	}
	side := first > 0
	for _, p := range points[1:] {
		d := p.Dot(n) - c
		if math32.Abs(d) < bound {
			return false
		}
		if (d > 0) != side {
			return false
		}
	}
	return true
}

// RectsOverlap runs a separating-axis test between two rectangles lying in
// a shared plane. Each rectangle is its center plus two half-extent vectors.
func RectsOverlap(aCenter, aU, aV, bCenter, bU, bV math32.Vector3) bool {
	a := corners(aCenter, aU, aV)
	b := corners(bCenter, bU, bV)
	switch {
	case allOnOneSide(a, bCenter, bU),
		allOnOneSide(a, bCenter, bV),
		allOnOneSide(b, aCenter, aU),
		allOnOneSide(b, aCenter, aV):
		return false
	}
	return true
}

// Extend lengthens v by d while keeping its direction.
func Extend(v math32.Vector3, d float32) math32.Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar((l + d) / l)
}
