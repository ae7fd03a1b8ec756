package hull

// Propagate sets attr on origin and copies the resulting seam values onto
// the neighbors in adj so that every seam stays continuous. Neighbor
// indices refer to hulls. It returns the indices written, in write order,
// each at most once. Only the neighbors in adj are visited.
//
// Width and spread edits change both levels of one end of origin. The
// front or back neighbor on that end takes both levels, the corners on
// that end take the level they touch, and the top and bottom neighbors
// take the level of their shared edge. Height and roundness go to the
// front and back neighbors, length to the top and bottom ones.
func Propagate(origin *Hull, attr Attribute, value float32, adj map[Side]Neighbor, hulls []*Hull) []int {
	origin.Set(attr, value)
	snap := *origin

	var touched []int
	seen := make(map[int]bool)
	write := func(side Side, fn func(h *Hull, f Flip)) {
		n, ok := adj[side]
		if !ok || n.Index < 0 || n.Index >= len(hulls) || hulls[n.Index] == nil || hulls[n.Index] == origin {
			return
		}
		fn(hulls[n.Index], n.Flip)
		if !seen[n.Index] {
			seen[n.Index] = true
			touched = append(touched, n.Index)
		}
	}

	if s, ok := attr.end(); ok {
		write(endSide(s), func(h *Hull, f Flip) {
			for _, l := range [2]Level{Bottom, Top} {
				h.SetWidth(f.end(s.Other()), f.level(l), snap.Width(s, l))
			}
		})
		for _, l := range [2]Level{Top, Bottom} {
			write(cornerSide(s, l), func(h *Hull, f Flip) {
				h.SetWidth(f.end(s.Other()), f.level(l.Other()), snap.Width(s, l))
			})
		}
		write(SideTop, func(h *Hull, f Flip) {
			h.SetWidth(f.end(s), f.level(Bottom), snap.Width(s, Top))
		})
		write(SideBottom, func(h *Hull, f Flip) {
			h.SetWidth(f.end(s), f.level(Top), snap.Width(s, Bottom))
		})
		return touched
	}

	switch attr {
	case TopRoundness, BottomRoundness:
		l := Top
		if attr == BottomRoundness {
			l = Bottom
		}
		for _, side := range [2]Side{SideFront, SideBack} {
			write(side, func(h *Hull, f Flip) {
				if f.level(l) == Top {
					h.TopRoundness = snap.Roundness(l)
				} else {
					h.BottomRoundness = snap.Roundness(l)
				}
			})
		}
	case Height:
		for _, side := range [2]Side{SideFront, SideBack} {
			write(side, func(h *Hull, _ Flip) { h.Height = snap.Height })
		}
	case Length:
		for _, side := range [2]Side{SideTop, SideBottom} {
			write(side, func(h *Hull, _ Flip) { h.Length = snap.Length })
		}
	}
	return touched
}
