package hull

import (
	"math/rand"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/keelwright/pkg/geom"
)

func block() Hull {
	return Hull{Length: 1, Height: 4, FrontWidth: 2, BackWidth: 2, HeightScale: 1}
}

func seg(h *Hull, center, rot math32.Vector3) Segment {
	half := math32.Vec3(1.5, h.Height/2, h.Length/2)
	return Segment{
		Box:  geom.NewBox(center, half).Rotated(geom.EulerQuat(rot)),
		Hull: h,
	}
}

func TestAttributeNames(t *testing.T) {
	for _, a := range Attributes {
		got, err := ParseAttribute(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	got, err := ParseAttribute("front_width")
	require.NoError(t, err)
	assert.Equal(t, FrontWidth, got)

	_, err = ParseAttribute("beam")
	assert.Error(t, err)
}

func TestGetSet(t *testing.T) {
	var h Hull
	for i, a := range Attributes {
		h.Set(a, float32(i+1))
	}
	for i, a := range Attributes {
		assert.Equal(t, float32(i+1), h.Get(a), a.String())
	}
	assert.Equal(t, float32(3), h.FrontWidth)
	assert.Equal(t, float32(10), h.HeightOffset)
}

func TestSetWidthKeepsOtherLevel(t *testing.T) {
	h := Hull{FrontWidth: 2, FrontSpread: 1}

	h.SetWidth(Front, Bottom, 1.5)
	assert.InDelta(t, 1.5, h.Width(Front, Bottom), 1e-6)
	assert.InDelta(t, 3, h.Width(Front, Top), 1e-6)

	h.SetWidth(Front, Top, 4)
	assert.InDelta(t, 1.5, h.Width(Front, Bottom), 1e-6)
	assert.InDelta(t, 4, h.Width(Front, Top), 1e-6)

	assert.Zero(t, h.Width(Back, Top))
}

func TestAdjacentFrontBack(t *testing.T) {
	a, b := block(), block()
	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	other := seg(&b, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 0))

	assert.Equal(t, map[geom.Face]Neighbor{geom.FaceFront: {Index: 0}}, Adjacent(origin, []Segment{other}, DefaultTolerance))
	assert.Equal(t, map[geom.Face]Neighbor{geom.FaceBack: {Index: 0}}, Adjacent(other, []Segment{origin}, DefaultTolerance))
}

func TestAdjacentRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *Hull)
		center math32.Vector3
		rot    math32.Vector3
	}{
		{"gap", nil, math32.Vec3(0, 0, 1.2), math32.Vec3(0, 0, 0)},
		{"lateral offset", nil, math32.Vec3(0.5, 0, 1), math32.Vec3(0, 0, 0)},
		{"vertical offset", nil, math32.Vec3(0, 0.5, 1), math32.Vec3(0, 0, 0)},
		{"turned sideways", nil, math32.Vec3(0, 0, 1), math32.Vec3(0, 90, 0)},
		{"width step", func(h *Hull) { h.BackWidth = 2.1 }, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 0)},
		{"spread step", func(h *Hull) { h.BackSpread = 0.5 }, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 0)},
		{"roundness step", func(h *Hull) { h.TopRoundness = 0.3 }, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 0)},
		{"taller", func(h *Hull) { h.Height = 5 }, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 0)},
		{"rounded top seam", func(h *Hull) { h.BottomRoundness = 0.5 }, math32.Vec3(0, 4, 0), math32.Vec3(0, 0, 0)},
		{"coincident", nil, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := block(), block()
			if tt.mutate != nil {
				tt.mutate(&b)
			}
			got := Adjacent(seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0)),
				[]Segment{seg(&b, tt.center, tt.rot)}, DefaultTolerance)
			assert.Empty(t, got)
		})
	}
}

func TestAdjacentSkipsRigidCandidates(t *testing.T) {
	a := block()
	rigid := Segment{Box: geom.NewBox(math32.Vec3(0, 0, 1), math32.Vec3(1.5, 2, 0.5))}
	assert.Empty(t, Adjacent(seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0)), []Segment{rigid}, DefaultTolerance))
}

func TestAdjacentFirstMatchWins(t *testing.T) {
	a, b, c := block(), block(), block()
	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	got := Adjacent(origin, []Segment{
		seg(&b, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 0)),
		seg(&c, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 0)),
	}, DefaultTolerance)
	assert.Equal(t, map[geom.Face]Neighbor{geom.FaceFront: {Index: 0}}, got)
}

func TestAdjacentSymmetric(t *testing.T) {
	tests := []struct {
		name string
		rot  math32.Vector3
		flip Flip
	}{
		{"aligned", math32.Vec3(0, 0, 0), Flip{}},
		{"turned around", math32.Vec3(0, 180, 0), Flip{Horizontal: true}},
		{"upside down", math32.Vec3(0, 0, 180), Flip{Vertical: true}},
		{"both", math32.Vec3(180, 0, 0), Flip{Horizontal: true, Vertical: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := block(), block()
			origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
			other := seg(&b, math32.Vec3(0, 0, 1), tt.rot)

			fwd := Adjacent(origin, []Segment{other}, DefaultTolerance)
			rev := Adjacent(other, []Segment{origin}, DefaultTolerance)
			require.Len(t, fwd, 1)
			require.Len(t, rev, 1)

			for fa, na := range fwd {
				for fb, nb := range rev {
					assert.Equal(t, tt.flip, na.Flip)
					assert.Equal(t, na.Flip, nb.Flip)
					sum := origin.Box.Axis(fa).Add(other.Box.Axis(fb))
					assert.InDelta(t, 0, sum.Length(), 1e-4, "seam faces %s and %s", fa, fb)
					if !tt.flip.Horizontal {
						assert.Equal(t, fa.Opposite(), fb)
					}
				}
			}
		})
	}
}

func TestAdjacentTopBottom(t *testing.T) {
	a, c := block(), block()
	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	above := seg(&c, math32.Vec3(0, 4, 0), math32.Vec3(0, 0, 0))

	assert.Equal(t, map[geom.Face]Neighbor{geom.FaceTop: {Index: 0}}, Adjacent(origin, []Segment{above}, DefaultTolerance))
	assert.Equal(t, map[geom.Face]Neighbor{geom.FaceBottom: {Index: 0}}, Adjacent(above, []Segment{origin}, DefaultTolerance))
}

func TestPropagateFrontWidth(t *testing.T) {
	a, b := block(), block()
	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	candidates := []Segment{seg(&b, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 0))}

	adj := AdjacentWithCorners(origin, candidates, DefaultTolerance)
	require.Equal(t, map[Side]Neighbor{SideFront: {Index: 0}}, adj)

	touched := Propagate(&a, FrontWidth, 3, adj, []*Hull{&b})
	assert.Equal(t, []int{0}, touched)
	assert.Equal(t, float32(3), a.FrontWidth)
	assert.InDelta(t, 3, b.BackWidth, 1e-6)
	assert.InDelta(t, 0, b.BackSpread, 1e-6)
	assert.Equal(t, float32(2), b.FrontWidth, "far end untouched")

	assert.Equal(t, map[geom.Face]Neighbor{geom.FaceFront: {Index: 0}}, Adjacent(origin, candidates, DefaultTolerance))
}

func TestPropagateHorizontalFlip(t *testing.T) {
	a, b := block(), block()
	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	candidates := []Segment{seg(&b, math32.Vec3(0, 0, 1), math32.Vec3(0, 180, 0))}

	adj := AdjacentWithCorners(origin, candidates, DefaultTolerance)
	require.Equal(t, map[Side]Neighbor{SideFront: {Index: 0, Flip: Flip{Horizontal: true}}}, adj)

	Propagate(&a, FrontSpread, 1, adj, []*Hull{&b})
	assert.InDelta(t, 2, b.FrontWidth, 1e-6)
	assert.InDelta(t, 1, b.FrontSpread, 1e-6)
	assert.Zero(t, b.BackSpread)

	assert.Len(t, Adjacent(origin, candidates, DefaultTolerance), 1)
}

func TestPropagateVerticalFlip(t *testing.T) {
	a := block()
	a.FrontSpread = 1
	a.TopRoundness = 0.5
	b := block()
	b.BackWidth, b.BackSpread = 3, -1
	b.BottomRoundness = 0.5

	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	candidates := []Segment{seg(&b, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 180))}

	adj := AdjacentWithCorners(origin, candidates, DefaultTolerance)
	require.Equal(t, map[Side]Neighbor{SideFront: {Index: 0, Flip: Flip{Vertical: true}}}, adj)

	Propagate(&a, BottomRoundness, 0.25, adj, []*Hull{&b})
	assert.InDelta(t, 0.25, b.TopRoundness, 1e-6)
	assert.InDelta(t, 0.5, b.BottomRoundness, 1e-6)

	Propagate(&a, FrontWidth, 2.5, adj, []*Hull{&b})
	assert.InDelta(t, 2.5, b.Width(Back, Top), 1e-6)
	assert.InDelta(t, 3.5, b.Width(Back, Bottom), 1e-6)

	assert.Len(t, Adjacent(origin, candidates, DefaultTolerance), 1)
}

func TestPropagateTopNeighbor(t *testing.T) {
	a, c := block(), block()
	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	candidates := []Segment{seg(&c, math32.Vec3(0, 4, 0), math32.Vec3(0, 0, 0))}

	adj := AdjacentWithCorners(origin, candidates, DefaultTolerance)
	require.Equal(t, map[Side]Neighbor{SideTop: {Index: 0}}, adj)

	Propagate(&a, FrontWidth, 3, adj, []*Hull{&c})
	assert.InDelta(t, 3, c.Width(Front, Bottom), 1e-6)
	assert.InDelta(t, 2, c.Width(Front, Top), 1e-6)
	assert.InDelta(t, 2, c.Width(Back, Bottom), 1e-6)

	assert.Len(t, Adjacent(origin, candidates, DefaultTolerance), 1)

	Propagate(&a, Length, 1.5, adj, []*Hull{&c})
	assert.Equal(t, float32(1.5), c.Length)
}

func TestPropagateCorner(t *testing.T) {
	a, b, d := block(), block(), block()
	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	candidates := []Segment{
		seg(&b, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 0)),
		seg(&d, math32.Vec3(0, 4, 1), math32.Vec3(0, 0, 0)),
	}
	hulls := []*Hull{&b, &d}

	adj := AdjacentWithCorners(origin, candidates, DefaultTolerance)
	require.Equal(t, map[Side]Neighbor{
		SideFront:    {Index: 0},
		SideFrontTop: {Index: 1},
	}, adj)

	touched := Propagate(&a, FrontWidth, 3, adj, hulls)
	assert.ElementsMatch(t, []int{0, 1}, touched)
	assert.InDelta(t, 3, d.Width(Back, Bottom), 1e-6)
	assert.InDelta(t, 2, d.Width(Back, Top), 1e-6)

	// The front neighbor and the corner still continue each other.
	hop := Adjacent(candidates[0], candidates, DefaultTolerance)
	assert.Equal(t, map[geom.Face]Neighbor{geom.FaceTop: {Index: 1}}, hop)
}

func TestPropagateCornerThroughFlippedHop(t *testing.T) {
	a, b, d := block(), block(), block()
	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	// b is upside down, so the hull on its top sits below origin's level.
	candidates := []Segment{
		seg(&b, math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 180)),
		seg(&d, math32.Vec3(0, -4, 1), math32.Vec3(0, 0, 0)),
	}

	adj := AdjacentWithCorners(origin, candidates, DefaultTolerance)
	require.Contains(t, adj, SideFrontBottom)
	assert.Equal(t, 1, adj[SideFrontBottom].Index)
	assert.Equal(t, Flip{}, adj[SideFrontBottom].Flip)
	assert.NotContains(t, adj, SideFrontTop)
}

func TestPropagateChainKeepsSeams(t *testing.T) {
	turns := []struct {
		name string
		rot  math32.Vector3
	}{
		{"straight", math32.Vec3(0, 0, 0)},
		{"reversed", math32.Vec3(0, 180, 0)},
		{"upside down", math32.Vec3(0, 0, 180)},
		{"both", math32.Vec3(180, 0, 0)},
	}
	attrs := []Attribute{FrontWidth, BackWidth, FrontSpread, BackSpread}

	for _, mid := range turns {
		for _, end := range turns {
			t.Run(mid.name+"/"+end.name, func(t *testing.T) {
				hulls := []*Hull{new(Hull), new(Hull), new(Hull)}
				for _, h := range hulls {
					*h = block()
				}
				segs := []Segment{
					seg(hulls[0], math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0)),
					seg(hulls[1], math32.Vec3(0, 0, 1), mid.rot),
					seg(hulls[2], math32.Vec3(0, 0, 2), end.rot),
				}

				rng := rand.New(rand.NewSource(7))
				for i := 0; i < 40; i++ {
					origin := rng.Intn(len(hulls))
					attr := attrs[rng.Intn(len(attrs))]
					value := 1 + 2*rng.Float32()
					if attr == FrontSpread || attr == BackSpread {
						value -= 2
					}

					adj := AdjacentWithCorners(segs[origin], segs, DefaultTolerance)
					Propagate(hulls[origin], attr, value, adj, hulls)

					require.Len(t, Adjacent(segs[0], segs, DefaultTolerance), 1,
						"edit %d: %s = %g on hull %d", i, attr, value, origin)
					require.Len(t, Adjacent(segs[1], segs, DefaultTolerance), 2,
						"edit %d: %s = %g on hull %d", i, attr, value, origin)
					require.Len(t, Adjacent(segs[2], segs, DefaultTolerance), 1,
						"edit %d: %s = %g on hull %d", i, attr, value, origin)
				}
			})
		}
	}
}

func TestPropagateIdempotent(t *testing.T) {
	a, b, d := block(), block(), block()
	origin := seg(&a, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 0))
	candidates := []Segment{
		seg(&b, math32.Vec3(0, 0, 1), math32.Vec3(0, 180, 0)),
		seg(&d, math32.Vec3(0, 4, 0), math32.Vec3(0, 0, 0)),
	}
	hulls := []*Hull{&b, &d}
	adj := AdjacentWithCorners(origin, candidates, DefaultTolerance)

	Propagate(&a, BackSpread, 0.4, adj, hulls)
	Propagate(&a, FrontWidth, 2.2, adj, hulls)
	first := []Hull{a, b, d}
	Propagate(&a, FrontWidth, 2.2, adj, hulls)
	assert.Equal(t, first, []Hull{a, b, d})
}

func TestPropagateIgnoresShapeOnlyAttributes(t *testing.T) {
	a, b := block(), block()
	adj := map[Side]Neighbor{SideFront: {Index: 0}, SideTop: {Index: 0}}

	assert.Empty(t, Propagate(&a, HeightScale, 0.5, adj, []*Hull{&b}))
	assert.Empty(t, Propagate(&a, HeightOffset, 0.1, adj, []*Hull{&b}))
	assert.Equal(t, block(), b)
	assert.Equal(t, float32(0.5), a.HeightScale)
}

func TestPropagateHeight(t *testing.T) {
	a, b, c := block(), block(), block()
	adj := map[Side]Neighbor{SideBack: {Index: 0}, SideTop: {Index: 1}}

	touched := Propagate(&a, Height, 6, adj, []*Hull{&b, &c})
	assert.Equal(t, []int{0}, touched)
	assert.Equal(t, float32(6), b.Height)
	assert.Equal(t, float32(4), c.Height)
}

func TestLoftClosed(t *testing.T) {
	h := Hull{
		Length: 1, Height: 4.7, FrontWidth: 0.25, BackWidth: 2.65,
		FrontSpread: 0.765, BackSpread: 1.02, HeightScale: 0.94, HeightOffset: 0.02,
		BottomRoundness: 1,
	}
	positions, indices := Loft(h, DefaultResolution)
	require.Len(t, positions, (DefaultResolution+1)*2*3)
	require.Len(t, indices, DefaultResolution*4*3)

	edges := make(map[[2]uint32]int)
	for i := 0; i < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		edges[[2]uint32{a, b}]++
		edges[[2]uint32{b, c}]++
		edges[[2]uint32{c, a}]++
	}
	for e, n := range edges {
		assert.Equal(t, 1, n, "edge %v", e)
		assert.Equal(t, 1, edges[[2]uint32{e[1], e[0]}], "reverse of edge %v", e)
	}
}

func TestLoftSquareSection(t *testing.T) {
	positions, _ := Loft(block(), 8)

	vertex := func(i int) math32.Vector3 {
		return math32.Vec3(positions[i*3], positions[i*3+1], positions[i*3+2])
	}
	// With no roundness the section is the full rectangle.
	assert.InDelta(t, 1, vertex(0).X, 1e-5)
	assert.InDelta(t, 0, vertex(0).Y, 1e-5)
	assert.InDelta(t, 1, vertex(1).X, 1e-5)
	assert.InDelta(t, 2, vertex(1).Y, 1e-5)
	assert.InDelta(t, 0.5, vertex(1).Z, 1e-5)
	assert.InDelta(t, -1, vertex(5).X, 1e-5)
	assert.InDelta(t, -2, vertex(5).Y, 1e-5)

	centroid := vertex(8)
	assert.InDelta(t, 0, centroid.X, 1e-5)
	assert.InDelta(t, 0, centroid.Y, 1e-5)
	assert.InDelta(t, -0.5, vertex(17).Z, 1e-5)
}

func TestLoftLowResolution(t *testing.T) {
	positions, indices := Loft(block(), 2)
	assert.Empty(t, positions)
	assert.Empty(t, indices)
	assert.True(t, BuildMesh(block(), 0).IsEmpty())
}

func TestBuildMesh(t *testing.T) {
	m := BuildMesh(block(), DefaultResolution)
	assert.Equal(t, DefaultResolution*4, m.TriangleCount())
	assert.Equal(t, DefaultResolution*4*3, m.VertexCount())
	assert.Len(t, m.Normals, len(m.Vertices))
	assert.Len(t, m.UVs, m.VertexCount()*2)
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(&Hull{Length: 1, Height: 1, FrontWidth: 1, BackWidth: 1, TopRoundness: 1}))

	h := block()
	h.Length = -1
	h.BackSpread = -3
	h.TopRoundness = 1.5
	got := Validate(&h)
	require.Len(t, got, 3)
	assert.Equal(t, Length, got[0].Attribute)
	assert.Equal(t, BackSpread, got[1].Attribute)
	assert.Equal(t, TopRoundness, got[2].Attribute)
	assert.Contains(t, got[2].String(), "top-roundness")
}
