package hull

import (
	"cogentcore.org/core/math32"

	"github.com/chazu/keelwright/pkg/kernel"
)

// DefaultResolution is the number of samples around each cross-section.
const DefaultResolution = 24

// Loft builds the closed solid of h in local space: the front section at
// z=+Length/2, the back section at z=-Length/2. Each section is a ring of
// resolution vertices followed by its centroid, front first. Triangles are
// wound counter-clockwise seen from outside. A resolution below 3 yields
// an empty mesh.
func Loft(h Hull, resolution int) (positions []float32, indices []uint32) {
	if resolution < 3 {
		return nil, nil
	}
	res := uint32(resolution)
	ring := res + 1

	positions = make([]float32, 0, int(ring)*2*3)
	positions = append(positions, section(h, resolution, true)...)
	positions = append(positions, section(h, resolution, false)...)

	front := capFan(res, 0)
	back := capFan(res, ring)
	for i, j := 0, len(back)-1; i < j; i, j = i+1, j-1 {
		back[i], back[j] = back[j], back[i]
	}

	indices = make([]uint32, 0, len(front)*2+int(res)*6)
	indices = append(indices, front...)
	indices = append(indices, back...)
	for i := uint32(1); i < res; i++ {
		indices = append(indices,
			i+ring-1, i, i-1,
			i+ring-1, i+ring, i,
		)
	}
	indices = append(indices,
		2*res, 0, res-1,
		2*res, ring, 0,
	)
	return positions, indices
}

// capFan fans a ring of res vertices starting at base to the centroid that
// follows them.
func capFan(res, base uint32) []uint32 {
	c := base + res
	out := make([]uint32, 0, res*3)
	for i := uint32(1); i < res; i++ {
		out = append(out, base+i-1, base+i, c)
	}
	return append(out, base+res-1, base, c)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// section samples one cross-section. The ring is a rounded trapezoid: the
// width grows from Width at the bottom to Width+Spread at the top, and
// roundness blends each half between a square and a circle.
func section(h Hull, resolution int, front bool) []float32 {
	hw, hs := h.BackWidth/2, h.BackSpread/2
	hm, off := h.Height/2, float32(0)
	z := -h.Length / 2
	if front {
		hw, hs = h.FrontWidth/2, h.FrontSpread/2
		hm, off = h.HeightScale*h.Height/2, h.HeightOffset*h.Height
		z = h.Length / 2
	}
	maxY := h.Height / 2

	out := make([]float32, 0, (resolution+1)*3)
	var sumX, sumY float32
	for i := 0; i < resolution; i++ {
		theta := 2 * math32.Pi * float32(i) / float32(resolution)
		sin, cos := math32.Sin(theta), math32.Cos(theta)

		round := h.BottomRoundness
		if sin > 0 {
			round = h.TopRoundness
		}
		mult := lerp(1/math32.Max(math32.Abs(sin), math32.Abs(cos)), 1, round)

		x := cos * mult * lerp(hw, hw+hs, sin*mult/2+0.5)
		y := clamp(sin*mult*hm+off, -maxY, maxY)
		out = append(out, x, y, z)
		sumX += x
		sumY += y
	}
	n := float32(resolution)
	return append(out, sumX/n, sumY/n, z)
}

// BuildMesh lofts h and flat-shades it for rendering.
func BuildMesh(h Hull, resolution int) *kernel.Mesh {
	return kernel.FlatShade(Loft(h, resolution))
}
