package proximity

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/keelwright/pkg/geom"
)

func unit(x, y, z float32) geom.OrientedBox {
	return geom.NewBox(math32.Vec3(x, y, z), math32.Vec3(1, 1, 1))
}

func TestNearbyAllFacesPresent(t *testing.T) {
	adj := Nearby(unit(0, 0, 0), nil, true, true)
	require.Len(t, adj, 6)
	for _, f := range geom.Faces {
		assert.NotNil(t, adj[f])
		assert.Empty(t, adj[f])
	}
}

func TestNearbyUnchecked(t *testing.T) {
	origin := unit(0, 0, 0)
	adj := Nearby(origin, []geom.OrientedBox{unit(10, 3, 0)}, false, false)

	for _, f := range geom.Faces {
		require.Len(t, adj[f], 1, "face %s", f)
		assert.Equal(t, Contact{Index: 0, Face: f.Opposite()}, adj[f][0])
	}
}

func TestNearbyChecks(t *testing.T) {
	origin := unit(0, 0, 0)
	candidates := []geom.OrientedBox{
		origin,           // skipped, identical
		unit(2, 0, 0),    // flush on the right
		unit(2, 5, 0),    // coplanar, no overlap
		unit(4, 0, 0),    // overlapping footprint, gap
		unit(0, 2.5, 0),  // above, gap of 0.5
		unit(0, 0, -2),   // flush behind
		unit(2, 2.05, 0), // coplanar, shares an edge within the extension
	}

	adj := Nearby(origin, candidates, true, true)
	assert.Equal(t, []Contact{{Index: 1, Face: geom.FaceLeft}, {Index: 6, Face: geom.FaceLeft}}, adj[geom.FaceRight])
	assert.Equal(t, []Contact{{Index: 5, Face: geom.FaceFront}}, adj[geom.FaceBack])
	assert.Empty(t, adj[geom.FaceTop])
	assert.Empty(t, adj[geom.FaceLeft])

	sepOnly := Nearby(origin, candidates, true, false)
	assert.Equal(t, []Contact{
		{Index: 1, Face: geom.FaceLeft},
		{Index: 2, Face: geom.FaceLeft},
		{Index: 6, Face: geom.FaceLeft},
	}, sepOnly[geom.FaceRight])
}

func TestNearbyRotatedCandidate(t *testing.T) {
	origin := unit(0, 0, 0)
	// Turned a quarter about Y, the candidate's front face looks back at
	// origin's right face.
	c := unit(2, 0, 0).Rotated(geom.EulerQuat(math32.Vec3(0, -90, 0)))

	adj := Nearby(origin, []geom.OrientedBox{c}, true, true)
	require.Len(t, adj[geom.FaceRight], 1)
	assert.Equal(t, geom.FaceFront, adj[geom.FaceRight][0].Face)
}

func TestCustomTolerance(t *testing.T) {
	origin := unit(0, 0, 0)
	c := []geom.OrientedBox{unit(2.05, 0, 0)}

	assert.Empty(t, Nearby(origin, c, true, false)[geom.FaceRight])

	loose := Tolerance{Separation: 0.1, Overlap: 0.1}
	assert.Len(t, loose.Nearby(origin, c, true, false)[geom.FaceRight], 1)
}
