// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. It renders the box proxies
// drawn for rigid parts.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/keelwright/pkg/kernel"
)

var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells is the marching cubes resolution along the longest axis.
const DefaultMeshCells = 40

type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a kernel meshing with the given number of marching cubes
// cells. Non-positive values select DefaultMeshCells.
func New(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box of the given size centered at the origin, matching the
// center-based colliders of parts.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D(%g, %g, %g): %v", x, y, z, err))
	}
	return wrap(s)
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles in degrees, applying Z, then X,
// then Y, the same order part poses use.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateY(yRad).Mul(sdf.RotateX(xRad)).Mul(sdf.RotateZ(zRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a flat-shaded triangle mesh using marching
// cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(unwrap(s), renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: solid produced no triangles at %d cells", k.cells)
	}

	numVerts := len(triangles) * 3
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		UVs:      make([]float32, numVerts*2),
		Indices:  make([]uint32, 0, numVerts),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m, nil
}
