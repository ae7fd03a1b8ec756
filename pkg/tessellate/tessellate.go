// Package tessellate produces one render mesh per part using a geometry
// kernel for rigid parts and the hull loft for adjustable hulls.
package tessellate

import (
	"fmt"

	"cogentcore.org/core/math32"

	"github.com/chazu/keelwright/pkg/geom"
	"github.com/chazu/keelwright/pkg/hull"
	"github.com/chazu/keelwright/pkg/kernel"
	"github.com/chazu/keelwright/pkg/part"
)

// Tessellate returns one world-space mesh per part, in part order, each
// named by its part id. The parts are not modified.
func Tessellate(parts []*part.Part, reg *part.Registry, k kernel.Kernel, resolution int) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		var (
			mesh *kernel.Mesh
			err  error
		)
		if p.IsHull() {
			mesh, err = handleHull(p, resolution)
		} else {
			mesh, err = handleRigid(k, reg, p)
		}
		if err != nil {
			return nil, fmt.Errorf("tessellate: part %s: %w", p.ID, err)
		}
		mesh.PartName = p.ID.String()
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// handleHull lofts the hull in local space and moves it into place before
// shading, so normals follow the posed surface.
func handleHull(p *part.Part, resolution int) (*kernel.Mesh, error) {
	positions, indices := hull.Loft(*p.Hull, resolution)
	if len(indices) == 0 {
		return nil, fmt.Errorf("resolution %d is too low", resolution)
	}
	q := p.Pose.Quat()
	for i := 0; i+2 < len(positions); i += 3 {
		v := math32.Vec3(positions[i], positions[i+1], positions[i+2])
		v = geom.Hadamard(v, p.Pose.Scale).MulQuat(q).Add(p.Pose.Position)
		positions[i], positions[i+1], positions[i+2] = v.X, v.Y, v.Z
	}
	return kernel.FlatShade(positions, indices), nil
}

// handleRigid draws the part's collider as a box proxy.
func handleRigid(k kernel.Kernel, reg *part.Registry, p *part.Part) (*kernel.Mesh, error) {
	md, err := reg.Lookup(p.Type)
	if err != nil {
		return nil, err
	}
	size := geom.Hadamard(md.HalfExtent, p.Pose.Scale).MulScalar(2)
	offset := geom.Hadamard(md.CenterOffset, p.Pose.Scale)

	solid := k.Box(float64(size.X), float64(size.Y), float64(size.Z))
	if offset != (math32.Vector3{}) {
		solid = k.Translate(solid, float64(offset.X), float64(offset.Y), float64(offset.Z))
	}
	rot := p.Pose.Rotation
	if rot != (math32.Vector3{}) {
		solid = k.Rotate(solid, float64(rot.X), float64(rot.Y), float64(rot.Z))
	}
	pos := p.Pose.Position
	if pos != (math32.Vector3{}) {
		solid = k.Translate(solid, float64(pos.X), float64(pos.Y), float64(pos.Z))
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed: %w", err)
	}
	return mesh, nil
}
