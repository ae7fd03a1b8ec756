package kernel

import "cogentcore.org/core/math32"

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, uvs 2 floats per vertex and indices
// 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	UVs      []float32 `json:"uvs,omitempty"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"` // id of the part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// FlatShade turns an indexed mesh into one with three unshared vertices per
// triangle, each carrying the triangle's normal and a zero uv. Degenerate
// triangles get a zero normal. Triangles referencing vertices out of range
// are dropped.
func FlatShade(positions []float32, indices []uint32) *Mesh {
	nv := uint32(len(positions) / 3)
	m := &Mesh{
		Vertices: make([]float32, 0, len(indices)*3),
		Normals:  make([]float32, 0, len(indices)*3),
		UVs:      make([]float32, 0, len(indices)*2),
		Indices:  make([]uint32, 0, len(indices)),
	}
	at := func(i uint32) math32.Vector3 {
		return math32.Vec3(positions[i*3], positions[i*3+1], positions[i*3+2])
	}
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		if a >= nv || b >= nv || c >= nv {
			continue
		}
		pa, pb, pc := at(a), at(b), at(c)
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		if l := n.Length(); l > 0 {
			n = n.DivScalar(l)
		}
		for _, p := range [3]math32.Vector3{pa, pb, pc} {
			m.Indices = append(m.Indices, uint32(m.VertexCount()))
			m.Vertices = append(m.Vertices, p.X, p.Y, p.Z)
			m.Normals = append(m.Normals, n.X, n.Y, n.Z)
			m.UVs = append(m.UVs, 0, 0)
		}
	}
	return m
}
