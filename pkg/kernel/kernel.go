// Package kernel holds the render mesh type and the solid-modelling
// interface used to build proxy geometry for parts that have no
// procedural mesh of their own.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and tessellates solids.
type Kernel interface {
	// Box returns a box of the given full size centered at the origin.
	Box(x, y, z float64) Solid

	Translate(s Solid, x, y, z float64) Solid
	// Rotate applies Euler angles in degrees: Z first, then X, then Y.
	Rotate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}
