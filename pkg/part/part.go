// Package part models editor parts: their pose, their type and, for
// adjustable hulls, their shape.
package part

import (
	"errors"

	"cogentcore.org/core/math32"
	"github.com/google/uuid"

	"github.com/chazu/keelwright/pkg/geom"
	"github.com/chazu/keelwright/pkg/hull"
)

// HullType is the type id of adjustable hull segments.
const HullType = 0

var (
	// ErrNotHull is returned for hull attributes of rigid parts.
	ErrNotHull = errors.New("part is not an adjustable hull")
	// ErrUnknownType is returned for type ids missing from the registry.
	ErrUnknownType = errors.New("unknown part type")
)

// Pose places a part. Rotation holds Euler angles in degrees.
type Pose struct {
	Position math32.Vector3 `yaml:"position"`
	Rotation math32.Vector3 `yaml:"rotation"`
	Scale    math32.Vector3 `yaml:"scale"`
}

// Quat returns the rotation of p.
func (p Pose) Quat() math32.Quat {
	return geom.EulerQuat(p.Rotation)
}

// Part is one placed part. Hull is nil for rigid parts.
type Part struct {
	ID    uuid.UUID  `yaml:"id"`
	Type  int        `yaml:"type"`
	Armor int        `yaml:"armor"`
	Pose  Pose       `yaml:"pose"`
	Hull  *hull.Hull `yaml:"hull,omitempty"`
}

// New returns a part of type typ at the origin with unit scale and a
// fresh id. Hull parts start with an all-zero shape.
func New(typ int) *Part {
	p := &Part{
		ID:   uuid.New(),
		Type: typ,
		Pose: Pose{Scale: math32.Vec3(1, 1, 1)},
	}
	if typ == HullType {
		p.Hull = &hull.Hull{}
	}
	return p
}

// IsHull reports whether p is an adjustable hull.
func (p *Part) IsHull() bool { return p.Hull != nil }

// Collider returns the oriented box used for every spatial query on p.
func Collider(p *Part, reg *Registry) geom.OrientedBox {
	md := reg.MustLookup(p.Type)
	q := p.Pose.Quat()
	offset := geom.Hadamard(md.CenterOffset, p.Pose.Scale).MulQuat(q)
	half := geom.Hadamard(md.HalfExtent, p.Pose.Scale)
	if p.Hull != nil {
		half.Y = p.Hull.Height / 2 * p.Pose.Scale.Y
		half.Z = p.Hull.Length / 2 * p.Pose.Scale.Z
	}
	return geom.OrientedBox{
		Center:      p.Pose.Position.Add(offset),
		Orientation: q,
		Half:        half,
	}
}
