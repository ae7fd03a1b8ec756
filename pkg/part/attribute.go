package part

import (
	"fmt"
	"strings"

	"github.com/chazu/keelwright/pkg/hull"
)

// Attribute is one numeric field of a part that the editor can change.
type Attribute uint8

const (
	PositionX Attribute = iota
	PositionY
	PositionZ
	RotationX
	RotationY
	RotationZ
	ScaleX
	ScaleY
	ScaleZ
	Armor
	firstHull
)

var baseNames = [...]string{
	"position-x", "position-y", "position-z",
	"rotation-x", "rotation-y", "rotation-z",
	"scale-x", "scale-y", "scale-z",
	"armor",
}

// HullAttribute wraps a hull attribute.
func HullAttribute(a hull.Attribute) Attribute {
	return firstHull + Attribute(a)
}

// NumAttributes is the number of attributes.
const NumAttributes = int(firstHull) + int(hull.HeightOffset) + 1

// Hull returns the hull attribute a stands for, if any.
func (a Attribute) Hull() (hull.Attribute, bool) {
	if a < firstHull {
		return 0, false
	}
	return hull.Attribute(a - firstHull), true
}

func (a Attribute) String() string {
	if a < firstHull {
		return baseNames[a]
	}
	if int(a) < NumAttributes {
		h, _ := a.Hull()
		return h.String()
	}
	return fmt.Sprintf("attribute(%d)", a)
}

// ParseAttribute accepts kebab-case or snake_case names.
func ParseAttribute(name string) (Attribute, error) {
	n := strings.ReplaceAll(strings.ToLower(name), "_", "-")
	for i, bn := range baseNames {
		if bn == n {
			return Attribute(i), nil
		}
	}
	h, err := hull.ParseAttribute(n)
	if err != nil {
		return 0, fmt.Errorf("part: unknown attribute %q", name)
	}
	return HullAttribute(h), nil
}

// Cycle moves the attribute cursor by offset. With wrap the cursor wraps
// around the ends, otherwise it stops at them.
func (a Attribute) Cycle(offset int, wrap bool) Attribute {
	i := int(a) + offset
	if wrap {
		i %= NumAttributes
		if i < 0 {
			i += NumAttributes
		}
		return Attribute(i)
	}
	return Attribute(max(0, min(i, NumAttributes-1)))
}

func (p *Part) vec(a Attribute) *float32 {
	v := &p.Pose.Position
	switch a / 3 {
	case 1:
		v = &p.Pose.Rotation
	case 2:
		v = &p.Pose.Scale
	}
	switch a % 3 {
	case 0:
		return &v.X
	case 1:
		return &v.Y
	}
	return &v.Z
}

// Get returns the value of a on p.
func (p *Part) Get(a Attribute) (float32, error) {
	switch {
	case a < Armor:
		return *p.vec(a), nil
	case a == Armor:
		return float32(p.Armor), nil
	}
	h, ok := a.Hull()
	if !ok || int(a) >= NumAttributes {
		return 0, fmt.Errorf("part: invalid attribute %d", a)
	}
	if p.Hull == nil {
		return 0, fmt.Errorf("part: %s: %w", a, ErrNotHull)
	}
	return p.Hull.Get(h), nil
}

// Set assigns a on p. Armor is truncated to an integer.
func (p *Part) Set(a Attribute, v float32) error {
	switch {
	case a < Armor:
		*p.vec(a) = v
		return nil
	case a == Armor:
		p.Armor = int(v)
		return nil
	}
	h, ok := a.Hull()
	if !ok || int(a) >= NumAttributes {
		return fmt.Errorf("part: invalid attribute %d", a)
	}
	if p.Hull == nil {
		return fmt.Errorf("part: %s: %w", a, ErrNotHull)
	}
	p.Hull.Set(h, v)
	return nil
}
