// Package hull models adjustable hull segments: a solid lofted between a
// front and a back cross-section, each with a bottom width and a spread
// that widens it towards the top.
package hull

import (
	"fmt"
	"strings"
)

// Hull holds the shape parameters of one segment.
type Hull struct {
	Length          float32 `yaml:"length"`
	Height          float32 `yaml:"height"`
	FrontWidth      float32 `yaml:"front_width"`
	BackWidth       float32 `yaml:"back_width"`
	FrontSpread     float32 `yaml:"front_spread"`
	BackSpread      float32 `yaml:"back_spread"`
	TopRoundness    float32 `yaml:"top_roundness"`
	BottomRoundness float32 `yaml:"bottom_roundness"`
	HeightScale     float32 `yaml:"height_scale"`
	HeightOffset    float32 `yaml:"height_offset"`
}

// End selects a cross-section.
type End uint8

const (
	Front End = iota
	Back
)

// Other returns the opposite end.
func (e End) Other() End { return 1 - e }

func (e End) String() string {
	if e == Front {
		return "front"
	}
	return "back"
}

// Level selects the bottom or top edge of a cross-section.
type Level uint8

const (
	Bottom Level = iota
	Top
)

// Other returns the opposite level.
func (l Level) Other() Level { return 1 - l }

func (l Level) String() string {
	if l == Bottom {
		return "bottom"
	}
	return "top"
}

// Width returns the width of the cross-section at end e and level l. The
// top width is the bottom width plus the spread.
func (h *Hull) Width(e End, l Level) float32 {
	w, s := h.FrontWidth, h.FrontSpread
	if e == Back {
		w, s = h.BackWidth, h.BackSpread
	}
	if l == Top {
		return w + s
	}
	return w
}

// SetWidth sets the width at end e and level l while keeping the width at
// the other level.
func (h *Hull) SetWidth(e End, l Level, v float32) {
	w, s := &h.FrontWidth, &h.FrontSpread
	if e == Back {
		w, s = &h.BackWidth, &h.BackSpread
	}
	if l == Top {
		*s = v - *w
		return
	}
	top := *w + *s
	*w = v
	*s = top - v
}

// Roundness returns the roundness of level l.
func (h *Hull) Roundness(l Level) float32 {
	if l == Top {
		return h.TopRoundness
	}
	return h.BottomRoundness
}

// Attribute names one editable hull parameter.
type Attribute uint8

const (
	Length Attribute = iota
	Height
	FrontWidth
	BackWidth
	FrontSpread
	BackSpread
	TopRoundness
	BottomRoundness
	HeightScale
	HeightOffset
)

// Attributes lists every attribute in declaration order.
var Attributes = []Attribute{
	Length, Height, FrontWidth, BackWidth, FrontSpread, BackSpread,
	TopRoundness, BottomRoundness, HeightScale, HeightOffset,
}

var attributeNames = [...]string{
	"length", "height", "front-width", "back-width", "front-spread",
	"back-spread", "top-roundness", "bottom-roundness", "height-scale",
	"height-offset",
}

func (a Attribute) String() string {
	if int(a) < len(attributeNames) {
		return attributeNames[a]
	}
	return fmt.Sprintf("attribute(%d)", a)
}

// ParseAttribute accepts kebab-case or snake_case names.
func ParseAttribute(name string) (Attribute, error) {
	n := strings.ReplaceAll(strings.ToLower(name), "_", "-")
	for i, an := range attributeNames {
		if an == n {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("hull: unknown attribute %q", name)
}

// end reports which cross-section a width or spread attribute belongs to.
func (a Attribute) end() (End, bool) {
	switch a {
	case FrontWidth, FrontSpread:
		return Front, true
	case BackWidth, BackSpread:
		return Back, true
	}
	return 0, false
}

func (h *Hull) field(a Attribute) *float32 {
	switch a {
	case Length:
		return &h.Length
	case Height:
		return &h.Height
	case FrontWidth:
		return &h.FrontWidth
	case BackWidth:
		return &h.BackWidth
	case FrontSpread:
		return &h.FrontSpread
	case BackSpread:
		return &h.BackSpread
	case TopRoundness:
		return &h.TopRoundness
	case BottomRoundness:
		return &h.BottomRoundness
	case HeightScale:
		return &h.HeightScale
	case HeightOffset:
		return &h.HeightOffset
	}
	panic(fmt.Sprintf("hull: invalid attribute %d", a))
}

// Get returns the value of attribute a.
func (h *Hull) Get(a Attribute) float32 { return *h.field(a) }

// Set assigns attribute a.
func (h *Hull) Set(a Attribute, v float32) { *h.field(a) = v }
