package hull

import "fmt"

// Warning describes a hull value outside its meaningful range. Such hulls
// are still accepted and meshed.
type Warning struct {
	Attribute Attribute
	Value     float32
	Message   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s = %g: %s", w.Attribute, w.Value, w.Message)
}

// Validate reports negative dimensions, top widths below zero and
// roundness outside [0, 1].
func Validate(h *Hull) []Warning {
	var warnings []Warning
	add := func(a Attribute, msg string) {
		warnings = append(warnings, Warning{Attribute: a, Value: h.Get(a), Message: msg})
	}

	for _, a := range []Attribute{Length, Height, FrontWidth, BackWidth, HeightScale} {
		if h.Get(a) < 0 {
			add(a, "must not be negative")
		}
	}
	if h.Width(Front, Top) < 0 {
		add(FrontSpread, "top width at the front is negative")
	}
	if h.Width(Back, Top) < 0 {
		add(BackSpread, "top width at the back is negative")
	}
	for _, a := range []Attribute{TopRoundness, BottomRoundness} {
		if v := h.Get(a); v < 0 || v > 1 {
			add(a, "roundness should lie in [0, 1]")
		}
	}
	return warnings
}
