package engine

import (
	"strconv"
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(hull :length 2)`,
			expect: `(hull "__kw_length" 2)`,
		},
		{
			name:   "multiple keywords",
			input:  `(camera :at p :rotation r)`,
			expect: `(camera "__kw_at" p "__kw_rotation" r)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote inside string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(smart-move d)`,
			expect: `(smart_move d)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(vec3 0 -1 0)`,
			expect: `(vec3 0 -1 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:front-width`,
			expect: `"__kw_front-width"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, preprocessSource(tt.input))
		})
	}
}

// ---------------------------------------------------------------------------
// Scene builtins
// ---------------------------------------------------------------------------

func mustFloat(t *testing.T, v string) float64 {
	t.Helper()
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	require.NoError(t, err, "value %q is not a number", v)
	return f
}

func TestHullBuiltin(t *testing.T) {
	eng := newEngine()
	mustEval(t, eng, `(hull :at (vec3 1 2 3) :rotation (vec3 0 90 0) :length 2 :front-width 3)`)

	parts := eng.Scene().Parts()
	require.Len(t, parts, 1)
	p := parts[0]
	require.True(t, p.IsHull())
	assert.Equal(t, math32.Vec3(1, 2, 3), p.Pose.Position)
	assert.Equal(t, math32.Vec3(0, 90, 0), p.Pose.Rotation)
	assert.Equal(t, float32(2), p.Hull.Length)
	assert.Equal(t, float32(3), p.Hull.FrontWidth)
	assert.Equal(t, defaultHull.Height, p.Hull.Height, "unset dimensions keep their defaults")
	assert.Equal(t, defaultHull.BackWidth, p.Hull.BackWidth, "unset dimensions keep their defaults")
}

func TestEditNearScript(t *testing.T) {
	source := `
; two blocks sharing a seam along Z
(def a (hull :at (vec3 0 0 0) :height 4 :front-width 2 :back-width 2))
(def b (hull :at (vec3 0 0 1) :height 4 :front-width 2 :back-width 2))
(select a)
(set-attr :front-width 3)
(attr b :back-width)
`
	assert.Equal(t, 3.0, mustFloat(t, mustEval(t, newEngine(), source)))
}

func TestEditNearScriptFromFlippedNeighbor(t *testing.T) {
	source := `
(def a (hull :at (vec3 0 0 0) :height 4 :front-width 2 :back-width 2))
(def b (hull :at (vec3 0 0 1) :rotation (vec3 0 180 0) :height 4 :front-width 2 :back-width 2))
(select b)
(set-attr :front-spread 0.5)
(attr a :front-spread)
`
	assert.InDelta(t, 0.5, mustFloat(t, mustEval(t, newEngine(), source)), 1e-5)
}

func TestMoveAndPosition(t *testing.T) {
	v := mustEval(t, newEngine(), `
(def p (part 0 :at (vec3 0 0 0)))
(select p)
(move (vec3 1 0 0) 2)
(attr p :position-x)
`)
	assert.Equal(t, 2.0, mustFloat(t, v))
}

func TestTouchAndNearby(t *testing.T) {
	v := mustEval(t, newEngine(), `
(def a (part 0 :at (vec3 0 0 0)))
(def b (part 0 :at (vec3 3 0 0)))
(touch a b (vec3 1 0 0))
`)
	assert.InDelta(t, 2, mustFloat(t, v), 1e-4)

	v = mustEval(t, newEngine(), `
(def a (part 0 :at (vec3 0 0 0)))
(def b (part 0 :at (vec3 1 0 0)))
(> (touch a b (vec3 -1 0 0)) 1000000.0)
`)
	assert.Equal(t, "true", v, "touching parts moved apart never meet")

	eng := newEngine()
	v = mustEval(t, eng, `
(def a (part 0 :at (vec3 0 0 0)))
(def b (part 0 :at (vec3 1 0 0)))
(def c (part 0 :at (vec3 5 0 0)))
(nearby a :face :right)
`)
	parts := eng.Scene().Parts()
	assert.Contains(t, v, parts[1].ID.String(), "flush neighbor")
	assert.NotContains(t, v, parts[2].ID.String(), "distant part")
}

func TestSpawnCopyPaste(t *testing.T) {
	eng := newEngine()
	mustEval(t, eng, `
(camera :at (vec3 0 0 0))
(spawn 0)
(copy)
(paste)
`)
	s := eng.Scene()
	require.Equal(t, 2, s.Len())
	parts := s.Parts()
	assert.Equal(t, math32.Vec3(0, 0, -100), parts[0].Pose.Position)
	assert.Equal(t, []uuid.UUID{parts[1].ID}, s.Selected(), "the pasted part is selected")
	assert.True(t, s.Settings().Floating, "spawn enters floating placement")
}

func TestSettingAndCurrentAttr(t *testing.T) {
	eng := newEngine()
	mustEval(t, eng, `(setting :group-edit :on)`)
	assert.True(t, eng.Scene().Settings().GroupEdit)
	assert.Equal(t, "false", mustEval(t, eng, `(setting :edit-near :off)`))

	mustEval(t, eng, `(current-attr :front-width)`)
	assert.Equal(t, "front-width", eng.Scene().CurrentAttribute().String())
	mustEval(t, eng, `(current-attr 1)`)
	assert.Equal(t, "back-width", eng.Scene().CurrentAttribute().String())
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"vec3 arity", `(vec3 1 2)`},
		{"vec3 type", `(vec3 1 2 "z")`},
		{"unknown part type", `(part 99)`},
		{"set-attr without selection", `(set-attr :height 2)`},
		{"unknown attribute", `(def a (part 0)) (select a) (set-attr :wingspan 2)`},
		{"unknown setting", `(setting :turbo :on)`},
		{"bad toggle", `(setting :floating :maybe)`},
		{"paste before copy", `(paste)`},
		{"select unknown id", `(select "6f1c2d3e-4b5a-4c6d-8e7f-8091a2b3c4d5")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, evalErrs, err := newEngine().Evaluate(tt.source)
			require.NoError(t, err, "failures are eval errors, not fatal ones")
			assert.NotEmpty(t, evalErrs)
		})
	}
}

func TestWarnings(t *testing.T) {
	eng := newEngine()
	mustEval(t, eng, `(hull :top-roundness 2)`)
	ws := eng.Warnings()
	require.Len(t, ws, 1)
	assert.Contains(t, ws[0].Message, "top-roundness")
	assert.Equal(t, eng.Scene().Parts()[0].ID, ws[0].PartID, "the warning names the hull")
}
