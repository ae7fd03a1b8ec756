package engine

import (
	"errors"
	"fmt"
	"strings"

	"cogentcore.org/core/math32"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/google/uuid"

	"github.com/chazu/keelwright/pkg/geom"
	"github.com/chazu/keelwright/pkg/hull"
	"github.com/chazu/keelwright/pkg/part"
	"github.com/chazu/keelwright/pkg/scene"
	"github.com/chazu/keelwright/pkg/touch"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites console source before zygomys sees it:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no globals and never collide with user variables.
//
//  2. smart-move becomes smart_move. zygomys reads a hyphen inside an
//     identifier as subtraction.
//
//  3. ; line comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPartRef names a part of the scene.
type sexpPartRef struct {
	id uuid.UUID
}

func (r *sexpPartRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(partref %q)", r.id.String())
}
func (r *sexpPartRef) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec math32.Vector3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// keyword with no value that follows is mapped to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat32(s zygo.Sexp) (float32, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float32(v.Val), nil
	case *zygo.SexpFloat:
		return float32(v.Val), nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toBool accepts true/false as well as :on/:off and :yes/:no.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return false, err
	}
	switch name {
	case "on", "yes", "true":
		return true, nil
	case "off", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("expected :on or :off, got %q", name)
}

func toVec3(s zygo.Sexp) (math32.Vector3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return math32.Vector3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toPartID accepts a part reference or a uuid string.
func toPartID(s zygo.Sexp) (uuid.UUID, error) {
	switch v := s.(type) {
	case *sexpPartRef:
		return v.id, nil
	case *zygo.SexpStr:
		id, err := uuid.Parse(v.S)
		if err != nil {
			return uuid.Nil, fmt.Errorf("expected part id: %w", err)
		}
		return id, nil
	}
	return uuid.Nil, fmt.Errorf("expected part reference, got %T (%s)", s, s.SexpString(nil))
}

func toPartIDs(args []zygo.Sexp) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for i, a := range args {
		id, err := toPartID(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toAttribute(s zygo.Sexp) (part.Attribute, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	return part.ParseAttribute(name)
}

func toFace(s zygo.Sexp) (geom.Face, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	return geom.ParseFace(name)
}

func refs(ids []uuid.UUID) zygo.Sexp {
	items := make([]zygo.Sexp, len(ids))
	for i, id := range ids {
		items[i] = &sexpPartRef{id: id}
	}
	return zygo.MakeList(items)
}

// defaultHull is the shape of hulls created without explicit dimensions.
var defaultHull = hull.Hull{Length: 1, Height: 1, FrontWidth: 1, BackWidth: 1, HeightScale: 1}

// applyPose reads :at, :rotation and :scale into p.
func applyPose(pa kwArgs, p *part.Pose) error {
	for key, dst := range map[string]*math32.Vector3{
		"at":       &p.Position,
		"rotation": &p.Rotation,
		"scale":    &p.Scale,
	} {
		v, ok := pa.kw[key]
		if !ok {
			continue
		}
		vec, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = vec
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin func(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the console builtins into env. Every builtin
// acts on s.
//
// Source code must be preprocessed with preprocessSource() so that
// :keyword tokens and kebab-case names are recognized.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	for name, fn := range builtins {
		display := strings.ReplaceAll(name, "_", "-")
		env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			res, err := fn(s, args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
			}
			return res, nil
		})
	}
}

var builtins = map[string]builtin{
	"vec3":         builtinVec3,
	"hull":         builtinHull,
	"part":         builtinPart,
	"spawn":        builtinSpawn,
	"remove":       builtinRemove,
	"select":       builtinSelect,
	"deselect":     builtinDeselect,
	"camera":       builtinCamera,
	"move":         builtinMove,
	"smart_move":   builtinSmartMove,
	"drag":         builtinDrag,
	"set_attr":     builtinSetAttr,
	"attr":         builtinAttr,
	"current_attr": builtinCurrentAttr,
	"position":     builtinPosition,
	"touch":        builtinTouch,
	"nearby":       builtinNearby,
	"copy":         builtinCopy,
	"paste":        builtinPaste,
	"setting":      builtinSetting,
}

// (vec3 1 2 3)
func builtinVec3(_ *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("requires exactly 3 arguments, got %d", len(args))
	}
	var c [3]float32
	for i, a := range args {
		f, err := toFloat32(a)
		if err != nil {
			return nil, fmt.Errorf("%c: %w", "xyz"[i], err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: math32.Vec3(c[0], c[1], c[2])}, nil
}

// (hull :at (vec3 0 0 0) :rotation (vec3 0 90 0) :length 2 :front-width 3)
func builtinHull(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	p := part.New(part.HullType)
	*p.Hull = defaultHull
	if err := applyPose(pa, &p.Pose); err != nil {
		return nil, err
	}
	for _, a := range hull.Attributes {
		v, ok := pa.kw[a.String()]
		if !ok {
			continue
		}
		f, err := toFloat32(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a, err)
		}
		p.Hull.Set(a, f)
	}
	id, err := s.Add(p)
	if err != nil {
		return nil, err
	}
	return &sexpPartRef{id: id}, nil
}

// (part 7 :at (vec3 0 0 0))
func builtinPart(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return nil, errors.New("requires a part type")
	}
	typ, err := toInt(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}
	p := part.New(typ)
	if p.IsHull() {
		*p.Hull = defaultHull
	}
	if err := applyPose(pa, &p.Pose); err != nil {
		return nil, err
	}
	id, err := s.Add(p)
	if err != nil {
		return nil, err
	}
	return &sexpPartRef{id: id}, nil
}

// (spawn 7 :hovered ref :select false)
func builtinSpawn(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return nil, errors.New("requires a part type")
	}
	typ, err := toInt(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}
	hovered, selectNew, err := hoveredAndSelect(pa)
	if err != nil {
		return nil, err
	}
	p, err := s.Spawn(typ, hovered, selectNew)
	if err != nil {
		return nil, err
	}
	return &sexpPartRef{id: p.ID}, nil
}

func hoveredAndSelect(pa kwArgs) (uuid.UUID, bool, error) {
	hovered, sel := uuid.Nil, true
	if v, ok := pa.kw["hovered"]; ok {
		id, err := toPartID(v)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("hovered: %w", err)
		}
		hovered = id
	}
	if v, ok := pa.kw["select"]; ok {
		b, err := toBool(v)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("select: %w", err)
		}
		sel = b
	}
	return hovered, sel, nil
}

// (remove ref ...)
func builtinRemove(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	ids, err := toPartIDs(args)
	if err != nil {
		return nil, err
	}
	s.Remove(ids...)
	return zygo.SexpNull, nil
}

// (select ref ...)
func builtinSelect(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	ids, err := toPartIDs(args)
	if err != nil {
		return nil, err
	}
	if err := s.Select(ids...); err != nil {
		return nil, err
	}
	return refs(s.Selected()), nil
}

// (deselect) clears the selection; (deselect ref ...) drops single parts.
func builtinDeselect(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	ids, err := toPartIDs(args)
	if err != nil {
		return nil, err
	}
	s.Deselect(ids...)
	return refs(s.Selected()), nil
}

// (camera :at (vec3 0 2 10) :rotation (vec3 -10 0 0)) returns the camera
// position.
func builtinCamera(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	c := s.Camera()
	for key, dst := range map[string]*math32.Vector3{"at": &c.Position, "rotation": &c.Rotation} {
		v, ok := pa.kw[key]
		if !ok {
			continue
		}
		vec, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		*dst = vec
	}
	s.SetCamera(c)
	return &sexpVec3{vec: c.Position}, nil
}

func dirAndNumber(args []zygo.Sexp, what string, def float32) (math32.Vector3, float32, error) {
	if len(args) < 1 || len(args) > 2 {
		return math32.Vector3{}, 0, fmt.Errorf("requires a direction and an optional %s", what)
	}
	dir, err := toVec3(args[0])
	if err != nil {
		return math32.Vector3{}, 0, fmt.Errorf("direction: %w", err)
	}
	n := def
	if len(args) == 2 {
		if n, err = toFloat32(args[1]); err != nil {
			return math32.Vector3{}, 0, fmt.Errorf("%s: %w", what, err)
		}
	}
	return dir, n, nil
}

// (move (vec3 1 0 0) 0.5)
func builtinMove(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	dir, mult, err := dirAndNumber(args, "multiplier", 1)
	if err != nil {
		return nil, err
	}
	return zygo.SexpNull, s.MoveRelative(dir, mult)
}

// (smart-move (vec3 0 0 -1) 2)
func builtinSmartMove(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	dir, step, err := dirAndNumber(args, "step", 0)
	if err != nil {
		return nil, err
	}
	return zygo.SexpNull, s.SmartMove(dir, int(step))
}

// (drag (vec3 0 0 -20) ref) reports whether the selection moved.
func builtinDrag(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, errors.New("requires a target and a hovered part")
	}
	target, err := toVec3(args[0])
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	hovered, err := toPartID(args[1])
	if err != nil {
		return nil, fmt.Errorf("hovered: %w", err)
	}
	moved, err := s.Drag(target, hovered)
	if err != nil {
		return nil, err
	}
	return &zygo.SexpBool{Val: moved}, nil
}

// (set-attr :front-width 3) or (set-attr 3) for the current attribute.
func builtinSetAttr(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	switch len(args) {
	case 1:
		v, err := toFloat32(args[0])
		if err != nil {
			return nil, err
		}
		return zygo.SexpNull, s.SetCurrent(v)
	case 2:
		a, err := toAttribute(args[0])
		if err != nil {
			return nil, err
		}
		v, err := toFloat32(args[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a, err)
		}
		return zygo.SexpNull, s.SetAttribute(a, v)
	}
	return nil, errors.New("requires a value, optionally preceded by an attribute")
}

// (attr ref :height)
func builtinAttr(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, errors.New("requires a part and an attribute")
	}
	id, err := toPartID(args[0])
	if err != nil {
		return nil, err
	}
	a, err := toAttribute(args[1])
	if err != nil {
		return nil, err
	}
	p, err := s.Part(id)
	if err != nil {
		return nil, err
	}
	v, err := p.Get(a)
	if err != nil {
		return nil, err
	}
	return &zygo.SexpFloat{Val: float64(v)}, nil
}

// (current-attr) reads the cursor, (current-attr :height) moves it and
// (current-attr -1) cycles it.
func builtinCurrentAttr(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) > 1 {
		return nil, errors.New("takes at most one argument")
	}
	if len(args) == 1 {
		if off, err := toInt(args[0]); err == nil {
			s.CycleAttribute(off)
		} else {
			a, err := toAttribute(args[0])
			if err != nil {
				return nil, err
			}
			s.SetCurrentAttribute(a)
		}
	}
	return &zygo.SexpStr{S: s.CurrentAttribute().String()}, nil
}

// (position ref)
func builtinPosition(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return nil, errors.New("requires a part")
	}
	id, err := toPartID(args[0])
	if err != nil {
		return nil, err
	}
	p, err := s.Part(id)
	if err != nil {
		return nil, err
	}
	return &sexpVec3{vec: p.Pose.Position}, nil
}

// (touch a b (vec3 1 0 0)) is how far a travels along the direction before
// it meets b.
func builtinTouch(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return nil, errors.New("requires two parts and a direction")
	}
	ids, err := toPartIDs(args[:2])
	if err != nil {
		return nil, err
	}
	dir, err := toVec3(args[2])
	if err != nil {
		return nil, fmt.Errorf("direction: %w", err)
	}
	a, err := s.Collider(ids[0])
	if err != nil {
		return nil, err
	}
	b, err := s.Collider(ids[1])
	if err != nil {
		return nil, err
	}
	return &zygo.SexpFloat{Val: float64(touch.Distance(a, b, dir))}, nil
}

// (nearby ref :face :right) lists the parts sitting flush against ref, on
// one face or on any.
func builtinNearby(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return nil, errors.New("requires a part")
	}
	id, err := toPartID(pa.positional[0])
	if err != nil {
		return nil, err
	}
	faces := geom.Faces[:]
	if v, ok := pa.kw["face"]; ok {
		f, err := toFace(v)
		if err != nil {
			return nil, fmt.Errorf("face: %w", err)
		}
		faces = []geom.Face{f}
	}
	origin, err := s.Collider(id)
	if err != nil {
		return nil, err
	}
	ids, boxes := s.Colliders()
	adj := s.Config().ProximityTolerance().Nearby(origin, boxes, true, true)

	var out []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, f := range faces {
		for _, c := range adj[f] {
			if cid := ids[c.Index]; cid != id && !seen[cid] {
				seen[cid] = true
				out = append(out, cid)
			}
		}
	}
	return refs(out), nil
}

// (copy) returns the number of parts copied.
func builtinCopy(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	n, err := s.Copy()
	if err != nil {
		return nil, err
	}
	return &zygo.SexpInt{Val: int64(n)}, nil
}

// (paste (vec3 0 0 -1) :hovered ref :select true)
func builtinPaste(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var dir math32.Vector3
	if len(pa.positional) > 0 {
		v, err := toVec3(pa.positional[0])
		if err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		dir = v
	}
	hovered, sel, err := hoveredAndSelect(pa)
	if err != nil {
		return nil, err
	}
	pasted, err := s.Paste(dir, hovered, sel)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(pasted))
	for i, p := range pasted {
		ids[i] = p.ID
	}
	return refs(ids), nil
}

// (setting :edit-near :off) sets a toggle, (setting :edit-near) reads it.
func builtinSetting(s *scene.Scene, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, errors.New("requires a setting name and an optional value")
	}
	name, err := toKeywordString(args[0])
	if err != nil {
		return nil, err
	}
	st := s.Settings()
	var field *bool
	switch name {
	case "edit-near":
		field = &st.EditNear
	case "group-edit":
		field = &st.GroupEdit
	case "floating":
		field = &st.Floating
	case "wrap-cycle":
		field = &st.WrapCycle
	default:
		return nil, fmt.Errorf("unknown setting %q", name)
	}
	if len(args) == 2 {
		v, err := toBool(args[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		*field = v
		s.SetSettings(st)
	}
	return &zygo.SexpBool{Val: *field}, nil
}
