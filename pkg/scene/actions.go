package scene

import (
	"errors"
	"fmt"
	"slices"

	"cogentcore.org/core/math32"
	"github.com/google/uuid"

	"github.com/chazu/keelwright/pkg/geom"
	"github.com/chazu/keelwright/pkg/hull"
	"github.com/chazu/keelwright/pkg/kernel"
	"github.com/chazu/keelwright/pkg/part"
	"github.com/chazu/keelwright/pkg/smartmove"
	"github.com/chazu/keelwright/pkg/tessellate"
	"github.com/chazu/keelwright/pkg/touch"
)

// MoveRelative moves every selected part by dir·mult, with dir taken in the
// camera frame snapped to the nearest quarter turns.
func (s *Scene) MoveRelative(dir math32.Vector3, mult float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selectedParts()
	if len(sel) == 0 {
		return ErrNoSelection
	}
	d := geom.Rotate(dir, geom.SnapDegrees(s.camera.Rotation)).MulScalar(mult)
	for _, p := range sel {
		p.Pose.Position = p.Pose.Position.Add(d)
	}
	s.log.Debug("move relative", "parts", len(sel), "offset", d)
	return nil
}

// SmartMove snaps every selected part along its face normal closest to the
// camera-relative dir. step picks the step-th nearest alignment with the
// parts around it.
func (s *Scene) SmartMove(dir math32.Vector3, step int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selectedParts()
	if len(sel) == 0 {
		return ErrNoSelection
	}
	_, boxes := s.colliders()
	world := geom.Rotate(dir, s.camera.Rotation)
	tol := s.cfg.ProximityTolerance()

	moves := make([]math32.Vector3, len(sel))
	for i, p := range sel {
		box := part.Collider(p, s.reg)
		face := geom.NearestFace(box, world)
		adj := tol.Nearby(box, boxes, false, false)
		off := smartmove.Offset(box, boxes, adj, face, step, s.cfg.Move.Reach)
		moves[i] = box.Axis(face).MulScalar(off)
		s.log.Debug("smart move", "part", p.ID, "face", face, "offset", off)
	}
	for i, p := range sel {
		p.Pose.Position = p.Pose.Position.Add(moves[i])
	}
	return nil
}

// SetCurrent runs SetAttribute on the current attribute.
func (s *Scene) SetCurrent(value float32) error {
	return s.SetAttribute(s.CurrentAttribute(), value)
}

// SetAttribute assigns attr on the selection.
//
// In group-edit mode every selected part is shifted by the difference
// between value and the selection's average. Otherwise, with edit-near on,
// hull attributes are propagated to the hulls continuing each selected
// hull. Otherwise every selected part is set directly.
//
// Parts that do not have attr are skipped and reported with part.ErrNotHull
// once the rest of the selection is updated.
func (s *Scene) SetAttribute(attr part.Attribute, value float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selectedParts()
	if len(sel) == 0 {
		return ErrNoSelection
	}

	var err error
	ha, isHull := attr.Hull()
	switch {
	case s.settings.GroupEdit:
		err = s.groupSet(sel, attr, value)
	case s.settings.EditNear && isHull:
		err = s.nearSet(sel, ha, value)
	default:
		for _, p := range sel {
			err = errors.Join(err, p.Set(attr, value))
		}
	}

	for _, p := range sel {
		if p.Hull == nil {
			continue
		}
		for _, w := range hull.Validate(p.Hull) {
			s.log.Warn("hull out of range", "part", p.ID, "warning", w.String())
		}
	}
	s.log.Debug("set attribute", "attribute", attr, "value", value, "parts", len(sel))
	return err
}

func (s *Scene) groupSet(sel []*part.Part, attr part.Attribute, value float32) error {
	var (
		sum  float32
		have []*part.Part
		err  error
	)
	for _, p := range sel {
		v, gerr := p.Get(attr)
		if gerr != nil {
			err = errors.Join(err, gerr)
			continue
		}
		sum += v
		have = append(have, p)
	}
	if len(have) == 0 {
		return err
	}
	diff := value - sum/float32(len(have))
	for _, p := range have {
		v, _ := p.Get(attr)
		err = errors.Join(err, p.Set(attr, v+diff))
	}
	return err
}

type edit struct {
	origin    *part.Part
	adj       map[hull.Side]hull.Neighbor
	neighbors []*part.Part
}

// nearSet finds the neighbors of every selected hull before writing
// anything, then applies the edits with propagation.
func (s *Scene) nearSet(sel []*part.Part, attr hull.Attribute, value float32) error {
	var all []*part.Part
	for _, p := range s.parts {
		if p.IsHull() {
			all = append(all, p)
		}
	}
	segs := make([]hull.Segment, len(all))
	for i, p := range all {
		h := *p.Hull
		segs[i] = hull.Segment{Box: part.Collider(p, s.reg), Hull: &h}
	}
	tol := s.cfg.HullTolerance()

	var (
		edits []edit
		err   error
	)
	for _, p := range sel {
		if !p.IsHull() {
			err = errors.Join(err, fmt.Errorf("scene: %s: %w", p.ID, part.ErrNotHull))
			continue
		}
		var (
			origin     hull.Segment
			candidates []hull.Segment
			neighbors  []*part.Part
		)
		for i, q := range all {
			if q == p {
				origin = segs[i]
				continue
			}
			candidates = append(candidates, segs[i])
			neighbors = append(neighbors, q)
		}
		edits = append(edits, edit{
			origin:    p,
			adj:       hull.AdjacentWithCorners(origin, candidates, tol),
			neighbors: neighbors,
		})
	}

	for _, e := range edits {
		hulls := make([]*hull.Hull, len(e.neighbors))
		for i, q := range e.neighbors {
			hulls[i] = q.Hull
		}
		touched := hull.Propagate(e.origin.Hull, attr, value, e.adj, hulls)
		for _, i := range touched {
			s.log.Debug("propagated", "from", e.origin.ID, "to", e.neighbors[i].ID, "attribute", attr)
		}
	}
	return err
}

// placement is the distance from the camera along dir at which p first
// touches the hovered part, capped at the spawn distance. The moving
// collider starts at the camera.
func (s *Scene) placement(p *part.Part, hovered uuid.UUID, dir math32.Vector3) float32 {
	dist := s.cfg.Move.SpawnDistance
	if hovered == uuid.Nil {
		return dist
	}
	target, err := s.find(hovered)
	if err != nil {
		return dist
	}
	a := part.Collider(p, s.reg)
	a.Center = s.camera.Position.Add(s.reg.MustLookup(p.Type).CenterOffset)
	b := part.Collider(target, s.reg)
	return math32.Min(dist, touch.Distance(a, b, dir))
}

// Spawn places a new part of type typ in front of the camera, against the
// hovered part when one is given. With selectNew the selection is replaced
// by the new part and floating placement starts.
func (s *Scene) Spawn(typ int, hovered uuid.UUID, selectNew bool) (*part.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.reg.Lookup(typ); err != nil {
		return nil, fmt.Errorf("scene: spawn: %w", err)
	}
	p := part.New(typ)
	dir := s.camera.Forward()
	dist := s.placement(p, hovered, dir)
	p.Pose.Position = s.camera.Position.Add(dir.MulScalar(dist))
	if _, err := s.add(p); err != nil {
		return nil, err
	}
	if selectNew {
		s.selected = nil
		s.selectOne(p.ID)
		s.settings.Floating = true
	}
	s.log.Debug("spawn", "part", p.ID, "type", typ, "distance", dist)
	return clone(p), nil
}

// Drag moves the floating selection to where the latest selected part,
// thrown from the camera towards target, first touches the hovered part.
// It reports whether anything moved.
func (s *Scene) Drag(target math32.Vector3, hovered uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settings.Floating || hovered == uuid.Nil {
		return false, nil
	}
	sel := s.selectedParts()
	if len(sel) == 0 {
		return false, ErrNoSelection
	}
	if slices.Contains(s.selected, hovered) {
		return false, nil
	}
	lead, err := s.find(s.latest)
	if err != nil {
		lead = sel[0]
	}
	other, err := s.find(hovered)
	if err != nil {
		return false, err
	}

	dir := target.Sub(s.camera.Position).Normal()
	a := part.Collider(lead, s.reg)
	a.Center = s.camera.Position.Add(s.reg.MustLookup(lead.Type).CenterOffset)
	d := touch.Distance(a, part.Collider(other, s.reg), dir)
	if math32.IsInf(d, 1) {
		return false, nil
	}
	pos := s.camera.Position.Add(dir.MulScalar(d))
	for _, p := range sel {
		p.Pose.Position = pos
	}
	s.log.Debug("drag", "parts", len(sel), "distance", d)
	return true, nil
}

// Copy replaces the clipboard with copies of the selected parts and returns
// how many were copied.
func (s *Scene) Copy() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selectedParts()
	if len(sel) == 0 {
		return 0, ErrNoSelection
	}
	s.clipboard = s.clipboard[:0]
	for _, p := range sel {
		s.clipboard = append(s.clipboard, clone(p))
	}
	return len(sel), nil
}

// Paste inserts copies of the clipboard with fresh ids, moved so that their
// centroid lands along dir from the camera. A single pasted part is placed
// against the hovered part. A zero dir uses the camera's forward direction.
func (s *Scene) Paste(dir math32.Vector3, hovered uuid.UUID, selectPasted bool) ([]*part.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clipboard) == 0 {
		return nil, ErrEmptyClipboard
	}
	if dir == (math32.Vector3{}) {
		dir = s.camera.Forward()
	}
	dir = dir.Normal()

	var centroid math32.Vector3
	for _, p := range s.clipboard {
		centroid = centroid.Add(p.Pose.Position)
	}
	centroid = centroid.DivScalar(float32(len(s.clipboard)))

	dist := s.cfg.Move.SpawnDistance
	if len(s.clipboard) == 1 {
		dist = s.placement(s.clipboard[0], hovered, dir)
	}
	shift := s.camera.Position.Add(dir.MulScalar(dist)).Sub(centroid)

	if selectPasted {
		s.selected = nil
		s.latest = uuid.Nil
	}
	out := make([]*part.Part, 0, len(s.clipboard))
	for _, c := range s.clipboard {
		p := clone(c)
		p.ID = uuid.New()
		p.Pose.Position = p.Pose.Position.Add(shift)
		if _, err := s.add(p); err != nil {
			return nil, err
		}
		if selectPasted {
			s.selectOne(p.ID)
		}
		out = append(out, clone(p))
	}
	s.log.Debug("paste", "parts", len(out), "distance", dist)
	return out, nil
}

// Meshes tessellates every part.
func (s *Scene) Meshes(k kernel.Kernel) ([]*kernel.Mesh, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tessellate.Tessellate(s.parts, s.reg, k, s.cfg.Mesh.Resolution)
}
