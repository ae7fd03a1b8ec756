// Package scene holds the editor state (parts, selection, clipboard,
// camera and settings) and the actions that change it.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"cogentcore.org/core/math32"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/chazu/keelwright/pkg/config"
	"github.com/chazu/keelwright/pkg/geom"
	"github.com/chazu/keelwright/pkg/part"
)

var (
	// ErrNoSelection is returned by actions on the selection when nothing is
	// selected.
	ErrNoSelection = errors.New("no parts selected")
	// ErrEmptyClipboard is returned by Paste before anything was copied.
	ErrEmptyClipboard = errors.New("clipboard is empty")
	// ErrNotFound is returned for unknown part ids.
	ErrNotFound = errors.New("part not found")
)

// Camera is the editor viewpoint. It looks down its local -Z axis.
type Camera struct {
	Position math32.Vector3 `yaml:"position"`
	Rotation math32.Vector3 `yaml:"rotation"`
}

// Forward returns the unit viewing direction.
func (c Camera) Forward() math32.Vector3 {
	return geom.Rotate(math32.Vec3(0, 0, -1), c.Rotation)
}

// Settings are the editor toggles.
type Settings struct {
	EditNear  bool `yaml:"edit_near"`
	GroupEdit bool `yaml:"group_edit"`
	Floating  bool `yaml:"floating"`
	WrapCycle bool `yaml:"wrap_cycle"`
}

// Scene is safe for concurrent use. Every action holds the scene lock for
// its whole duration.
type Scene struct {
	mu sync.Mutex

	parts     []*part.Part
	selected  []uuid.UUID
	latest    uuid.UUID
	clipboard []*part.Part
	camera    Camera
	current   part.Attribute
	settings  Settings

	reg *part.Registry
	cfg *config.Config
	log *slog.Logger
}

// New returns an empty scene. A nil registry, config or logger selects the
// defaults.
func New(reg *part.Registry, cfg *config.Config, logger *slog.Logger) *Scene {
	if reg == nil {
		reg = part.DefaultRegistry()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scene{
		reg: reg,
		cfg: cfg,
		log: logger,
		settings: Settings{
			EditNear:  cfg.Editor.EditNear,
			GroupEdit: cfg.Editor.GroupEdit,
			Floating:  cfg.Editor.Floating,
			WrapCycle: cfg.Editor.WrapCycle,
		},
	}
}

// Registry returns the part registry.
func (s *Scene) Registry() *part.Registry { return s.reg }

// Config returns the scene configuration.
func (s *Scene) Config() *config.Config { return s.cfg }

func clone(p *part.Part) *part.Part {
	var c part.Part
	if err := copier.CopyWithOption(&c, p, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("scene: copy part %s: %v", p.ID, err))
	}
	return &c
}

// Add inserts a part. A part without an id gets a fresh one.
func (s *Scene) Add(p *part.Part) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(p)
}

func (s *Scene) add(p *part.Part) (uuid.UUID, error) {
	if _, err := s.reg.Lookup(p.Type); err != nil {
		return uuid.Nil, fmt.Errorf("scene: add: %w", err)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if s.index(p.ID) >= 0 {
		return uuid.Nil, fmt.Errorf("scene: add: duplicate part id %s", p.ID)
	}
	s.parts = append(s.parts, p)
	return p.ID, nil
}

// Remove deletes parts and drops them from the selection.
func (s *Scene) Remove(ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts = slices.DeleteFunc(s.parts, func(p *part.Part) bool { return slices.Contains(ids, p.ID) })
	s.selected = slices.DeleteFunc(s.selected, func(id uuid.UUID) bool { return slices.Contains(ids, id) })
	if slices.Contains(ids, s.latest) {
		s.latest = uuid.Nil
	}
}

func (s *Scene) index(id uuid.UUID) int {
	return slices.IndexFunc(s.parts, func(p *part.Part) bool { return p.ID == id })
}

func (s *Scene) find(id uuid.UUID) (*part.Part, error) {
	i := s.index(id)
	if i < 0 {
		return nil, fmt.Errorf("scene: %s: %w", id, ErrNotFound)
	}
	return s.parts[i], nil
}

// Part returns a copy of the part with id.
func (s *Scene) Part(id uuid.UUID) (*part.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return clone(p), nil
}

// Parts returns copies of every part in insertion order.
func (s *Scene) Parts() []*part.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*part.Part, len(s.parts))
	for i, p := range s.parts {
		out[i] = clone(p)
	}
	return out
}

// Len returns the number of parts.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.parts)
}

// Select adds parts to the selection. The last id becomes the latest
// selected part.
func (s *Scene) Select(ids ...uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, err := s.find(id); err != nil {
			return err
		}
	}
	for _, id := range ids {
		s.selectOne(id)
	}
	return nil
}

func (s *Scene) selectOne(id uuid.UUID) {
	if !slices.Contains(s.selected, id) {
		s.selected = append(s.selected, id)
	}
	s.latest = id
}

// Deselect removes ids from the selection, or clears it when no ids are
// given.
func (s *Scene) Deselect(ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ids) == 0 {
		s.selected = nil
		s.latest = uuid.Nil
		return
	}
	s.selected = slices.DeleteFunc(s.selected, func(id uuid.UUID) bool { return slices.Contains(ids, id) })
	if slices.Contains(ids, s.latest) {
		s.latest = uuid.Nil
	}
}

// Selected returns the selected ids in selection order.
func (s *Scene) Selected() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selected)
}

// Latest returns the most recently selected part, or uuid.Nil.
func (s *Scene) Latest() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// selectedParts returns the selected parts in scene order.
func (s *Scene) selectedParts() []*part.Part {
	var out []*part.Part
	for _, p := range s.parts {
		if slices.Contains(s.selected, p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// Camera returns the camera.
func (s *Scene) Camera() Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

// SetCamera moves the camera.
func (s *Scene) SetCamera(c Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = c
}

// Settings returns the editor settings.
func (s *Scene) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings replaces the editor settings.
func (s *Scene) SetSettings(st Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = st
	s.log.Debug("settings changed", "edit_near", st.EditNear, "group_edit", st.GroupEdit, "floating", st.Floating)
}

// CurrentAttribute returns the attribute edited by SetCurrent.
func (s *Scene) CurrentAttribute() part.Attribute {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetCurrentAttribute moves the attribute cursor to a.
func (s *Scene) SetCurrentAttribute(a part.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = a
}

// CycleAttribute moves the attribute cursor by offset, wrapping when the
// WrapCycle setting is on.
func (s *Scene) CycleAttribute(offset int) part.Attribute {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.current.Cycle(offset, s.settings.WrapCycle)
	return s.current
}

// Collider returns the collider of the part with id.
func (s *Scene) Collider(id uuid.UUID) (geom.OrientedBox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.find(id)
	if err != nil {
		return geom.OrientedBox{}, err
	}
	return part.Collider(p, s.reg), nil
}

// Colliders returns the collider of every part, in part order, with the
// matching ids.
func (s *Scene) Colliders() ([]uuid.UUID, []geom.OrientedBox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, boxes := s.colliders()
	return ids, boxes
}

func (s *Scene) colliders() ([]uuid.UUID, []geom.OrientedBox) {
	ids := make([]uuid.UUID, len(s.parts))
	boxes := make([]geom.OrientedBox, len(s.parts))
	for i, p := range s.parts {
		ids[i] = p.ID
		boxes[i] = part.Collider(p, s.reg)
	}
	return ids, boxes
}
