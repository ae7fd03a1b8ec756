package scene

import (
	"fmt"
	"io"
	"os"

	"cogentcore.org/core/math32"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chazu/keelwright/pkg/part"
)

// Fixture is the saved form of a scene.
type Fixture struct {
	Camera    Camera       `yaml:"camera"`
	Settings  Settings     `yaml:"settings"`
	Current   string       `yaml:"current,omitempty"`
	Parts     []*part.Part `yaml:"parts"`
	Selected  []uuid.UUID  `yaml:"selected,omitempty"`
	Clipboard []*part.Part `yaml:"clipboard,omitempty"`
}

// Snapshot captures the scene as a fixture.
func (s *Scene) Snapshot() *Fixture {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &Fixture{
		Camera:   s.camera,
		Settings: s.settings,
		Current:  s.current.String(),
		Selected: append([]uuid.UUID(nil), s.selected...),
	}
	for _, p := range s.parts {
		f.Parts = append(f.Parts, clone(p))
	}
	for _, p := range s.clipboard {
		f.Clipboard = append(f.Clipboard, clone(p))
	}
	return f
}

// Restore replaces the scene state with f. Parts saved without a scale get
// unit scale. The scene is unchanged when f references unknown part types or
// ids.
func (s *Scene) Restore(f *Fixture) error {
	current := part.Attribute(0)
	if f.Current != "" {
		a, err := part.ParseAttribute(f.Current)
		if err != nil {
			return fmt.Errorf("scene: restore: %w", err)
		}
		current = a
	}

	next := New(s.reg, s.cfg, s.log)
	for _, p := range f.Parts {
		c := clone(p)
		if c.IsHull() != (c.Type == part.HullType) {
			return fmt.Errorf("scene: restore: part %s: hull shape does not match type %d", c.ID, c.Type)
		}
		if c.Pose.Scale == (math32.Vector3{}) {
			c.Pose.Scale = math32.Vec3(1, 1, 1)
		}
		if _, err := next.add(c); err != nil {
			return fmt.Errorf("scene: restore: %w", err)
		}
	}
	for _, id := range f.Selected {
		if _, err := next.find(id); err != nil {
			return fmt.Errorf("scene: restore: selection: %w", err)
		}
		next.selectOne(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts = next.parts
	s.selected = next.selected
	s.latest = next.latest
	s.clipboard = s.clipboard[:0]
	for _, p := range f.Clipboard {
		s.clipboard = append(s.clipboard, clone(p))
	}
	s.camera = f.Camera
	s.settings = f.Settings
	s.current = current
	s.log.Debug("scene restored", "parts", len(s.parts), "selected", len(s.selected))
	return nil
}

// LoadFixture decodes a YAML fixture.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("scene: decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile reads a YAML fixture from path.
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	defer file.Close()
	return LoadFixture(file)
}

// Save encodes f as YAML.
func (f *Fixture) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("scene: encode fixture: %w", err)
	}
	return enc.Close()
}

// SaveFile writes f to path.
func (f *Fixture) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if err := f.Save(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
