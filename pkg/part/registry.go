package part

import (
	"fmt"
	"io"
	"os"
	"slices"

	"cogentcore.org/core/math32"
	"gopkg.in/yaml.v3"
)

// Metadata describes the collider of a part type.
type Metadata struct {
	Name         string         `yaml:"name"`
	HalfExtent   math32.Vector3 `yaml:"half_extent"`
	CenterOffset math32.Vector3 `yaml:"center_offset"`
}

// Registry maps type ids to metadata.
type Registry struct {
	types map[int]Metadata
}

type registryFile struct {
	Parts map[int]Metadata `yaml:"parts"`
}

// NewRegistry returns a registry holding types.
func NewRegistry(types map[int]Metadata) *Registry {
	r := &Registry{types: make(map[int]Metadata, len(types))}
	for id, md := range types {
		r.types[id] = md
	}
	return r
}

// DefaultRegistry knows only the adjustable hull, one unit wide.
func DefaultRegistry() *Registry {
	return NewRegistry(map[int]Metadata{
		HullType: {Name: "adjustable hull", HalfExtent: math32.Vec3(0.5, 0.5, 0.5)},
	})
}

// LoadRegistry reads a YAML document with a top-level "parts" map.
func LoadRegistry(r io.Reader) (*Registry, error) {
	var f registryFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("part: decode registry: %w", err)
	}
	if _, ok := f.Parts[HullType]; !ok {
		return nil, fmt.Errorf("part: registry has no entry for the hull type %d", HullType)
	}
	return NewRegistry(f.Parts), nil
}

// LoadRegistryFile reads a registry from path.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("part: open registry: %w", err)
	}
	defer f.Close()
	return LoadRegistry(f)
}

// Lookup returns the metadata of typ.
func (r *Registry) Lookup(typ int) (Metadata, error) {
	md, ok := r.types[typ]
	if !ok {
		return Metadata{}, fmt.Errorf("part: type %d: %w", typ, ErrUnknownType)
	}
	return md, nil
}

// MustLookup is Lookup for types already known to exist. It panics
// otherwise.
func (r *Registry) MustLookup(typ int) Metadata {
	md, err := r.Lookup(typ)
	if err != nil {
		panic(err.Error())
	}
	return md
}

// Types returns the known type ids in ascending order.
func (r *Registry) Types() []int {
	ids := make([]int, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
