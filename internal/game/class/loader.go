package class

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownClass is returned when a class lookup yields no result.
var ErrUnknownClass = errors.New("unknown class")

// LoadClassFromBytes parses a single class from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Info.
// Postcondition: Returns a validated *Class with content defaults applied, or an error.
func LoadClassFromBytes(data []byte) (*Class, error) {
	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing class YAML: %w", err)
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return New(info), nil
}

// LoadClasses reads all *.yaml files in dir and returns the parsed classes in
// file name order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all classes or an error on the first parse or validate failure.
func LoadClasses(dir string) ([]*Class, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading class dir %q: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	classes := make([]*Class, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		c, err := LoadClassFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// Registry indexes capabilities by class ID.
//
// Invariant: each ID is registered at most once.
type Registry struct {
	classes map[string]Capability
}

// NewRegistry returns a Registry holding caps.
//
// Postcondition: Returns an error on duplicate IDs.
func NewRegistry(caps ...Capability) (*Registry, error) {
	r := &Registry{classes: make(map[string]Capability, len(caps))}
	for _, c := range caps {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds c to the registry.
func (r *Registry) Register(c Capability) error {
	id := c.Info().ID
	if _, exists := r.classes[id]; exists {
		return fmt.Errorf("class %q already registered", id)
	}
	r.classes[id] = c
	return nil
}

// Lookup returns the capability registered under id.
func (r *Registry) Lookup(id string) (Capability, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, id)
	}
	return c, nil
}

// IDs returns the registered class IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.classes))
	for id := range r.classes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadRegistry loads every class in dir into a new Registry.
func LoadRegistry(dir string) (*Registry, error) {
	classes, err := LoadClasses(dir)
	if err != nil {
		return nil, err
	}
	r := &Registry{classes: make(map[string]Capability, len(classes))}
	for _, c := range classes {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}
