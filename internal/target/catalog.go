package target

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrMissingHash indicates a target declaration without a hash.
	ErrMissingHash = errors.New("target: declaration missing hash")
	// ErrDuplicateHash indicates two declarations sharing a hash.
	ErrDuplicateHash = errors.New("target: duplicate hash")
	// ErrUnknownParent indicates an add-on naming an uninstalled parent.
	ErrUnknownParent = errors.New("target: unknown parent hash")
	// ErrParentNotPlatform indicates an add-on layered on another add-on.
	ErrParentNotPlatform = errors.New("target: parent is not a platform")
)

// Spec declares one installed target, typically decoded from
// configuration.
type Spec struct {
	// Hash is the opaque identity persisted in definitions. Required.
	Hash string
	// Name is the human-readable target name.
	Name string
	// Vendor is the providing vendor. Add-ons only.
	Vendor string
	// Parent is the hash of the platform an add-on is layered on.
	// Empty declares a platform.
	Parent string
	// Dir is the target's directory, absolute or relative to the
	// installation root.
	Dir string
	// DefaultSkin is the skin used when a definition does not name one.
	DefaultSkin string
}

// Catalog resolves target hashes against the set of installed targets.
//
// A Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	location string
	byHash   map[string]*installed
	ordered  []*installed
}

// NewCatalog builds a catalogue rooted at location from the declared
// specs. Platforms are resolved before add-ons, so declaration order does
// not matter. Construction fails on a missing or duplicate hash, an
// unknown parent hash, or an add-on whose parent is itself an add-on.
func NewCatalog(location string, specs []Spec) (*Catalog, error) {
	c := &Catalog{
		location: filepath.Clean(location),
		byHash:   make(map[string]*installed, len(specs)),
	}

	for _, s := range specs {
		if s.Hash == "" {
			return nil, fmt.Errorf("%w: target %q", ErrMissingHash, s.Name)
		}
		if _, ok := c.byHash[s.Hash]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHash, s.Hash)
		}
		t := &installed{
			hash:        s.Hash,
			name:        s.Name,
			vendor:      s.Vendor,
			dir:         c.absDir(s.Dir),
			defaultSkin: s.DefaultSkin,
		}
		c.byHash[s.Hash] = t
		c.ordered = append(c.ordered, t)
	}

	// Link add-ons to their parents in a second pass. Parent legality is
	// judged from the declarations rather than the partially linked
	// targets, so a chain of add-ons is rejected in every declaration
	// order.
	specByHash := make(map[string]Spec, len(specs))
	for _, s := range specs {
		specByHash[s.Hash] = s
	}
	for _, s := range specs {
		if s.Parent == "" {
			continue
		}
		parentSpec, ok := specByHash[s.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: %q (required by %q)", ErrUnknownParent, s.Parent, s.Hash)
		}
		if parentSpec.Parent != "" {
			return nil, fmt.Errorf("%w: %q (parent of %q)", ErrParentNotPlatform, s.Parent, s.Hash)
		}
		c.byHash[s.Hash].parent = c.byHash[s.Parent]
	}

	return c, nil
}

func (c *Catalog) absDir(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(c.location, dir)
}

// Location returns the installation root the catalogue was built for.
func (c *Catalog) Location() string {
	return c.location
}

// TargetFromHash resolves a hash to its target. The second return value
// reports whether the hash names an installed target.
func (c *Catalog) TargetFromHash(hash string) (Target, bool) {
	t, ok := c.byHash[hash]
	if !ok {
		return nil, false
	}
	return t, true
}

// Targets returns the installed targets in declaration order.
func (c *Catalog) Targets() []Target {
	out := make([]Target, len(c.ordered))
	for i, t := range c.ordered {
		out[i] = t
	}
	return out
}
