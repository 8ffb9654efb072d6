package target

import "path/filepath"

// PathKind selects one of the well-known directories under a target.
type PathKind int

const (
	// Images is the directory holding the target's system image files.
	Images PathKind = iota
	// Skins is the directory holding the target's skin definitions.
	Skins
)

// Target describes one installed platform or add-on.
//
// Implementations are immutable after catalogue construction.
type Target interface {
	// HashString returns the opaque identity persisted in definitions.
	HashString() string
	// Name returns the human-readable target name.
	Name() string
	// Vendor returns the providing vendor. Empty for platforms.
	Vendor() string
	// IsPlatform reports whether this is a base platform rather than an
	// add-on layered on one.
	IsPlatform() bool
	// Parent returns the platform an add-on is layered on, or nil for
	// platforms.
	Parent() Target
	// Path returns the absolute directory for the given kind. The
	// directory is not guaranteed to exist.
	Path(kind PathKind) string
	// DefaultSkin returns the skin name used when a definition does not
	// name one. May be empty.
	DefaultSkin() string
}

// installed is the concrete Target built by the Catalog.
type installed struct {
	hash        string
	name        string
	vendor      string
	dir         string
	defaultSkin string
	parent      *installed
}

func (t *installed) HashString() string { return t.hash }
func (t *installed) Name() string       { return t.name }
func (t *installed) Vendor() string     { return t.vendor }
func (t *installed) IsPlatform() bool   { return t.parent == nil }

func (t *installed) Parent() Target {
	if t.parent == nil {
		return nil
	}
	return t.parent
}

func (t *installed) Path(kind PathKind) string {
	switch kind {
	case Images:
		return filepath.Join(t.dir, "images")
	case Skins:
		return filepath.Join(t.dir, "skins")
	default:
		return t.dir
	}
}

func (t *installed) DefaultSkin() string { return t.defaultSkin }
