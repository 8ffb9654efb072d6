package avd

import "sync"

// Logger defines the logging interface used by the avd package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry is the single owner of all loaded definitions.
//
// One mutex serialises every read and write: access is infrequent enough
// that a reader/writer split buys nothing. The valid and broken subsets
// are computed lazily and cached until the next mutation. Filesystem I/O
// happens outside the lock; only the final swap of Info values is
// guarded.
//
// All public methods are thread-safe.
type Registry struct {
	root    string
	catalog Catalog
	logger  Logger

	mu          sync.Mutex
	infos       []Info
	validCache  []Info
	brokenCache []Info
	cachesBuilt bool
}

// NewRegistry creates an empty registry for the given definitions root.
// Call Reload to populate it.
func NewRegistry(root string, catalog Catalog) *Registry {
	return &Registry{
		root:    root,
		catalog: catalog,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Root returns the definitions root directory.
func (r *Registry) Root() string {
	return r.root
}

// Reload rebuilds the registry from disk. The scan is performed into a
// temporary collection first; on any failure the previous contents are
// left completely untouched.
func (r *Registry) Reload() error {
	infos, err := loadAll(r.root, r.catalog)
	if err != nil {
		r.logger.Error("definition reload failed", "root", r.root, "error", err)
		return err
	}

	r.mu.Lock()
	r.infos = infos
	r.invalidateCaches()
	r.mu.Unlock()

	r.logger.Info("definitions loaded", "root", r.root, "count", len(infos))
	return nil
}

// All returns a snapshot of every definition, broken ones included.
func (r *Registry) All() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Info, len(r.infos))
	copy(out, r.infos)
	return out
}

// Valid returns a snapshot of the definitions with StatusOK.
func (r *Registry) Valid() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buildCaches()
	out := make([]Info, len(r.validCache))
	copy(out, r.validCache)
	return out
}

// Broken returns a snapshot of the definitions with any error status.
func (r *Registry) Broken() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buildCaches()
	out := make([]Info, len(r.brokenCache))
	copy(out, r.brokenCache)
	return out
}

// Find returns the definition with the exact, case-sensitive name.
func (r *Registry) Find(name string) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, info := range r.infos {
		if info.Name() == name {
			return info, true
		}
	}
	return Info{}, false
}

// Len returns the number of loaded definitions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.infos)
}

// add appends a definition. The lifecycle layer enforces name uniqueness
// before calling.
func (r *Registry) add(info Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, info)
	r.invalidateCaches()
}

// remove drops the definition with the given name. Removing an absent
// name is a no-op.
func (r *Registry) remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, info := range r.infos {
		if info.Name() == name {
			r.infos = append(r.infos[:i], r.infos[i+1:]...)
			r.invalidateCaches()
			return
		}
	}
}

// replace swaps the definition named oldName for the new value, keeping
// its position in the collection.
func (r *Registry) replace(oldName string, info Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.infos {
		if existing.Name() == oldName {
			r.infos[i] = info
			r.invalidateCaches()
			return
		}
	}
	r.infos = append(r.infos, info)
	r.invalidateCaches()
}

// invalidateCaches drops both derived subsets. Callers must hold mu.
func (r *Registry) invalidateCaches() {
	r.validCache = nil
	r.brokenCache = nil
	r.cachesBuilt = false
}

// buildCaches computes both derived subsets if stale. Callers must hold
// mu.
func (r *Registry) buildCaches() {
	if r.cachesBuilt {
		return
	}
	r.validCache = nil
	r.brokenCache = nil
	for _, info := range r.infos {
		if info.Status() == StatusOK {
			r.validCache = append(r.validCache, info)
		} else {
			r.brokenCache = append(r.brokenCache, info)
		}
	}
	r.cachesBuilt = true
}
