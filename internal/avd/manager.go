package avd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/emuforge/emuforge-core/internal/inifile"
	"github.com/emuforge/emuforge-core/internal/sdcard"
	"github.com/emuforge/emuforge-core/internal/target"
)

// CardImager materialises storage card images. Satisfied by
// *sdcard.Runner.
type CardImager interface {
	Create(ctx context.Context, tool, size, outPath string) error
}

// Auditor records lifecycle operations. Satisfied by the sqlite audit
// repository adapter.
type Auditor interface {
	Record(ctx context.Context, action, name string, success bool, details string) error
}

// Notifier is told about completed lifecycle operations. Satisfied by the
// events publisher.
type Notifier interface {
	DefinitionEvent(name, event string)
}

// Lifecycle event names passed to the Notifier.
const (
	EventCreated = "created"
	EventDeleted = "deleted"
	EventMoved   = "moved"
	EventUpdated = "updated"
)

// CreateOptions carries the optional inputs of a create operation.
type CreateOptions struct {
	// SkinName is either a literal WIDTHxHEIGHT value or the name of a
	// skin under the target's (or its parent's) skins directory. Empty
	// falls back to the target's default skin.
	SkinName string

	// StorageCard is either a path to an existing image file or a size
	// expression accepted by sdcard.ValidSize. Empty skips the storage
	// card.
	StorageCard string

	// HardwareOverrides are free-form configuration keys merged last, so
	// they win over every computed value sharing a key.
	HardwareOverrides map[string]string

	// Overwrite clears an existing data directory instead of failing.
	Overwrite bool
}

// Manager implements the lifecycle operations. Filesystem changes happen
// first; the registry entry is swapped only once they have succeeded.
//
// The Manager does not guard against concurrent lifecycle operations on
// the same definition; callers serialise those.
type Manager struct {
	registry *Registry
	catalog  Catalog
	imager   CardImager
	toolPath string
	logger   Logger
	auditor  Auditor
	notifier Notifier
}

// NewManager creates a lifecycle manager. toolPath is the storage card
// image tool invoked when a create names a size instead of a file.
func NewManager(registry *Registry, catalog Catalog, imager CardImager, toolPath string) *Manager {
	return &Manager{
		registry: registry,
		catalog:  catalog,
		imager:   imager,
		toolPath: toolPath,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// SetAuditor wires an audit recorder. Audit failures are logged, never
// propagated.
func (m *Manager) SetAuditor(auditor Auditor) {
	m.auditor = auditor
}

// SetNotifier wires a lifecycle event notifier.
func (m *Manager) SetNotifier(notifier Notifier) {
	m.notifier = notifier
}

// Create builds a new definition: data directory, descriptor, seed
// user-data image, resolved configuration, optional storage card. On
// success the definition is inserted into the registry with StatusOK.
//
// Any failure after the data directory exists triggers best-effort
// cleanup of the descriptor and the partially built directory, so a
// failed create leaves no residue.
func (m *Manager) Create(ctx context.Context, dataDir, name string, t target.Target, opts CreateOptions) (Info, error) {
	info, err := m.create(ctx, dataDir, name, t, opts)
	m.audit(ctx, "create", name, err)
	if err == nil {
		m.notify(name, EventCreated)
	}
	return info, err
}

func (m *Manager) create(ctx context.Context, dataDir, name string, t target.Target, opts CreateOptions) (Info, error) {
	if existing, ok := m.registry.Find(name); ok && !opts.Overwrite {
		return Info{}, fmt.Errorf("%w: %s (%s)", ErrExists, name, existing.DataPath())
	}

	if _, err := os.Stat(dataDir); err == nil {
		if !opts.Overwrite {
			return Info{}, fmt.Errorf("%w: directory %s", ErrExists, dataDir)
		}
		if err := recursiveDelete(dataDir); err != nil {
			return Info{}, fmt.Errorf("clearing %s: %w", dataDir, err)
		}
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Info{}, fmt.Errorf("creating %s: %w", dataDir, err)
	}

	iniPath := IniPath(m.registry.Root(), name)
	cleanup := func() {
		if err := os.Remove(iniPath); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("cleanup: removing descriptor failed", "path", iniPath, "error", err)
		}
		if err := recursiveDelete(dataDir); err != nil {
			m.logger.Warn("cleanup: removing data directory failed", "path", dataDir, "error", err)
		}
	}

	if err := m.writeDescriptor(iniPath, dataDir, t.HashString()); err != nil {
		cleanup()
		return Info{}, err
	}

	userdata, err := findUserdata(t)
	if err != nil {
		cleanup()
		return Info{}, err
	}
	if err := copyFile(userdata, filepath.Join(dataDir, UserdataFilename)); err != nil {
		cleanup()
		return Info{}, fmt.Errorf("copying seed user-data: %w", err)
	}

	props := inifile.New()
	found, err := setImagePaths(m.catalog.Location(), t, props)
	if err != nil {
		cleanup()
		return Info{}, err
	}
	if !found {
		cleanup()
		return Info{}, fmt.Errorf("%w: target %s", ErrNoImagePath, t.HashString())
	}

	if err := m.resolveSkin(t, opts.SkinName, props); err != nil {
		cleanup()
		return Info{}, err
	}

	if opts.StorageCard != "" {
		if err := m.resolveStorageCard(ctx, dataDir, opts.StorageCard, props); err != nil {
			cleanup()
			return Info{}, err
		}
	}

	// Overrides apply last, winning over every computed key. Sorted so
	// the written file is deterministic.
	overrideKeys := make([]string, 0, len(opts.HardwareOverrides))
	for k := range opts.HardwareOverrides {
		overrideKeys = append(overrideKeys, k)
	}
	sort.Strings(overrideKeys)
	for _, k := range overrideKeys {
		props.Set(k, opts.HardwareOverrides[k])
	}

	if err := inifile.Write(ConfigPath(dataDir), props); err != nil {
		cleanup()
		return Info{}, err
	}

	info := NewInfo(name, dataDir, t.HashString(), t, props, StatusOK)
	if opts.Overwrite {
		m.registry.replace(name, info)
	} else {
		m.registry.add(info)
	}

	if t.IsPlatform() {
		m.logger.Info("definition created",
			"name", name,
			"target", t.Name(),
			"path", dataDir,
		)
	} else {
		m.logger.Info("definition created",
			"name", name,
			"target", t.Name(),
			"vendor", t.Vendor(),
			"path", dataDir,
		)
	}

	return info, nil
}

// writeDescriptor records the data path and target hash in the top-level
// descriptor file.
func (m *Manager) writeDescriptor(iniPath, dataPath, targetHash string) error {
	descriptor := inifile.New()
	descriptor.Set(DescriptorKeyPath, dataPath)
	descriptor.Set(DescriptorKeyTarget, targetHash)
	return inifile.Write(iniPath, descriptor)
}

// resolveSkin stores the skin keys. A literal WIDTHxHEIGHT value is kept
// verbatim as both name and path; anything else is resolved against the
// target's skins with a parent fallback. An empty name falls back to the
// target's default skin; no skin keys are written when that is empty too.
func (m *Manager) resolveSkin(t target.Target, skinName string, props *inifile.Properties) error {
	if skinName == "" {
		skinName = t.DefaultSkin()
	}
	if skinName == "" {
		return nil
	}
	if numericSkinPattern.MatchString(skinName) {
		props.Set(ConfigKeySkinPath, skinName)
		props.Set(ConfigKeySkinName, skinName)
		return nil
	}
	skinPath, err := skinRelativePath(m.catalog.Location(), t, skinName)
	if err != nil {
		return err
	}
	props.Set(ConfigKeySkinPath, skinPath)
	props.Set(ConfigKeySkinName, skinName)
	return nil
}

// resolveStorageCard stores an existing image file by reference, or
// invokes the image tool when the value is a size expression.
func (m *Manager) resolveStorageCard(ctx context.Context, dataDir, value string, props *inifile.Properties) error {
	if fi, err := os.Stat(value); err == nil && !fi.IsDir() {
		props.Set(ConfigKeySdcardPath, value)
		return nil
	}
	if !sdcard.ValidSize(value) {
		return fmt.Errorf("%w: %q", ErrInvalidStorageCard, value)
	}
	if _, err := os.Stat(m.toolPath); err != nil {
		return fmt.Errorf("%w: %s", ErrToolMissing, m.toolPath)
	}
	cardPath := filepath.Join(dataDir, SdcardFilename)
	if err := m.imager.Create(ctx, m.toolPath, value, cardPath); err != nil {
		return err
	}
	props.Set(ConfigKeySdcardSize, value)
	return nil
}

// Delete removes a definition's descriptor and data directory, then drops
// it from the registry regardless of how much of the file removal
// succeeded. It tolerates definitions that are already broken, purging
// whichever of the two paths exist.
func (m *Manager) Delete(ctx context.Context, info Info) error {
	var errs []error

	iniPath := IniPath(m.registry.Root(), info.Name())
	if err := os.Remove(iniPath); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("removing descriptor: %w", err))
	}

	if info.DataPath() != "" {
		if err := recursiveDelete(info.DataPath()); err != nil {
			errs = append(errs, fmt.Errorf("removing data directory: %w", err))
		}
	}

	// The entry is dropped even when file removal partially failed; a
	// half-deleted definition must not stay enumerable.
	m.registry.remove(info.Name())

	err := errors.Join(errs...)
	m.audit(ctx, "delete", info.Name(), err)
	m.notify(info.Name(), EventDeleted)
	if err != nil {
		m.logger.Warn("definition deleted with failures", "name", info.Name(), "error", err)
	} else {
		m.logger.Info("definition deleted", "name", info.Name())
	}
	return err
}

// Move relocates a definition's data directory, renames it, or both. Each
// half fully succeeds (filesystem change plus registry replacement) or
// fails without touching the registry for that half; a path failure stops
// the operation before the rename half runs.
//
// Collision checking is the caller's responsibility.
func (m *Manager) Move(ctx context.Context, info Info, newName, newDataPath string) error {
	err := m.move(info, newName, newDataPath)
	m.audit(ctx, "move", info.Name(), err)
	if err == nil {
		m.notify(info.Name(), EventMoved)
	}
	return err
}

func (m *Manager) move(info Info, newName, newDataPath string) error {
	current := info

	if newDataPath != "" && newDataPath != current.DataPath() {
		if err := os.Rename(current.DataPath(), newDataPath); err != nil {
			return fmt.Errorf("moving data directory: %w", err)
		}
		// The descriptor must record the new location, or the next load
		// resolves the old one.
		iniPath := IniPath(m.registry.Root(), current.Name())
		if err := m.writeDescriptor(iniPath, newDataPath, current.TargetHash()); err != nil {
			return err
		}
		tgt, _ := current.ResolvedTarget()
		replacement := NewInfo(current.Name(), newDataPath, current.TargetHash(), tgt, current.Properties(), current.Status())
		m.registry.replace(current.Name(), replacement)
		m.logger.Info("definition relocated", "name", current.Name(), "path", newDataPath)
		current = replacement
	}

	if newName != "" && newName != current.Name() {
		oldIni := IniPath(m.registry.Root(), current.Name())
		newIni := IniPath(m.registry.Root(), newName)
		if err := os.Rename(oldIni, newIni); err != nil {
			return fmt.Errorf("renaming descriptor: %w", err)
		}
		tgt, _ := current.ResolvedTarget()
		replacement := NewInfo(newName, current.DataPath(), current.TargetHash(), tgt, current.Properties(), current.Status())
		m.registry.replace(current.Name(), replacement)
		m.logger.Info("definition renamed", "old", current.Name(), "new", newName)
	}

	return nil
}

// Update recomputes the system image search paths of a named definition
// against the current catalogue and rewrites its configuration file. When
// no image path resolves at all, the attempted properties are still
// persisted and the replacement carries StatusErrImageDir, so partial
// progress stays visible instead of the operation failing outright.
func (m *Manager) Update(ctx context.Context, name string) (Info, error) {
	info, err := m.update(ctx, name)
	m.audit(ctx, "update", name, err)
	if err == nil {
		m.notify(name, EventUpdated)
	}
	return info, err
}

func (m *Manager) update(_ context.Context, name string) (Info, error) {
	current, ok := m.registry.Find(name)
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	tgt, ok := current.ResolvedTarget()
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrTargetUnresolved, name)
	}
	// Without a data path there is nowhere to write the configuration.
	if current.DataPath() == "" {
		return Info{}, fmt.Errorf("%w: %s", ErrNoDataPath, name)
	}

	props := current.Properties()
	if props == nil {
		props = inifile.New()
	}

	found, err := setImagePaths(m.catalog.Location(), tgt, props)
	if err != nil {
		return Info{}, err
	}

	if err := inifile.Write(ConfigPath(current.DataPath()), props); err != nil {
		return Info{}, err
	}

	status := StatusOK
	if !found {
		status = StatusErrImageDir
		m.logger.Warn("no system image path found during repair", "name", name)
	}

	replacement := NewInfo(name, current.DataPath(), current.TargetHash(), tgt, props, status)
	m.registry.replace(name, replacement)
	m.logger.Info("definition updated", "name", name, "status", status.String())
	return replacement, nil
}

// audit records the operation outcome, logging recorder failures instead
// of propagating them.
func (m *Manager) audit(ctx context.Context, action, name string, opErr error) {
	if m.auditor == nil {
		return
	}
	details := ""
	if opErr != nil {
		details = opErr.Error()
	}
	if err := m.auditor.Record(ctx, action, name, opErr == nil, details); err != nil {
		m.logger.Warn("audit record failed", "action", action, "name", name, "error", err)
	}
}

func (m *Manager) notify(name, event string) {
	if m.notifier == nil {
		return
	}
	m.notifier.DefinitionEvent(name, event)
}
