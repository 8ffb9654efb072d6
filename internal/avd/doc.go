// Package avd owns virtual device definitions: discovery, validation,
// the in-memory registry, and the lifecycle operations that keep the
// registry consistent with on-disk state.
//
// A definition is a named directory of configuration binding a target
// platform image, a skin, an optional storage card and free-form hardware
// overrides. On disk it is a descriptor file `<name>.ini` under the
// definitions root plus a data directory holding `config.ini` and the
// image files.
//
// # Key Types
//
//   - Info: one immutable definition value. Broken definitions are kept
//     and carry a diagnostic Status instead of being dropped.
//   - Registry: the single owner of all loaded definitions. Thread-safe;
//     queries return copies.
//   - Manager: create/delete/move/update operations. Filesystem changes
//     happen first, the registry entry is swapped last.
//
// Validity is assigned once, at load or creation time. The registry never
// recomputes it; a repaired device is a new Info value replacing the old
// one.
package avd
