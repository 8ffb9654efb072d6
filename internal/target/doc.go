// Package target models the installed platform images a virtual device
// definition can bind to.
//
// A target is either a platform (a base system image) or an add-on layered
// on top of a parent platform. Targets are identified by an opaque hash
// string; definitions persist only the hash and resolve it against a
// Catalog at load time, so a definition whose target was uninstalled still
// loads, just in a broken state.
//
// The Catalog is built once at startup from configuration and is immutable
// afterwards, so it is safe for concurrent readers without locking.
package target
