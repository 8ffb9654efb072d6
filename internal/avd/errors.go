package avd

import "errors"

// Domain errors for the avd package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, avd.ErrExists) {
//	    // handle collision case
//	}
var (
	// ErrLocation is returned when the definitions root cannot be
	// resolved or created. Fatal to the enclosing operation.
	ErrLocation = errors.New("avd: definitions root unavailable")

	// ErrExists is returned when creating a definition whose data
	// directory already exists and overwrite was not requested.
	ErrExists = errors.New("avd: definition already exists")

	// ErrNotFound is returned when a named definition is not in the
	// registry.
	ErrNotFound = errors.New("avd: definition not found")

	// ErrTargetUnresolved is returned when an operation needs the
	// definition's target but its hash did not resolve.
	ErrTargetUnresolved = errors.New("avd: target not resolved")

	// ErrNoDataPath is returned when an operation needs the definition's
	// data directory but its descriptor records none.
	ErrNoDataPath = errors.New("avd: definition records no data path")

	// ErrNoUserdata is returned when no seed user-data image can be
	// located for the target or its parent.
	ErrNoUserdata = errors.New("avd: seed user-data image not found")

	// ErrNoSkin is returned when a named skin exists under neither the
	// target nor its parent.
	ErrNoSkin = errors.New("avd: skin not found")

	// ErrInvalidStorageCard is returned when a storage card value is
	// neither an existing file nor a valid size expression.
	ErrInvalidStorageCard = errors.New("avd: invalid storage card value")

	// ErrToolMissing is returned when the storage card image tool is not
	// present on disk.
	ErrToolMissing = errors.New("avd: storage card tool not found")

	// ErrNoImagePath is returned when neither the target nor its parent
	// provides a usable system image directory.
	ErrNoImagePath = errors.New("avd: no system image path found")

	// ErrImageOutsideRoot is returned when a target's image directory
	// lies outside the installation root. The installation is assumed
	// self-contained, so this is a configuration error.
	ErrImageOutsideRoot = errors.New("avd: image path outside installation root")
)
