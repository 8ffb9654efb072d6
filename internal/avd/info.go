package avd

import (
	"path/filepath"

	"github.com/emuforge/emuforge-core/internal/inifile"
	"github.com/emuforge/emuforge-core/internal/target"
)

// Well-known file names and property keys.
const (
	// DescriptorExt is the extension of descriptor files under the
	// definitions root. Matched case-insensitively on discovery.
	DescriptorExt = ".ini"

	// DataDirExt is the conventional extension of a definition's data
	// directory.
	DataDirExt = ".avd"

	// ConfigFilename is the per-definition configuration file inside the
	// data directory.
	ConfigFilename = "config.ini"

	// UserdataFilename is the seed user-data image copied into a new
	// data directory.
	UserdataFilename = "userdata.img"

	// SdcardFilename is the generated storage card image inside the data
	// directory.
	SdcardFilename = "sdcard.img"

	// Descriptor file keys.
	DescriptorKeyPath   = "path"
	DescriptorKeyTarget = "target"

	// Configuration file keys.
	ConfigKeySkinPath   = "skin.path"
	ConfigKeySkinName   = "skin.name"
	ConfigKeySdcardPath = "sdcard.path"
	ConfigKeySdcardSize = "sdcard.size"
	ConfigKeyImageDir1  = "image.sysdir.1"
	ConfigKeyImageDir2  = "image.sysdir.2"
)

// Status classifies a definition's validity. It is assigned once, when
// the Info is constructed, and never changes on an existing value.
type Status int

const (
	// StatusOK marks a fully usable definition.
	StatusOK Status = iota
	// StatusErrPath marks a descriptor with no data path recorded.
	StatusErrPath
	// StatusErrConfig marks a data path with no readable configuration
	// file.
	StatusErrConfig
	// StatusErrTargetHash marks a descriptor with no target hash.
	StatusErrTargetHash
	// StatusErrTarget marks a hash that did not resolve against the
	// catalogue.
	StatusErrTarget
	// StatusErrProperties marks a configuration file that exists but
	// could not be parsed.
	StatusErrProperties
	// StatusErrImageDir marks a definition whose declared system image
	// directories do not all exist.
	StatusErrImageDir
)

// String returns the machine-readable status name. Human-readable
// messages are rendered separately by StatusText.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusErrPath:
		return "error-path"
	case StatusErrConfig:
		return "error-config"
	case StatusErrTargetHash:
		return "error-target-hash"
	case StatusErrTarget:
		return "error-target"
	case StatusErrProperties:
		return "error-properties"
	case StatusErrImageDir:
		return "error-image-dir"
	default:
		return "unknown"
	}
}

// Info is one virtual device definition. It is an immutable value: all
// fields are set at construction and a changed definition is a new Info.
type Info struct {
	name       string
	dataPath   string
	targetHash string
	target     target.Target
	properties *inifile.Properties
	status     Status
}

// NewInfo constructs a definition value. tgt is nil when the hash did not
// resolve; props is nil when the configuration file was missing or
// unparsable.
func NewInfo(name, dataPath, targetHash string, tgt target.Target, props *inifile.Properties, status Status) Info {
	return Info{
		name:       name,
		dataPath:   dataPath,
		targetHash: targetHash,
		target:     tgt,
		properties: props,
		status:     status,
	}
}

// Name returns the definition's unique, case-sensitive name.
func (i Info) Name() string { return i.name }

// DataPath returns the absolute path of the data directory. Empty when
// the descriptor recorded none.
func (i Info) DataPath() string { return i.dataPath }

// TargetHash returns the persisted target hash. Empty when the descriptor
// recorded none.
func (i Info) TargetHash() string { return i.targetHash }

// ResolvedTarget returns the resolved target and whether resolution
// succeeded, so callers never branch on a nil target.
func (i Info) ResolvedTarget() (target.Target, bool) {
	if i.target == nil {
		return nil, false
	}
	return i.target, true
}

// Properties returns a copy of the configuration properties. Nil when the
// configuration file was missing or unparsable.
func (i Info) Properties() *inifile.Properties {
	return i.properties.Clone()
}

// Status returns the validity classification assigned at construction.
func (i Info) Status() Status { return i.status }

// ConfigPath returns the path of the definition's configuration file.
func (i Info) ConfigPath() string {
	return ConfigPath(i.dataPath)
}

// IniPath returns the descriptor file path for a definition name under
// the given root.
func IniPath(root, name string) string {
	return filepath.Join(root, name+DescriptorExt)
}

// ConfigPath returns the configuration file path inside a data directory.
func ConfigPath(dataPath string) string {
	return filepath.Join(dataPath, ConfigFilename)
}

// DataPath returns the conventional data directory for a definition name
// under the given root.
func DataPath(root, name string) string {
	return filepath.Join(root, name+DataDirExt)
}
