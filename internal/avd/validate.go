package avd

import (
	"fmt"

	"github.com/emuforge/emuforge-core/internal/inifile"
	"github.com/emuforge/emuforge-core/internal/target"
)

// computeStatus classifies a definition by first-applicable rule. Earlier
// rules represent more fundamental corruption and must not be masked by
// later, more specific diagnostics, so the order is fixed:
//
//  1. no data path recorded
//  2. no readable configuration file
//  3. no target hash recorded
//  4. target hash unresolved
//  5. configuration file unparsable
//  6. a declared system image directory missing
//
// The function is pure: every filesystem observation is made by the
// caller and passed in.
func computeStatus(dataPath string, configReadable bool, targetHash string, tgt target.Target, props *inifile.Properties, imageDirsOK bool) Status {
	switch {
	case dataPath == "":
		return StatusErrPath
	case !configReadable:
		return StatusErrConfig
	case targetHash == "":
		return StatusErrTargetHash
	case tgt == nil:
		return StatusErrTarget
	case props == nil:
		return StatusErrProperties
	case !imageDirsOK:
		return StatusErrImageDir
	default:
		return StatusOK
	}
}

// StatusText renders a human-readable diagnostic for a definition. It is
// applied at the boundary (logging, UI); status computation never formats
// messages.
func StatusText(info Info) string {
	switch info.Status() {
	case StatusOK:
		return fmt.Sprintf("%s is valid", info.Name())
	case StatusErrPath:
		return fmt.Sprintf("%s: descriptor records no data path", info.Name())
	case StatusErrConfig:
		return fmt.Sprintf("%s: missing configuration file in %s", info.Name(), info.DataPath())
	case StatusErrTargetHash:
		return fmt.Sprintf("%s: descriptor records no target", info.Name())
	case StatusErrTarget:
		return fmt.Sprintf("%s: unknown target %q", info.Name(), info.TargetHash())
	case StatusErrProperties:
		return fmt.Sprintf("%s: unparsable configuration file in %s", info.Name(), info.DataPath())
	case StatusErrImageDir:
		return fmt.Sprintf("%s: a declared system image directory is missing", info.Name())
	default:
		return fmt.Sprintf("%s: unknown status", info.Name())
	}
}
