package mqtt

import "fmt"

// Topic prefixes for the EmuForge MQTT hierarchy.
//
// All topics live under the flat scheme: emuforge/{category}/...
const (
	// TopicPrefixRoot is the base for all EmuForge topics.
	TopicPrefixRoot = "emuforge"

	// TopicPrefixCore is the base for all core topics.
	TopicPrefixCore = "emuforge/core"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "emuforge/system"
)

// Topics provides builders for EmuForge MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	eventTopic := topics.DefinitionEvent("pixel-7", "created")
//	// Returns: "emuforge/core/avd/pixel-7/created"
type Topics struct{}

// DefinitionEvent returns the topic for a virtual device definition
// lifecycle event.
//
// Example: emuforge/core/avd/pixel-7/created
func (Topics) DefinitionEvent(name, event string) string {
	return fmt.Sprintf("%s/avd/%s/%s", TopicPrefixCore, name, event)
}

// RegistrySummary returns the topic for registry state summaries.
// Published retained so new subscribers see the current catalogue.
//
// Example: emuforge/core/registry/summary
func (Topics) RegistrySummary() string {
	return fmt.Sprintf("%s/registry/summary", TopicPrefixCore)
}

// RegistryRefresh returns the topic external tools publish to when
// they have modified definitions on disk and want a rescan.
//
// Example: emuforge/core/registry/refresh
func (Topics) RegistryRefresh() string {
	return fmt.Sprintf("%s/registry/refresh", TopicPrefixCore)
}

// SystemStatus returns the system status topic. This carries the
// online/offline payloads, including the Last Will message.
//
// Example: emuforge/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDefinitionEvents returns a pattern matching every definition
// lifecycle event.
//
// Pattern: emuforge/core/avd/+/+
func (Topics) AllDefinitionEvents() string {
	return fmt.Sprintf("%s/avd/+/+", TopicPrefixCore)
}

// AllTopics returns a pattern matching all EmuForge topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: emuforge/#
func (Topics) AllTopics() string {
	return "emuforge/#"
}
