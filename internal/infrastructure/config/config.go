package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for EmuForge Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	AVD      AVDConfig      `yaml:"avd"`
	SDK      SDKConfig      `yaml:"sdk"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig contains instance-specific information.
type ServiceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// AVDConfig contains virtual device definition settings.
type AVDConfig struct {
	// Root is the directory holding the definition descriptors and data
	// directories.
	Root string `yaml:"root"`
}

// SDKConfig contains the platform installation settings.
type SDKConfig struct {
	// Location is the installation root all image and skin paths are
	// relative to.
	Location string `yaml:"location"`

	// ToolsDir is the directory holding the installation's tools,
	// relative to Location unless absolute.
	ToolsDir string `yaml:"tools_dir"`

	// SdcardTool is the storage card image tool binary name inside
	// ToolsDir.
	SdcardTool string `yaml:"sdcard_tool"`

	// Targets declares the installed platforms and add-ons.
	Targets []TargetConfig `yaml:"targets"`
}

// TargetConfig declares one installed platform or add-on.
type TargetConfig struct {
	Hash        string `yaml:"hash"`
	Name        string `yaml:"name"`
	Vendor      string `yaml:"vendor"`
	Parent      string `yaml:"parent"`
	Dir         string `yaml:"dir"`
	DefaultSkin string `yaml:"default_skin"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: EMUFORGE_SECTION_KEY
// For example: EMUFORGE_DATABASE_PATH, EMUFORGE_AVD_ROOT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:   "emuforge-001",
			Name: "EmuForge",
		},
		AVD: AVDConfig{
			Root: "./data/avd",
		},
		SDK: SDKConfig{
			ToolsDir:   "tools",
			SdcardTool: "mksdcard",
		},
		Database: DatabaseConfig{
			Path:        "./data/emuforge.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "emuforge-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: EMUFORGE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// AVD
	if v := os.Getenv("EMUFORGE_AVD_ROOT"); v != "" {
		cfg.AVD.Root = v
	}

	// SDK
	if v := os.Getenv("EMUFORGE_SDK_LOCATION"); v != "" {
		cfg.SDK.Location = v
	}

	// Database
	if v := os.Getenv("EMUFORGE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("EMUFORGE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("EMUFORGE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("EMUFORGE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Service validation
	if c.Service.ID == "" {
		errs = append(errs, "service.id is required")
	}

	// AVD validation
	if c.AVD.Root == "" {
		errs = append(errs, "avd.root is required")
	}

	// SDK validation
	if c.SDK.Location == "" {
		errs = append(errs, "sdk.location is required (set EMUFORGE_SDK_LOCATION environment variable)")
	}
	if c.SDK.SdcardTool == "" {
		errs = append(errs, "sdk.sdcard_tool is required")
	}
	seen := make(map[string]bool, len(c.SDK.Targets))
	for i, t := range c.SDK.Targets {
		if t.Hash == "" {
			errs = append(errs, fmt.Sprintf("sdk.targets[%d].hash is required", i))
			continue
		}
		if seen[t.Hash] {
			errs = append(errs, fmt.Sprintf("sdk.targets[%d].hash %q is duplicated", i, t.Hash))
		}
		seen[t.Hash] = true
	}
	for i, t := range c.SDK.Targets {
		if t.Parent != "" && !seen[t.Parent] {
			errs = append(errs, fmt.Sprintf("sdk.targets[%d].parent %q is not declared", i, t.Parent))
		}
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SdcardToolPath returns the absolute path of the storage card tool,
// resolving ToolsDir against the installation root when relative.
func (c *Config) SdcardToolPath() string {
	toolsDir := c.SDK.ToolsDir
	if !filepath.IsAbs(toolsDir) {
		toolsDir = filepath.Join(c.SDK.Location, toolsDir)
	}
	return filepath.Join(toolsDir, c.SDK.SdcardTool)
}
