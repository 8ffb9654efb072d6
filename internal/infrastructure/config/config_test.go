package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
service:
  id: "test-instance"
avd:
  root: "/tmp/avd"
sdk:
  location: "/opt/sdk"
  targets:
    - hash: "android-7"
      name: "Android 2.1"
      dir: "platforms/android-7"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-instance" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-instance")
	}

	if cfg.AVD.Root != "/tmp/avd" {
		t.Errorf("AVD.Root = %q, want %q", cfg.AVD.Root, "/tmp/avd")
	}

	if cfg.SDK.Location != "/opt/sdk" {
		t.Errorf("SDK.Location = %q, want %q", cfg.SDK.Location, "/opt/sdk")
	}

	if len(cfg.SDK.Targets) != 1 || cfg.SDK.Targets[0].Hash != "android-7" {
		t.Errorf("SDK.Targets = %+v, want one android-7 entry", cfg.SDK.Targets)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
service:
  id: ""
database:
  path: "/tmp/test.db"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty service.id, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Service: ServiceConfig{ID: "emuforge-001"},
			AVD:     AVDConfig{Root: "/data/avd"},
			SDK: SDKConfig{
				Location:   "/opt/sdk",
				SdcardTool: "mksdcard",
				Targets: []TargetConfig{
					{Hash: "android-7", Dir: "platforms/android-7"},
					{Hash: "acme:Maps:7", Parent: "android-7", Dir: "add-ons/maps"},
				},
			},
			Database: DatabaseConfig{Path: "/data/emuforge.db"},
			MQTT:     MQTTConfig{QoS: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing service ID",
			mutate:  func(c *Config) { c.Service.ID = "" },
			wantErr: true,
		},
		{
			name:    "missing avd root",
			mutate:  func(c *Config) { c.AVD.Root = "" },
			wantErr: true,
		},
		{
			name:    "missing sdk location",
			mutate:  func(c *Config) { c.SDK.Location = "" },
			wantErr: true,
		},
		{
			name:    "missing sdcard tool",
			mutate:  func(c *Config) { c.SDK.SdcardTool = "" },
			wantErr: true,
		},
		{
			name:    "target without hash",
			mutate:  func(c *Config) { c.SDK.Targets[0].Hash = "" },
			wantErr: true,
		},
		{
			name:    "duplicate target hash",
			mutate:  func(c *Config) { c.SDK.Targets[1].Hash = "android-7"; c.SDK.Targets[1].Parent = "" },
			wantErr: true,
		},
		{
			name:    "undeclared parent",
			mutate:  func(c *Config) { c.SDK.Targets[1].Parent = "android-99" },
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "mqtt enabled without host",
			mutate:  func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Broker.Host = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	// Set environment variables
	t.Setenv("EMUFORGE_AVD_ROOT", "/custom/avd")
	t.Setenv("EMUFORGE_SDK_LOCATION", "/custom/sdk")
	t.Setenv("EMUFORGE_DATABASE_PATH", "/custom/path.db")
	t.Setenv("EMUFORGE_MQTT_HOST", "mqtt.example.com")
	t.Setenv("EMUFORGE_MQTT_USERNAME", "testuser")
	t.Setenv("EMUFORGE_MQTT_PASSWORD", "testpass")

	applyEnvOverrides(cfg)

	if cfg.AVD.Root != "/custom/avd" {
		t.Errorf("AVD.Root = %q, want %q", cfg.AVD.Root, "/custom/avd")
	}

	if cfg.SDK.Location != "/custom/sdk" {
		t.Errorf("SDK.Location = %q, want %q", cfg.SDK.Location, "/custom/sdk")
	}

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Service.ID == "" {
		t.Error("defaultConfig should have non-empty Service.ID")
	}

	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.SDK.SdcardTool != "mksdcard" {
		t.Errorf("defaultConfig SDK.SdcardTool = %q, want mksdcard", cfg.SDK.SdcardTool)
	}
}

func TestSdcardToolPath(t *testing.T) {
	cfg := &Config{SDK: SDKConfig{
		Location:   "/opt/sdk",
		ToolsDir:   "tools",
		SdcardTool: "mksdcard",
	}}
	if got := cfg.SdcardToolPath(); got != "/opt/sdk/tools/mksdcard" {
		t.Errorf("SdcardToolPath() = %q", got)
	}

	cfg.SDK.ToolsDir = "/usr/local/bin"
	if got := cfg.SdcardToolPath(); got != "/usr/local/bin/mksdcard" {
		t.Errorf("absolute ToolsDir should bypass location: %q", got)
	}
}
