package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("EMUFORGE_CONFIG")
	defer os.Setenv("EMUFORGE_CONFIG", originalEnv)

	os.Setenv("EMUFORGE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when database path is empty.
func TestRun_MissingDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
service:
  id: test-service

avd:
  root: "` + filepath.Join(tmpDir, "avd") + `"

sdk:
  location: "` + tmpDir + `"
  tools_dir: tools
  sdcard_tool: mksdcard
  targets: []

database:
  path: ""
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("EMUFORGE_CONFIG")
	defer os.Setenv("EMUFORGE_CONFIG", originalEnv)
	os.Setenv("EMUFORGE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("EMUFORGE_CONFIG")
	defer os.Setenv("EMUFORGE_CONFIG", originalEnv)

	os.Unsetenv("EMUFORGE_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("EMUFORGE_CONFIG")
	defer os.Setenv("EMUFORGE_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("EMUFORGE_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestRun_SuccessfulStartupAndShutdown tests full startup with MQTT disabled.
// The service initialises the database, catalogue and registry, then shuts
// down when the context expires.
func TestRun_SuccessfulStartupAndShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	dbPath := filepath.Join(tmpDir, "test.db")

	configContent := `
service:
  id: test-service

avd:
  root: "` + filepath.Join(tmpDir, "avd") + `"

sdk:
  location: "` + tmpDir + `"
  tools_dir: tools
  sdcard_tool: mksdcard
  targets:
    - hash: android-7
      name: "Android 2.1"
      dir: platforms/android-7
      default_skin: HVGA

database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("EMUFORGE_CONFIG")
	defer os.Setenv("EMUFORGE_CONFIG", originalEnv)
	os.Setenv("EMUFORGE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Errorf("run() error = %v, want clean shutdown", err)
	}

	// The definition root should have been created during startup
	if _, err := os.Stat(filepath.Join(tmpDir, "avd")); err != nil {
		t.Errorf("definition root was not created: %v", err)
	}
}

// TestRun_DuplicateTargetHash verifies startup rejects configurations
// declaring the same target hash twice.
func TestRun_DuplicateTargetHash(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
service:
  id: test-service

avd:
  root: "` + filepath.Join(tmpDir, "avd") + `"

sdk:
  location: "` + tmpDir + `"
  tools_dir: tools
  sdcard_tool: mksdcard
  targets:
    - hash: android-7
      name: "Android 2.1"
      dir: platforms/android-7
    - hash: android-7
      name: "Duplicate"
      dir: platforms/android-7-dup

database:
  path: "` + filepath.Join(tmpDir, "test.db") + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("EMUFORGE_CONFIG")
	defer os.Setenv("EMUFORGE_CONFIG", originalEnv)
	os.Setenv("EMUFORGE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with duplicate target hashes")
	}
}
