package avd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/emuforge/emuforge-core/internal/inifile"
	"github.com/emuforge/emuforge-core/internal/target"
)

// newTestInstall builds a minimal installation on disk: one platform with
// a system image, a seed user-data image and an HVGA skin, plus an add-on
// without its own images.
func newTestInstall(t *testing.T) (string, *target.Catalog) {
	t.Helper()
	location := t.TempDir()

	imgDir := filepath.Join(location, "platforms", "android-7", "images")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		t.Fatalf("creating image dir: %v", err)
	}
	for _, name := range []string{"system.img", UserdataFilename} {
		if err := os.WriteFile(filepath.Join(imgDir, name), []byte("image"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	skinDir := filepath.Join(location, "platforms", "android-7", "skins", "HVGA")
	if err := os.MkdirAll(skinDir, 0o755); err != nil {
		t.Fatalf("creating skin dir: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(location, "add-ons", "maps-7"), 0o755); err != nil {
		t.Fatalf("creating add-on dir: %v", err)
	}

	catalog, err := target.NewCatalog(location, []target.Spec{
		{
			Hash:        "android-7",
			Name:        "Android 2.1",
			Dir:         "platforms/android-7",
			DefaultSkin: "HVGA",
		},
		{
			Hash:   "acme:Maps:7",
			Name:   "Maps Add-On",
			Vendor: "Acme",
			Parent: "android-7",
			Dir:    "add-ons/maps-7",
		},
	})
	if err != nil {
		t.Fatalf("building catalogue: %v", err)
	}
	return location, catalog
}

// writeDescriptorFile writes a raw descriptor under root.
func writeDescriptorFile(t *testing.T, root, name string, entries map[string]string) {
	t.Helper()
	props := inifile.New()
	// Deterministic descriptor contents: path before target.
	for _, key := range []string{DescriptorKeyPath, DescriptorKeyTarget} {
		if v, ok := entries[key]; ok {
			props.Set(key, v)
		}
	}
	if err := inifile.Write(IniPath(root, name), props); err != nil {
		t.Fatalf("writing descriptor %s: %v", name, err)
	}
}

// writeConfigFile writes a config.ini inside dataPath, creating the
// directory first.
func writeConfigFile(t *testing.T, dataPath string, entries map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		t.Fatalf("creating data dir: %v", err)
	}
	props := inifile.New()
	for _, key := range []string{
		ConfigKeySkinPath, ConfigKeySkinName,
		ConfigKeySdcardPath, ConfigKeySdcardSize,
		ConfigKeyImageDir1, ConfigKeyImageDir2,
	} {
		if v, ok := entries[key]; ok {
			props.Set(key, v)
		}
	}
	for k, v := range entries {
		props.Set(k, v)
	}
	if err := inifile.Write(ConfigPath(dataPath), props); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

type imagerCall struct {
	tool string
	size string
	out  string
}

// mockImager records invocations and optionally fails.
type mockImager struct {
	calls []imagerCall
	err   error
}

func (m *mockImager) Create(_ context.Context, tool, size, outPath string) error {
	m.calls = append(m.calls, imagerCall{tool: tool, size: size, out: outPath})
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(outPath, []byte("card"), 0o644)
}

type auditRecord struct {
	action  string
	name    string
	success bool
	details string
}

// mockAuditor records every audit call.
type mockAuditor struct {
	records []auditRecord
	err     error
}

func (m *mockAuditor) Record(_ context.Context, action, name string, success bool, details string) error {
	m.records = append(m.records, auditRecord{action: action, name: name, success: success, details: details})
	return m.err
}

type notifyRecord struct {
	name  string
	event string
}

// mockNotifier records lifecycle events.
type mockNotifier struct {
	events []notifyRecord
}

func (m *mockNotifier) DefinitionEvent(name, event string) {
	m.events = append(m.events, notifyRecord{name: name, event: event})
}

// writeStubTool creates an executable file standing in for the storage
// card tool; the mock imager does the actual work.
func writeStubTool(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mksdcard")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("writing stub tool: %v", err)
	}
	return path
}
