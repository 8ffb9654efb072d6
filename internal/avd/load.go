package avd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/emuforge/emuforge-core/internal/inifile"
	"github.com/emuforge/emuforge-core/internal/target"
)

// Catalog resolves target hashes for the loader and the lifecycle
// operations. Satisfied by *target.Catalog.
type Catalog interface {
	TargetFromHash(hash string) (target.Target, bool)
	Location() string
}

// descriptorPattern matches descriptor file names case-insensitively,
// capturing the definition name with its original case.
var descriptorPattern = regexp.MustCompile(`^(.+)\.[iI][nN][iI]$`)

// ensureRoot makes sure the definitions root exists as a directory,
// creating it if absent. A root that exists but is not a directory is a
// location error.
func ensureRoot(root string) error {
	fi, err := os.Stat(root)
	switch {
	case err == nil:
		if !fi.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrLocation, root)
		}
		return nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(root, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %v", ErrLocation, root, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s: %v", ErrLocation, root, err)
	}
}

// loadAll scans the definitions root and parses every descriptor into an
// Info. A bad descriptor never aborts the scan; it yields an Info with a
// diagnostic status. Only root access failures are fatal.
func loadAll(root string, catalog Catalog) ([]Info, error) {
	if err := ensureRoot(root); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrLocation, root, err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := descriptorPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		infos = append(infos, parseInfo(root, entry.Name(), m[1], catalog))
	}
	return infos, nil
}

// parseInfo builds one Info from a descriptor file. Every failure mode is
// captured as a status, never returned as an error.
func parseInfo(root, fileName, name string, catalog Catalog) Info {
	descriptor, err := inifile.Parse(filepath.Join(root, fileName))
	if err != nil {
		// An unreadable descriptor is indistinguishable from one
		// recording nothing.
		descriptor = inifile.New()
	}

	dataPath, _ := descriptor.Get(DescriptorKeyPath)
	targetHash, _ := descriptor.Get(DescriptorKeyTarget)

	var tgt target.Target
	if targetHash != "" {
		tgt, _ = catalog.TargetFromHash(targetHash)
	}

	configReadable := false
	var props *inifile.Properties
	if dataPath != "" {
		configPath := ConfigPath(dataPath)
		if fi, statErr := os.Stat(configPath); statErr == nil && !fi.IsDir() {
			configReadable = true
			props, _ = inifile.Parse(configPath)
		}
	}

	imageDirsOK := false
	if props != nil {
		imageDirsOK = checkImageDirs(catalog.Location(), props)
	}

	status := computeStatus(dataPath, configReadable, targetHash, tgt, props, imageDirsOK)
	return NewInfo(name, dataPath, targetHash, tgt, props, status)
}

// checkImageDirs reports whether every declared system image search path
// exists as a directory under the installation root, and at least one is
// declared.
func checkImageDirs(location string, props *inifile.Properties) bool {
	declared := 0
	for _, key := range []string{ConfigKeyImageDir1, ConfigKeyImageDir2} {
		rel, ok := props.Get(key)
		if !ok || rel == "" {
			continue
		}
		declared++
		fi, err := os.Stat(filepath.Join(location, rel))
		if err != nil || !fi.IsDir() {
			return false
		}
	}
	return declared > 0
}

// recursiveDelete removes path and everything below it, descending into
// each subdirectory before deleting it.
func recursiveDelete(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if err := recursiveDelete(child); err != nil {
				return err
			}
			continue
		}
		if err := os.Remove(child); err != nil {
			return fmt.Errorf("removing %s: %w", child, err)
		}
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// copyFile copies src to dst, creating or truncating dst.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
