package avd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/emuforge/emuforge-core/internal/inifile"
	"github.com/emuforge/emuforge-core/internal/target"
)

// numericSkinPattern matches literal WIDTHxHEIGHT skin values, which are
// stored verbatim instead of being resolved against a skins directory.
var numericSkinPattern = regexp.MustCompile(`^[0-9]{2,}x[0-9]{2,}$`)

// imageFilePattern matches system image files, case-insensitively.
var imageFilePattern = regexp.MustCompile(`(?i)^.+\.img$`)

// relativeToLocation returns path relative to the installation root with
// a trailing separator, the form persisted in configuration files. A path
// outside the root is a fatal configuration error.
func relativeToLocation(location, path string) (string, error) {
	rel, err := filepath.Rel(location, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not under %s", ErrImageOutsideRoot, path, location)
	}
	return rel + "/", nil
}

// hasImageFiles reports whether dir exists and contains at least one
// image file. A directory with no images does not count as an image
// source.
func hasImageFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && imageFilePattern.MatchString(entry.Name()) {
			return true
		}
	}
	return false
}

// setImagePaths recomputes the system image search path properties for a
// target. The primary path comes from the target's own image directory,
// the secondary from its parent's when the target is an add-on. Both keys
// are cleared first so a stale path never survives a recomputation.
//
// The boolean reports whether at least one usable directory was found; a
// directory outside the installation root is returned as an error
// instead.
func setImagePaths(location string, t target.Target, props *inifile.Properties) (bool, error) {
	props.Delete(ConfigKeyImageDir1)
	props.Delete(ConfigKeyImageDir2)

	found := false

	imageDir := t.Path(target.Images)
	if hasImageFiles(imageDir) {
		rel, err := relativeToLocation(location, imageDir)
		if err != nil {
			return false, err
		}
		props.Set(ConfigKeyImageDir1, rel)
		found = true
	}

	if !t.IsPlatform() {
		parentDir := t.Parent().Path(target.Images)
		if hasImageFiles(parentDir) {
			rel, err := relativeToLocation(location, parentDir)
			if err != nil {
				return false, err
			}
			props.Set(ConfigKeyImageDir2, rel)
			found = true
		}
	}

	return found, nil
}

// findUserdata locates the seed user-data image for a target, falling
// back to the parent's image directory for add-ons that do not ship one.
func findUserdata(t target.Target) (string, error) {
	candidate := filepath.Join(t.Path(target.Images), UserdataFilename)
	if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
		return candidate, nil
	}
	if !t.IsPlatform() {
		candidate = filepath.Join(t.Parent().Path(target.Images), UserdataFilename)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: target %s", ErrNoUserdata, t.HashString())
}

// skinRelativePath resolves a skin name to a path relative to the
// installation root, trying the target's own skins directory and falling
// back to its parent's. Numeric WIDTHxHEIGHT values are handled by the
// caller and never reach this function.
func skinRelativePath(location string, t target.Target, skinName string) (string, error) {
	skinDir := filepath.Join(t.Path(target.Skins), skinName)
	if fi, err := os.Stat(skinDir); err == nil && fi.IsDir() {
		return relativeToLocation(location, skinDir)
	}
	if !t.IsPlatform() {
		skinDir = filepath.Join(t.Parent().Path(target.Skins), skinName)
		if fi, err := os.Stat(skinDir); err == nil && fi.IsDir() {
			return relativeToLocation(location, skinDir)
		}
	}
	return "", fmt.Errorf("%w: %q for target %s", ErrNoSkin, skinName, t.HashString())
}
