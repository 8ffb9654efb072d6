package inifile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// filePermissions is the permission mode for written property files.
const filePermissions = 0o644

// Properties is an ordered string-to-string mapping.
//
// Set preserves first-insertion order for new keys and updates values in
// place for existing keys, so writing a parsed file back produces the same
// key order.
type Properties struct {
	keys   []string
	values map[string]string
}

// New creates an empty property set.
func New() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Get returns the value for key and whether the key is present.
func (p *Properties) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// Set stores value under key, appending the key if it is new.
func (p *Properties) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Delete removes key from the set. Removing an absent key is a no-op.
func (p *Properties) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Clone returns an independent copy. Cloning nil returns nil.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	c := &Properties{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]string, len(p.values)),
	}
	copy(c.keys, p.keys)
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}

// Equal reports whether both sets contain the same keys with the same
// values. Order is ignored; two nil sets are equal.
func (p *Properties) Equal(other *Properties) bool {
	if p.Len() != other.Len() {
		return false
	}
	if p == nil || other == nil {
		return p.Len() == other.Len()
	}
	for k, v := range p.values {
		ov, ok := other.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Merge copies every entry of other into p, overwriting existing values.
// Keys new to p are appended in other's insertion order.
func (p *Properties) Merge(other *Properties) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		p.Set(k, other.values[k])
	}
}

// Parse reads a key=value property file.
//
// Blank lines and lines starting with '#' are skipped. A non-blank line
// without '=' is a parse error: the caller treats an unparsable file as a
// validation outcome, not a crash.
func Parse(path string) (*Properties, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening property file: %w", err)
	}
	defer f.Close()

	props := New()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("parsing %s: malformed line %d: %q", path, lineNo, line)
		}
		props.Set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return props, nil
}

// Write writes the property set to path, one key=value per line in
// insertion order. An existing file is truncated.
func Write(path string, props *Properties) error {
	var b strings.Builder
	for _, k := range props.Keys() {
		v, _ := props.Get(k)
		fmt.Fprintf(&b, "%s=%s\n", k, v)
	}
	if err := os.WriteFile(path, []byte(b.String()), filePermissions); err != nil {
		return fmt.Errorf("writing property file: %w", err)
	}
	return nil
}
