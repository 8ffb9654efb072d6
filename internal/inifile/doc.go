// Package inifile reads and writes the line-oriented key=value files that
// back virtual device definitions.
//
// The format is deliberately minimal: one `key=value` pair per line, no
// escaping, no sections. Lines starting with '#' are treated as comments on
// read and are not preserved. Key order is not semantically significant on
// read but is preserved on write, so a parse/write round trip keeps files
// diffable.
//
// # Key Types
//
//   - Properties: an ordered string-to-string mapping. Mutating methods are
//     only used while a property set is being assembled; once a set is handed
//     to the avd package it is treated as immutable and only copied.
//
// # Usage
//
//	props := inifile.New()
//	props.Set("skin.name", "320x480")
//	if err := inifile.Write(path, props); err != nil {
//	    return err
//	}
//
//	loaded, err := inifile.Parse(path)
package inifile
