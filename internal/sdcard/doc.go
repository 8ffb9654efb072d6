// Package sdcard creates storage card images by invoking the external
// image tool.
//
// The tool contract is positional: `<tool> <size> <outputPath>`, exit code
// zero on success. The runner drains stdout and stderr concurrently and
// keeps the captured lines separate, so a failure can surface exactly what
// the tool wrote to stderr.
//
// The runner applies no timeout of its own: a hung tool blocks the caller
// until the passed context is cancelled.
package sdcard
