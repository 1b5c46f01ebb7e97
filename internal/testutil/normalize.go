package testutil

import (
	"bytes"
)

// Normalize prepares output for stable golden comparison: line endings are
// unified and the fixture's absolute path is replaced by a placeholder.
func Normalize(fixture *FixtureContext, data []byte) []byte {
	out := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if fixture != nil && fixture.SourceDir != "" {
		out = bytes.ReplaceAll(out, []byte(fixture.SourceDir), []byte("<FIXTURE>"))
	}
	return out
}
