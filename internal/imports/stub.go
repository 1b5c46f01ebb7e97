//go:build !cgo

package imports

import "context"

// Parser is a stub for non-CGO builds.
type Parser struct{}

// NewParser returns a stub parser whose Imports always fails with ErrNoCGO.
func NewParser() *Parser {
	return &Parser{}
}

// IsAvailable returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}

// Imports always returns ErrNoCGO.
func (p *Parser) Imports(ctx context.Context, source []byte) ([]string, error) {
	return nil, ErrNoCGO
}

// Backend describes the parser compiled into this build.
func Backend() string {
	return "unavailable (built without cgo)"
}
