// Package imports extracts raw import specifiers from Python source.
package imports

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"

	"depends/internal/errors"
	"depends/internal/paths"
	"depends/internal/slogutil"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = stderrors.New("import extraction requires CGO (tree-sitter)")

// Indentation faults the grammar itself accepts.
const (
	reasonExpectedIndent   = "expected an indented block"
	reasonUnexpectedIndent = "unexpected indent"
	reasonUnindent         = "unindent does not match any outer indentation level"
)

// SyntaxError reports the first position at which the source failed to parse.
// Line and Column are 1-indexed.
type SyntaxError struct {
	Line   int
	Column int
	// Missing is true when the parser expected a token that was absent.
	Missing bool
	// Reason names an indentation fault; empty for plain grammar errors.
	Reason string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("%s at %d:%d", e.Reason, e.Line, e.Column)
	case e.Missing:
		return fmt.Sprintf("invalid syntax at %d:%d (missing token)", e.Line, e.Column)
	default:
		return fmt.Sprintf("invalid syntax at %d:%d", e.Line, e.Column)
	}
}

// Extractor reads module files relative to a base directory and returns
// their import specifiers in document order.
type Extractor struct {
	base   string
	parser *Parser
	logger *slog.Logger
}

// NewExtractor creates an extractor for module paths relative to base.
func NewExtractor(base string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Extractor{
		base:   base,
		parser: NewParser(),
		logger: logger,
	}
}

// Extract reads modulePath and returns its import specifiers.
func (x *Extractor) Extract(ctx context.Context, modulePath string) ([]string, error) {
	source, err := os.ReadFile(paths.JoinRepoPath(x.base, modulePath))
	if err != nil {
		return nil, errors.New(errors.IOFailed, "cannot read module", err).WithPath(modulePath)
	}
	return x.ExtractSource(ctx, modulePath, source)
}

// ExtractSource returns the import specifiers in source; path is used for errors only.
func (x *Extractor) ExtractSource(ctx context.Context, path string, source []byte) ([]string, error) {
	specs, err := x.parser.Imports(ctx, source)
	if err != nil {
		var syntaxErr *SyntaxError
		switch {
		case stderrors.As(err, &syntaxErr):
			return nil, errors.New(errors.ParseFailed, syntaxErr.Error(), nil).WithPath(path)
		case stderrors.Is(err, ErrNoCGO):
			return nil, errors.New(errors.ParserUnavailable, "parser backend not compiled in", err).WithPath(path)
		default:
			return nil, errors.New(errors.InternalError, "parse aborted", err).WithPath(path)
		}
	}

	x.logger.Debug("Extracted imports", "path", path, "count", len(specs))
	return specs, nil
}
