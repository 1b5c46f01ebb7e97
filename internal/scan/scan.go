// Package scan enumerates module files under one or more roots.
//
// Traversal is top-down: a directory's files are yielded, in lexical order,
// before any of its subdirectories is entered. Symlinked directories are not
// followed. Exclusion patterns are matched against root + "/" + relative path,
// anchored at the start of the path but not at its end.
package scan

import (
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"depends/internal/errors"
	"depends/internal/paths"
	"depends/internal/slogutil"
)

// DefaultExtension is the suffix a file name needs to count as a module.
const DefaultExtension = ".py"

// Enumerator walks roots relative to a base directory and yields module paths
// relative to that base.
type Enumerator struct {
	base      string
	excludes  []*regexp.Regexp
	extension string
	logger    *slog.Logger
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(e *Enumerator) {
		if ext != "" {
			e.extension = ext
		}
	}
}

// WithLogger sets the logger used for per-file debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enumerator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Enumerator rooted at base. Relative roots passed to Files
// are joined to base; yielded paths are relative to it.
func New(base string, excludes []*regexp.Regexp, opts ...Option) *Enumerator {
	e := &Enumerator{
		base:      base,
		excludes:  excludes,
		extension: DefaultExtension,
		logger:    slogutil.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CompileExcludes compiles exclusion patterns, anchoring each at the start of the path.
func CompileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")")
		if err != nil {
			return nil, errors.New(errors.PatternInvalid, "invalid exclude pattern "+strconv.Quote(p), err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Files returns a single-pass sequence of module paths under root.
// A failure to read a directory ends the sequence with an IO_FAILED error.
func (e *Enumerator) Files(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		root = paths.TrimTrailingSeparator(root)
		dir := root
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(e.base, root)
		}
		e.walk(dir, root, yield)
	}
}

// All concatenates Files for each root in order. Overlapping roots yield
// the same module more than once.
func (e *Enumerator) All(roots []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, root := range roots {
			for path, err := range e.Files(root) {
				if !yield(path, err) {
					return
				}
				if err != nil {
					return
				}
			}
		}
	}
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var out []string
	for path, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, nil
}

// walk visits dir, whose user-facing spelling is display. It returns false
// once iteration must stop, either because the consumer quit or on error.
func (e *Enumerator) walk(dir, display string, yield func(string, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		yield("", errors.New(errors.IOFailed, "cannot read directory", err).WithPath(display))
		return false
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)

		switch kindOf(full, entry) {
		case kindDir:
			subdirs = append(subdirs, name)
			continue
		case kindSkip:
			continue
		}

		if !strings.HasSuffix(name, e.extension) {
			continue
		}

		matchPath := display + "/" + name
		if e.excluded(matchPath) {
			e.logger.Debug("Excluded module", "path", matchPath)
			continue
		}

		rel, err := paths.Relative(full, e.base)
		if err != nil {
			yield("", errors.New(errors.IOFailed, "cannot relativize path", err).WithPath(matchPath))
			return false
		}
		if !yield(rel, nil) {
			return false
		}
	}

	for _, name := range subdirs {
		if !e.walk(filepath.Join(dir, name), joinDisplay(display, name), yield) {
			return false
		}
	}
	return true
}

type entryKind int

const (
	kindFile entryKind = iota
	kindDir
	kindSkip
)

// kindOf classifies an entry. Symlinks to directories are skipped rather than
// followed; broken symlinks count as files.
func kindOf(full string, entry fs.DirEntry) entryKind {
	if entry.Type()&fs.ModeSymlink == 0 {
		if entry.IsDir() {
			return kindDir
		}
		return kindFile
	}
	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		return kindSkip
	}
	return kindFile
}

func (e *Enumerator) excluded(path string) bool {
	for _, re := range e.excludes {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func joinDisplay(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
