// Package resolve maps raw import specifiers onto modules of a fixed universe.
//
// A specifier is turned into a path fragment by replacing every "." with "/".
// Four candidate paths are then tried, first hit wins:
//
//	{dir}/{fragment}.py           sibling module
//	{dir}/{fragment}/__init__.py  sibling package
//	{fragment}.py                 root module
//	{fragment}/__init__.py        root package
//
// where dir is the importing module's directory. Specifiers that hit none of
// them are external or unlocatable and are dropped without error.
package resolve

import (
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"depends/internal/paths"
	"depends/internal/slogutil"
)

// DefaultCacheSize bounds the (directory, specifier) memo.
const DefaultCacheSize = 4096

// Kind identifies which candidate form matched.
type Kind int

const (
	SiblingModule Kind = iota
	SiblingPackage
	RootModule
	RootPackage
)

func (k Kind) String() string {
	switch k {
	case SiblingModule:
		return "sibling-module"
	case SiblingPackage:
		return "sibling-package"
	case RootModule:
		return "root-module"
	case RootPackage:
		return "root-package"
	default:
		return "unknown"
	}
}

// Resolution describes a specifier that maps onto a known module.
type Resolution struct {
	// Specifier is the import specifier as written in source
	Specifier string
	// Path is the matched module path
	Path string
	// Name is the matched module's clean name, used as its graph label
	Name string
	Kind Kind
}

// Universe is the immutable set of known module paths.
type Universe struct {
	paths map[string]struct{}
}

// NewUniverse builds a universe from enumerated module paths.
func NewUniverse(modulePaths []string) Universe {
	set := make(map[string]struct{}, len(modulePaths))
	for _, p := range modulePaths {
		set[p] = struct{}{}
	}
	return Universe{paths: set}
}

// Contains reports whether path is a known module.
func (u Universe) Contains(path string) bool {
	_, ok := u.paths[path]
	return ok
}

// Len returns the number of distinct modules.
func (u Universe) Len() int {
	return len(u.paths)
}

type cacheKey struct {
	dir       string
	specifier string
}

type cacheEntry struct {
	resolution Resolution
	ok         bool
}

// Resolver resolves specifiers against a Universe.
type Resolver struct {
	universe     Universe
	extension    string
	packageIndex string
	cacheSize    int
	cache        *lru.Cache[cacheKey, cacheEntry]
	logger       *slog.Logger
	hits         int
	misses       int
}

// CacheStats reports how the (directory, specifier) memo performed.
// Every module in a directory shares its imports' keys, so on large trees
// most lookups after the first module in a directory are hits.
type CacheStats struct {
	Hits    int
	Misses  int
	Entries int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtension sets the module file extension (default ".py").
func WithExtension(ext string) Option {
	return func(r *Resolver) {
		if ext != "" {
			r.extension = ext
		}
	}
}

// WithPackageIndex sets the package marker file name (default "__init__.py").
func WithPackageIndex(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.packageIndex = name
		}
	}
}

// WithCacheSize bounds the memo; 0 disables it.
func WithCacheSize(size int) Option {
	return func(r *Resolver) {
		r.cacheSize = size
	}
}

// WithLogger sets the logger for per-specifier debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a resolver over universe.
func New(universe Universe, opts ...Option) *Resolver {
	r := &Resolver{
		universe:     universe,
		extension:    ".py",
		packageIndex: "__init__.py",
		cacheSize:    DefaultCacheSize,
		logger:       slogutil.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cacheSize > 0 {
		// lru.New only fails for non-positive sizes
		r.cache, _ = lru.New[cacheKey, cacheEntry](r.cacheSize)
	}
	return r
}

// Resolve maps specifier, imported from modulePath, onto a known module.
// The result depends only on modulePath's directory and the specifier.
func (r *Resolver) Resolve(modulePath, specifier string) (Resolution, bool) {
	key := cacheKey{dir: paths.ModuleDir(modulePath), specifier: specifier}

	if r.cache != nil {
		if entry, ok := r.cache.Get(key); ok {
			r.hits++
			return entry.resolution, entry.ok
		}
		r.misses++
	}

	res, ok := r.lookup(key.dir, specifier)
	if ok {
		r.logger.Debug("Resolved import",
			"module", modulePath,
			"specifier", specifier,
			"target", res.Path,
			"kind", res.Kind.String(),
		)
	} else {
		r.logger.Debug("Dropped unresolved import", "module", modulePath, "specifier", specifier)
	}

	if r.cache != nil {
		r.cache.Add(key, cacheEntry{resolution: res, ok: ok})
	}
	return res, ok
}

// Stats returns memo counters; all zero when the cache is disabled.
func (r *Resolver) Stats() CacheStats {
	if r.cache == nil {
		return CacheStats{}
	}
	return CacheStats{Hits: r.hits, Misses: r.misses, Entries: r.cache.Len()}
}

// Candidates lists the paths tried for specifier from dir, in precedence order.
func (r *Resolver) Candidates(dir, specifier string) []string {
	fragment := strings.ReplaceAll(specifier, ".", "/")
	return []string{
		dir + "/" + fragment + r.extension,
		dir + "/" + fragment + "/" + r.packageIndex,
		fragment + r.extension,
		fragment + "/" + r.packageIndex,
	}
}

func (r *Resolver) lookup(dir, specifier string) (Resolution, bool) {
	for i, candidate := range r.Candidates(dir, specifier) {
		if r.universe.Contains(candidate) {
			return Resolution{
				Specifier: specifier,
				Path:      candidate,
				Name:      paths.CleanName(candidate, r.extension),
				Kind:      Kind(i),
			}, true
		}
	}
	return Resolution{}, false
}
