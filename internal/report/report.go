// Package report drives a dependency-graph run: it builds the module universe,
// walks the reported modules, resolves their imports and streams DOT output.
package report

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"time"

	"depends/internal/config"
	"depends/internal/errors"
	"depends/internal/graph"
	"depends/internal/paths"
	"depends/internal/resolve"
	"depends/internal/scan"
	"depends/internal/slogutil"
)

// Extractor returns the raw import specifiers of one module, in source order.
type Extractor interface {
	Extract(ctx context.Context, modulePath string) ([]string, error)
}

// Options selects what a run reports on.
type Options struct {
	// Base is the scan root; the universe is everything under it. Defaults to ".".
	Base string
	// Roots are the paths whose modules are reported, relative to Base.
	Roots []string
	// Excludes filter reported modules only.
	Excludes []*regexp.Regexp
}

// Summary describes a completed run.
type Summary struct {
	Universe int
	Modules  int
	Nodes    int
	Edges    int
	Dropped  int
}

// Reporter runs dependency-graph reports.
type Reporter struct {
	cfg       *config.Config
	extractor Extractor
	logger    *slog.Logger
}

// New creates a reporter. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config, extractor Extractor, logger *slog.Logger) *Reporter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Reporter{
		cfg:       cfg,
		extractor: extractor,
		logger:    logger,
	}
}

// Run writes the dependency graph for opts.Roots to w. Any failure aborts the
// run at once; output written before the failure is left as is and the
// closing brace is not written.
func (r *Reporter) Run(ctx context.Context, w io.Writer, opts Options) (*Summary, error) {
	start := time.Now()
	if opts.Base == "" {
		opts.Base = "."
	}
	if len(opts.Roots) == 0 {
		return nil, errors.Newf(errors.ArgumentInvalid, "at least one package path is required")
	}

	ext := r.cfg.Scan.Extension

	universePaths, err := scan.Collect(
		scan.New(opts.Base, nil, scan.WithExtension(ext)).Files("."),
	)
	if err != nil {
		return nil, err
	}
	universe := resolve.NewUniverse(universePaths)

	r.logger.Debug("Module universe built", "base", opts.Base, "modules", universe.Len())

	resolver := resolve.New(universe,
		resolve.WithExtension(ext),
		resolve.WithPackageIndex(r.cfg.Scan.PackageIndex),
		resolve.WithCacheSize(r.cfg.Resolve.CacheSize),
		resolve.WithLogger(r.logger),
	)
	reported := scan.New(opts.Base, opts.Excludes,
		scan.WithExtension(ext),
		scan.WithLogger(r.logger),
	).All(opts.Roots)

	emitter := graph.NewEmitter(w)
	if err := emitter.Preamble(); err != nil {
		return nil, err
	}

	summary := &Summary{Universe: universe.Len()}
	for modulePath, err := range reported {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.New(errors.InternalError, "run cancelled", err)
		}

		dropped, err := r.reportModule(ctx, emitter, resolver, modulePath, ext)
		if err != nil {
			return nil, err
		}
		summary.Modules++
		summary.Dropped += dropped
	}

	if err := emitter.Close(); err != nil {
		return nil, err
	}

	stats := emitter.Stats()
	summary.Nodes = stats.Nodes
	summary.Edges = stats.Edges

	cache := resolver.Stats()
	r.logger.Info("Dependency graph emitted",
		"modules", summary.Modules,
		"nodes", summary.Nodes,
		"edges", summary.Edges,
		"dropped", summary.Dropped,
		"cache_hits", cache.Hits,
		"cache_misses", cache.Misses,
		"duration", time.Since(start),
	)
	return summary, nil
}

// reportModule emits modulePath's node, then a node and an edge for each
// import that resolves. It returns how many imports were dropped.
func (r *Reporter) reportModule(ctx context.Context, emitter *graph.Emitter, resolver *resolve.Resolver, modulePath, ext string) (int, error) {
	name := paths.CleanName(modulePath, ext)
	if err := emitter.Node(name); err != nil {
		return 0, err
	}

	specifiers, err := r.extractor.Extract(ctx, modulePath)
	if err != nil {
		return 0, errors.Wrap(err, errors.InternalError, "cannot extract imports from "+modulePath)
	}

	dropped := 0
	for _, spec := range specifiers {
		dep, ok := resolver.Resolve(modulePath, spec)
		if !ok {
			dropped++
			continue
		}
		if err := emitter.Node(dep.Name); err != nil {
			return dropped, err
		}
		if err := emitter.Edge(name, dep.Name); err != nil {
			return dropped, err
		}
	}
	return dropped, nil
}
