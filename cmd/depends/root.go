package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"depends/internal/config"
	"depends/internal/errors"
	"depends/internal/imports"
	"depends/internal/report"
	"depends/internal/scan"
	"depends/internal/slogutil"
	"depends/internal/version"
)

var (
	// excludeFlags holds every --exclude value, uncompiled
	excludeFlags []string

	build = version.Current(imports.Backend())
)

var rootCmd = &cobra.Command{
	Use:   "depends <package_path>...",
	Short: "Write the import dependency graph of Python packages as Graphviz DOT",
	Long: `depends scans the current directory for Python modules, reads the imports of
every module under the given package paths and writes a DOT digraph to stdout.

Imports that do not resolve to a module in the current directory, such as the
standard library or installed packages, are left out of the graph.

Examples:
  depends mypkg > deps.dot
  depends mypkg otherpkg --exclude 'mypkg/tests' --exclude '.*/migrations'
  depends mypkg | dot -Tsvg -o deps.svg`,
	Args:    cobra.MinimumNArgs(1),
	Version: build.Short(),
	RunE:    runDepends,
}

func init() {
	rootCmd.SetVersionTemplate(build.String() + "\n")
	rootCmd.Flags().StringArrayVar(&excludeFlags, "exclude", nil,
		"Regular expression matched from the start of each module path; matching modules are not reported (repeatable)")
}

func runDepends(cmd *cobra.Command, args []string) error {
	// Arguments are valid from here on; later failures are not usage errors.
	cmd.SilenceUsage = true

	repoRoot, err := getRepoRoot()
	if err != nil {
		return errors.New(errors.IOFailed, "cannot determine working directory", err)
	}

	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	excludes, err := scan.CompileExcludes(excludeFlags)
	if err != nil {
		return err
	}

	logger.Debug("Starting run",
		"roots", args,
		"excludes", excludeFlags,
		"version", build.Short(),
	)

	reporter := report.New(cfg, imports.NewExtractor(".", logger), logger)
	_, err = reporter.Run(newContext(), cmd.OutOrStdout(), report.Options{
		Base:     ".",
		Roots:    args,
		Excludes: excludes,
	})
	return err
}

// loadConfig reads and validates the configuration for repoRoot.
func loadConfig(repoRoot string) (*config.Config, error) {
	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		return nil, errors.New(errors.ArgumentInvalid, "cannot load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.New(errors.ArgumentInvalid, "invalid configuration", err)
	}
	return cfg, nil
}

// newLogger builds the run logger from the logging section of cfg.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	logger := slogutil.NewFormatLogger(w,
		slogutil.Format(cfg.Logging.Format),
		slogutil.LevelFromString(cfg.Logging.Level),
	)
	return slogutil.WithRunID(logger)
}

// getRepoRoot returns the directory the universe is scanned from.
func getRepoRoot() (string, error) {
	return os.Getwd()
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}
