// Package testutil provides fixture trees and golden-file helpers for tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/BurntSushi/toml"
)

// ManifestFile names the per-fixture run description.
const ManifestFile = "fixture.toml"

// Manifest describes how a fixture is run.
type Manifest struct {
	// Roots are the package paths to report on, relative to the source tree
	Roots []string `toml:"roots"`
	// Exclude are exclusion patterns applied to reported modules
	Exclude []string `toml:"exclude"`
}

// FixtureContext holds information about a loaded fixture.
type FixtureContext struct {
	// Name is the fixture directory name
	Name string

	// Root is the absolute path to the fixture directory
	Root string

	// SourceDir is the scanned tree (<Root>/src)
	SourceDir string

	// ExpectedDir is the path to the expected/ directory
	ExpectedDir string

	Manifest Manifest
}

// LoadFixture loads a named fixture from testdata/fixtures, failing the test on error.
func LoadFixture(t *testing.T, name string) *FixtureContext {
	t.Helper()

	fixtureDir := filepath.Join(getFixturesRoot(t), name)
	if _, err := os.Stat(fixtureDir); os.IsNotExist(err) {
		t.Fatalf("Fixture directory not found: %s", fixtureDir)
	}

	var manifest Manifest
	if _, err := toml.DecodeFile(filepath.Join(fixtureDir, ManifestFile), &manifest); err != nil {
		t.Fatalf("Failed to read %s for fixture %s: %v", ManifestFile, name, err)
	}
	if len(manifest.Roots) == 0 {
		t.Fatalf("Fixture %s declares no roots", name)
	}

	return &FixtureContext{
		Name:        name,
		Root:        fixtureDir,
		SourceDir:   filepath.Join(fixtureDir, "src"),
		ExpectedDir: filepath.Join(fixtureDir, "expected"),
		Manifest:    manifest,
	}
}

// ExpectedPath returns the path to a golden file within the fixture.
// The name should not include the .dot extension.
func (f *FixtureContext) ExpectedPath(name string) string {
	return filepath.Join(f.ExpectedDir, name+".dot")
}

// AvailableFixtures lists fixture directories that carry a manifest, sorted.
func AvailableFixtures(t *testing.T) []string {
	t.Helper()

	root := getFixturesRoot(t)
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read fixtures directory: %v", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || isHiddenDir(entry.Name()) {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), ManifestFile)); err == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// ForEachFixture runs fn as a subtest for every available fixture.
func ForEachFixture(t *testing.T, fn func(t *testing.T, fixture *FixtureContext)) {
	t.Helper()

	names := AvailableFixtures(t)
	if len(names) == 0 {
		t.Skip("No fixtures available")
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			fn(t, LoadFixture(t, name))
		})
	}
}

// WriteTree creates files under root from a map of slash-separated path to content.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// getFixturesRoot returns the absolute path to testdata/fixtures/.
func getFixturesRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// Navigate from internal/testutil to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	fixturesRoot := filepath.Join(projectRoot, "testdata", "fixtures")

	if _, err := os.Stat(fixturesRoot); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", fixturesRoot)
	}

	return fixturesRoot
}

func isHiddenDir(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
