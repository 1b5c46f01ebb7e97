package testutil

import (
	"strings"
	"testing"
)

func TestUnifiedDiff(t *testing.T) {
	diff := unifiedDiff("a\nb\nc\n", "a\nB\nc\n", "x.dot")

	for _, want := range []string{"--- x.dot (expected)", "+++ x.dot (got)", "-b", "+B", " a"} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff missing %q:\n%s", want, diff)
		}
	}
}

func TestNormalize(t *testing.T) {
	fixture := &FixtureContext{SourceDir: "/abs/fixture/src"}

	got := string(Normalize(fixture, []byte("\"/abs/fixture/src/pkg/a\"\r\n}\r\n")))
	want := "\"<FIXTURE>/pkg/a\"\n}\n"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestAvailableFixtures(t *testing.T) {
	names := AvailableFixtures(t)
	if len(names) == 0 {
		t.Fatal("expected at least one fixture under testdata/fixtures")
	}
	for _, name := range names {
		fixture := LoadFixture(t, name)
		if len(fixture.Manifest.Roots) == 0 {
			t.Errorf("fixture %s has no roots", name)
		}
	}
}
