//go:build cgo

package imports

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"depends/internal/errors"
)

func TestParser_Imports(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "plain import",
			source: "import os\n",
			want:   []string{"os"},
		},
		{
			name:   "several names in one statement",
			source: "import a, b.c, d\n",
			want:   []string{"a", "b.c", "d"},
		},
		{
			name:   "aliased",
			source: "import numpy as np, pkg.mod as m\n",
			want:   []string{"numpy", "pkg.mod"},
		},
		{
			name:   "from import contributes module once",
			source: "from pkg.sub import a, b, c\n",
			want:   []string{"pkg.sub"},
		},
		{
			name:   "parenthesized from import",
			source: "from pkg import (\n    a,\n    b,\n)\n",
			want:   []string{"pkg"},
		},
		{
			name:   "wildcard",
			source: "from pkg.util import *\n",
			want:   []string{"pkg.util"},
		},
		{
			name:   "relative import drops dots",
			source: "from .sibling import x\nfrom ..parent.mod import y\n",
			want:   []string{"sibling", "parent.mod"},
		},
		{
			name:   "bare relative import has no module",
			source: "from . import x\n",
			want:   nil,
		},
		{
			name:   "future import",
			source: "from __future__ import annotations\nimport a\n",
			want:   []string{"__future__", "a"},
		},
		{
			name: "nested blocks in document order",
			source: `import first

if True:
    import in_if
else:
    from in_else import x

def f():
    import in_func
    try:
        import in_try
    except ImportError:
        import in_except

class C:
    from in_class import y

import last
`,
			want: []string{"first", "in_if", "in_else", "in_func", "in_try", "in_except", "in_class", "last"},
		},
		{
			name:   "no imports",
			source: "x = 1\n",
			want:   nil,
		},
		{
			name:   "empty file",
			source: "",
			want:   nil,
		},
		{
			name:   "comment between parts is ignored",
			source: "import a.b  # trailing\n",
			want:   []string{"a.b"},
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Imports(context.Background(), []byte(tt.source))
			if err != nil {
				t.Fatalf("Imports() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Imports() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParser_SyntaxError(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantReason string
		wantLine   int
	}{
		{
			name:   "grammar error",
			source: "import os\ndef broken(:\n    pass\n",
		},
		{
			name:       "body not indented",
			source:     "def f():\nreturn 1\n",
			wantReason: reasonExpectedIndent,
			wantLine:   2,
		},
		{
			name:     "dedent to an unknown level",
			source:   "if x:\n    a = 1\n  b = 2\nimport os\n",
			wantLine: 3,
		},
		{
			name:     "indented first statement",
			source:   "  import os\n",
			wantLine: 1,
		},
		{
			name:   "over-indented line inside a block",
			source: "class A:\n    x = 1\n        y = 2\n",
		},
		{
			name:   "indented line after an inline body",
			source: "if x: pass\n    import os\n",
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := p.Imports(context.Background(), []byte(tt.source))
			if err == nil {
				t.Fatalf("Imports() = %v, want a syntax error", specs)
			}
			syntaxErr, ok := err.(*SyntaxError)
			if !ok {
				t.Fatalf("error type = %T, want *SyntaxError", err)
			}
			if syntaxErr.Line < 1 || syntaxErr.Column < 1 {
				t.Errorf("position %d:%d should be 1-indexed", syntaxErr.Line, syntaxErr.Column)
			}
			if tt.wantReason != "" && syntaxErr.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", syntaxErr.Reason, tt.wantReason)
			}
			if tt.wantLine != 0 && syntaxErr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", syntaxErr.Line, tt.wantLine)
			}
		})
	}
}

func TestParser_IndentationAccepted(t *testing.T) {
	sources := map[string]string{
		"inline bodies":        "if x: import a\nelse: import b\nclass C: pass\n",
		"semicolons":           "import a; import b\nif x:\n    y = 1; import c\n",
		"comments anywhere":    "def f():\n        # deep\n    import a\n    return a\n# shallow\n",
		"continuation lines":   "x = (1 +\n  2)\ny = 1 + \\\n      2\nimport a\n",
		"multi-line header":    "def f(\n    a,\n):\n    import a\n",
		"tab indentation":      "if x:\n\timport a\n\tif y:\n\t\timport b\n",
		"decorated definition": "@wrap\ndef f():\n    import a\n",
		"nested dedent":        "if a:\n    if b:\n        x = 1\n    y = 2\nz = 3\n",
	}

	p := NewParser()
	for name, source := range sources {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Imports(context.Background(), []byte(source)); err != nil {
				t.Errorf("Imports(%q) error = %v", source, err)
			}
		})
	}
}

func TestExtractor_Extract(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "pkg"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "pkg", "a.py"), []byte("import pkg.b\nimport os\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewExtractor(base, nil).Extract(context.Background(), "pkg/a.py")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []string{"pkg.b", "os"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractor_ParseFailed(t *testing.T) {
	x := NewExtractor(t.TempDir(), nil)

	for _, source := range []string{"import (\n", "def f():\nreturn 1\n"} {
		_, err := x.ExtractSource(context.Background(), "bad.py", []byte(source))
		if err == nil {
			t.Fatalf("ExtractSource(%q) expected an error", source)
		}
		if errors.CodeOf(err) != errors.ParseFailed {
			t.Errorf("ExtractSource(%q) error code = %v, want %v", source, errors.CodeOf(err), errors.ParseFailed)
		}
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable() {
		t.Error("IsAvailable() should be true in cgo builds")
	}
}
