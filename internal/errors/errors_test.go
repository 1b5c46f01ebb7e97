package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("underlying error")

	err := New(ParseFailed, "invalid syntax", cause)

	if err.Code != ParseFailed {
		t.Errorf("Code = %v, want %v", err.Code, ParseFailed)
	}
	if err.Message != "invalid syntax" {
		t.Errorf("Message = %q, want %q", err.Message, "invalid syntax")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		wantParts []string
	}{
		{
			name:      "with cause",
			err:       New(IOFailed, "cannot read file", errors.New("permission denied")),
			wantParts: []string{"IO_FAILED", "cannot read file", "permission denied"},
		},
		{
			name:      "without cause",
			err:       Newf(PatternInvalid, "bad pattern %q", "(["),
			wantParts: []string{"PATTERN_INVALID", `bad pattern "(["`},
		},
		{
			name:      "with path",
			err:       New(ParseFailed, "invalid syntax at 3:1", nil).WithPath("pkg/a.py"),
			wantParts: []string{"PARSE_FAILED", "3:1", "(pkg/a.py)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, should contain %q", got, part)
				}
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("processing: %w", New(ParseFailed, "bad", nil))

	if got := CodeOf(wrapped); got != ParseFailed {
		t.Errorf("CodeOf(wrapped) = %v, want %v", got, ParseFailed)
	}
	if got := CodeOf(errors.New("plain")); got != InternalError {
		t.Errorf("CodeOf(plain) = %v, want %v", got, InternalError)
	}
}

func TestIs(t *testing.T) {
	inner := New(IOFailed, "read failed", nil)
	outer := New(ParseFailed, "wrapping", inner)

	if !Is(outer, ParseFailed) {
		t.Error("Is(outer, ParseFailed) should be true")
	}
	if !Is(outer, IOFailed) {
		t.Error("Is(outer, IOFailed) should be true through the chain")
	}
	if Is(outer, PatternInvalid) {
		t.Error("Is(outer, PatternInvalid) should be false")
	}
	if Is(nil, ParseFailed) {
		t.Error("Is(nil, ...) should be false")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, IOFailed, "x") != nil {
		t.Error("Wrap(nil) should be nil")
	}

	coded := New(ParseFailed, "bad", nil)
	if got := Wrap(coded, IOFailed, "x"); got != coded {
		t.Error("Wrap should keep an existing *Error untouched")
	}

	got := Wrap(errors.New("disk gone"), IOFailed, "write failed")
	if CodeOf(got) != IOFailed {
		t.Errorf("CodeOf(Wrap(...)) = %v, want %v", CodeOf(got), IOFailed)
	}
}
