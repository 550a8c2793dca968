package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestCodedError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CodedError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CodeDiffNotCached, "no diff loaded"),
			expected: "diff.not_cached: no diff loaded",
		},
		{
			name:     "error with cause",
			err:      Wrap(CodeDiffFetchFailed, "fetch failed", errors.New("exit status 128")),
			expected: "diff.fetch_failed: fetch failed (exit status 128)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCodedError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	err := Wrap(CodeInternal, "wrapped", cause)

	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the original cause")
	}

	err2 := New(CodeHunkOutOfRange, "out of range")
	if err2.Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "CodedError", err: New(CodeHunkOutOfRange, "x"), expected: CodeHunkOutOfRange},
		{name: "wrapped CodedError", err: Wrap(CodeDiffFetchFailed, "failed", errors.New("cause")), expected: CodeDiffFetchFailed},
		{name: "plain error", err: errors.New("some error"), expected: CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetMessage(t *testing.T) {
	if got := GetMessage(nil); got != "" {
		t.Errorf("GetMessage(nil) = %q, want empty", got)
	}
	if got := GetMessage(New(CodeDiffNotCached, "expand first")); got != "expand first" {
		t.Errorf("GetMessage() = %q, want %q", got, "expand first")
	}
	if got := GetMessage(errors.New("some error")); got != "some error" {
		t.Errorf("GetMessage() = %q, want %q", got, "some error")
	}
}

func TestToCodeAndMessage(t *testing.T) {
	code, message := ToCodeAndMessage(InvalidLevel(7))
	if code != CodeStateInvalidLevel {
		t.Errorf("code = %q, want %q", code, CodeStateInvalidLevel)
	}
	if message != "invalid visibility level 7 (must be 1-4)" {
		t.Errorf("message = %q", message)
	}

	code, message = ToCodeAndMessage(errors.New("boom"))
	if code != CodeUnknown || message != "boom" {
		t.Errorf("plain error mapped to (%q, %q)", code, message)
	}

	code, message = ToCodeAndMessage(nil)
	if code != "" || message != "" {
		t.Errorf("nil error mapped to (%q, %q)", code, message)
	}
}

func TestIsCode(t *testing.T) {
	err := HunkOutOfRange(4, 2)

	if !IsCode(err, CodeHunkOutOfRange) {
		t.Error("IsCode() should return true for matching code")
	}
	if IsCode(err, CodeDiffNotCached) {
		t.Error("IsCode() should return false for non-matching code")
	}
	if IsCode(nil, CodeHunkOutOfRange) {
		t.Error("IsCode() should return false for nil error")
	}
}

func TestErrorConstructors(t *testing.T) {
	t.Run("HunkOutOfRange", func(t *testing.T) {
		err := HunkOutOfRange(3, 2)
		if err.Message != "hunk 3 out of range (diff has 2 hunks)" {
			t.Errorf("HunkOutOfRange() message = %q", err.Message)
		}
	})

	t.Run("FetchFailed", func(t *testing.T) {
		cause := errors.New("not a git repository")
		err := FetchFailed("unstaged:a.go", cause)
		if !IsCode(err, CodeDiffFetchFailed) {
			t.Errorf("FetchFailed() code = %q", GetCode(err))
		}
		if !errors.Is(err, cause) {
			t.Error("FetchFailed() should preserve cause")
		}
		if !strings.Contains(err.Message, "unstaged:a.go") {
			t.Errorf("FetchFailed() message = %q", err.Message)
		}
	})

	t.Run("NotCached", func(t *testing.T) {
		err := NotCached("staged:b.go")
		if !IsCode(err, CodeDiffNotCached) {
			t.Errorf("NotCached() code = %q", GetCode(err))
		}
	})

	t.Run("UnknownTarget", func(t *testing.T) {
		err := UnknownTarget("section nope")
		if err.Message != "unknown target section nope" {
			t.Errorf("UnknownTarget() message = %q", err.Message)
		}
	})

	t.Run("Internal", func(t *testing.T) {
		cause := errors.New("db connection lost")
		err := Internal("database error", cause)
		if !IsCode(err, CodeInternal) {
			t.Errorf("Internal() code = %q", GetCode(err))
		}
		if err.Cause != cause {
			t.Error("Internal() should preserve cause")
		}
	})
}

func TestErrorsAs(t *testing.T) {
	cause := errors.New("original")
	coded := Wrap(CodeDiffFetchFailed, "wrapped", cause)
	wrapped := Wrap(CodeInternal, "double wrapped", coded)

	var target *CodedError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should find CodedError in chain")
	}
	if target.Code != CodeInternal {
		t.Errorf("errors.As should find outermost CodedError, got code %q", target.Code)
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []string{
		CodeDiffFetchFailed,
		CodeDiffNotCached,
		CodeHunkOutOfRange,
		CodeSelectionOutOfRange,
		CodePatchInvalid,
		CodeStateInvalidLevel,
		CodeStateUnknownTarget,
		CodeStorageOpenFailed,
		CodeStorageQueryFailed,
		CodeStorageSaveFailed,
		CodeConfigInvalid,
		CodeUnknown,
		CodeInternal,
	}

	for _, code := range codes {
		domain, name, ok := strings.Cut(code, ".")
		if !ok || domain == "" || name == "" {
			t.Errorf("error code %q should be in format {domain}.{error}", code)
		}
	}
}
