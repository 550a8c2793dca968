// Package errors provides standardized error codes for the staging engine.
//
// Error codes follow the format {domain}.{error} where:
//   - domain: The subsystem that generated the error (diff, hunk, state, storage)
//   - error: The specific error type within that domain
//
// Codes are stable so a presentation layer can branch on them; the message
// is meant for humans.
package errors

import (
	"errors"
	"fmt"
)

// Error codes by domain.
const (
	// Diff domain - fetching and caching diff text
	CodeDiffFetchFailed = "diff.fetch_failed" // Diff source returned an error
	CodeDiffNotCached   = "diff.not_cached"   // No parsed diff for the requested key

	// Hunk domain - structural addressing inside a parsed diff
	CodeHunkOutOfRange      = "hunk.out_of_range"      // Hunk index beyond the parsed diff
	CodeSelectionOutOfRange = "selection.out_of_range" // Display index outside the diff

	// Patch domain - synthesized patch validation
	CodePatchInvalid = "patch.invalid" // Synthesized patch failed validation

	// State domain - expansion and visibility transitions
	CodeStateInvalidLevel  = "state.invalid_level"  // Visibility level outside 1..4
	CodeStateUnknownTarget = "state.unknown_target" // Focus names a target the view lacks

	// Storage domain - layout persistence
	CodeStorageOpenFailed  = "storage.open_failed"  // Database open failed
	CodeStorageQueryFailed = "storage.query_failed" // Database query failed
	CodeStorageSaveFailed  = "storage.save_failed"  // Failed to save data

	// Config domain
	CodeConfigInvalid = "config.invalid" // Config value out of range

	// General domain - catch-all errors
	CodeUnknown  = "error.unknown"  // Unknown error
	CodeInternal = "error.internal" // Internal error
)

// CodedError wraps an error with a stable error code.
// This allows errors to carry both a code for programmatic handling
// and a message for human consumption.
type CodedError struct {
	Code    string // Stable error code (e.g., "hunk.out_of_range")
	Message string // Human-readable error message
	Cause   error  // Underlying error (may be nil)
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CodedError) Unwrap() error {
	return e.Cause
}

// New creates a new CodedError with the given code and message.
func New(code, message string) *CodedError {
	return &CodedError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new CodedError wrapping an existing error.
func Wrap(code, message string, cause error) *CodedError {
	return &CodedError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// GetCode extracts the error code from an error.
// If the error is a CodedError, returns its code.
// Falls back to CodeUnknown for unrecognized errors.
func GetCode(err error) string {
	if err == nil {
		return ""
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}

	return CodeUnknown
}

// GetMessage extracts a human-readable message from an error.
// If the error is a CodedError, returns its message.
// Otherwise, returns the error's Error() string.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Message
	}

	return err.Error()
}

// ToCodeAndMessage extracts both code and message from an error.
func ToCodeAndMessage(err error) (code, message string) {
	if err == nil {
		return "", ""
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code, coded.Message
	}

	return CodeUnknown, err.Error()
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code string) bool {
	return GetCode(err) == code
}

// Common error constructors for frequently used error types.

// HunkOutOfRange creates a "hunk.out_of_range" error.
// This means the caller referenced a hunk index that no longer exists,
// usually because the diff was recomputed underneath it.
func HunkOutOfRange(index, count int) *CodedError {
	return New(CodeHunkOutOfRange, fmt.Sprintf("hunk %d out of range (diff has %d hunks)", index, count))
}

// SelectionOutOfRange creates a "selection.out_of_range" error.
func SelectionOutOfRange(index, count int) *CodedError {
	return New(CodeSelectionOutOfRange, fmt.Sprintf("display line %d out of range (diff has %d display lines)", index, count))
}

// FetchFailed creates a "diff.fetch_failed" error.
func FetchFailed(key string, cause error) *CodedError {
	return Wrap(CodeDiffFetchFailed, fmt.Sprintf("fetching diff for %s failed", key), cause)
}

// NotCached creates a "diff.not_cached" error.
// The target has to be expanded (and fetched) before patches can be built.
func NotCached(key string) *CodedError {
	return New(CodeDiffNotCached, fmt.Sprintf("no diff loaded for %s (expand it first)", key))
}

// PatchInvalid creates a "patch.invalid" error.
func PatchInvalid(cause error) *CodedError {
	return Wrap(CodePatchInvalid, "synthesized patch is not a valid unified diff", cause)
}

// InvalidLevel creates a "state.invalid_level" error.
func InvalidLevel(level int) *CodedError {
	return New(CodeStateInvalidLevel, fmt.Sprintf("invalid visibility level %d (must be 1-4)", level))
}

// UnknownTarget creates a "state.unknown_target" error.
func UnknownTarget(target string) *CodedError {
	return New(CodeStateUnknownTarget, fmt.Sprintf("unknown target %s", target))
}

// Internal creates an "error.internal" error.
func Internal(message string, cause error) *CodedError {
	return Wrap(CodeInternal, message, cause)
}
