// Package source connects a view to the outside diff provider. The provider
// is plain blocking Go; Fetcher runs it off the view's loop and posts each
// completion back through a Scheduler so that state is only ever mutated on
// the loop goroutine.
package source

import "context"

// Options are forwarded to the diff provider unchanged.
type Options struct {
	// ContextLines is the number of context lines around each change
	// ("git diff -U<n>"). Zero lets the provider pick its default.
	ContextLines int

	// IgnoreWhitespace asks the provider to ignore whitespace-only changes.
	IgnoreWhitespace bool
}

// DiffSource produces raw diff text. Implementations typically shell out to
// git; they should honor ctx cancellation and apply their own timeouts.
type DiffSource interface {
	// FetchDiff returns the diff lines for a tracked path, against the index
	// (staged=false) or against HEAD from the index (staged=true).
	FetchDiff(ctx context.Context, path string, staged bool, opts Options) ([]string, error)

	// FetchDiffUntracked returns the diff of an untracked file as a new file.
	FetchDiffUntracked(ctx context.Context, path string, opts Options) ([]string, error)

	// FetchSubmoduleRecordedSHA returns the commit a submodule is recorded at.
	FetchSubmoduleRecordedSHA(ctx context.Context, path string, opts Options) (string, error)
}

// Scheduler runs completion callbacks on the owner's goroutine.
type Scheduler interface {
	Post(fn func())
}

// Kind selects which DiffSource method a Request uses.
type Kind int

// Request kinds.
const (
	KindDiff Kind = iota
	KindUntracked
	KindSubmodule
)

func (k Kind) String() string {
	switch k {
	case KindDiff:
		return "diff"
	case KindUntracked:
		return "untracked"
	case KindSubmodule:
		return "submodule"
	default:
		return "unknown"
	}
}

// Request identifies one fetch.
type Request struct {
	Key    string // Cache key the result will be stored under.
	Path   string
	Kind   Kind
	Staged bool // Only used by KindDiff.
}

// Result is the outcome of one Request. Exactly one of Lines/SHA or Err is
// meaningful.
type Result struct {
	Request Request
	Lines   []string
	SHA     string
	Err     error
}
