package source

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory is a DiffSource over diff text captured ahead of time, such as a
// saved `git diff` run. It is safe for concurrent use.
type Memory struct {
	mu         sync.RWMutex
	diffs      map[memoryKey][]string
	submodules map[string]string
}

type memoryKey struct {
	path      string
	staged    bool
	untracked bool
}

// NewMemory returns an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{
		diffs:      make(map[memoryKey][]string),
		submodules: make(map[string]string),
	}
}

// Add records the diff for path on the given side of the index.
func (m *Memory) Add(path string, staged bool, lines []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diffs[memoryKey{path: path, staged: staged}] = slices.Clone(lines)
}

// AddUntracked records the diff for an untracked path.
func (m *Memory) AddUntracked(path string, lines []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diffs[memoryKey{path: path, untracked: true}] = slices.Clone(lines)
}

// AddSubmodule records the SHA a submodule path points at.
func (m *Memory) AddSubmodule(path, sha string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submodules[path] = sha
}

// FetchDiff implements DiffSource.
func (m *Memory) FetchDiff(ctx context.Context, path string, staged bool, _ Options) ([]string, error) {
	return m.lookup(ctx, memoryKey{path: path, staged: staged})
}

// FetchDiffUntracked implements DiffSource.
func (m *Memory) FetchDiffUntracked(ctx context.Context, path string, _ Options) ([]string, error) {
	return m.lookup(ctx, memoryKey{path: path, untracked: true})
}

// FetchSubmoduleRecordedSHA implements DiffSource.
func (m *Memory) FetchSubmoduleRecordedSHA(ctx context.Context, path string, _ Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sha, ok := m.submodules[path]
	if !ok {
		return "", fmt.Errorf("no recorded sha for submodule %s", path)
	}
	return sha, nil
}

func (m *Memory) lookup(ctx context.Context, k memoryKey) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines, ok := m.diffs[k]
	if !ok {
		return nil, fmt.Errorf("no diff for %s", k.path)
	}
	return slices.Clone(lines), nil
}
