package view

import (
	"github.com/pseudocoder/hunkstage/internal/diff"
	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
	"github.com/pseudocoder/hunkstage/internal/patch"
)

// StagePatch is a patch ready to hand to the diff source's apply step.
// Patches always target the index; Reverse is set when they come from the
// staged section and so unstage.
type StagePatch struct {
	Key     string
	Patch   patch.Patch
	Reverse bool
}

// HunkPatch builds the patch that stages (or, in the staged section,
// unstages) one whole hunk of key's loaded diff.
func (s *Session) HunkPatch(key string, hunk int) (StagePatch, error) {
	t, err := s.idx.target(key)
	if err != nil {
		return StagePatch{}, err
	}
	d, err := s.loaded(key)
	if err != nil {
		return StagePatch{}, err
	}
	p, err := patch.Hunk(d, hunk)
	if err != nil {
		return StagePatch{}, err
	}
	if err := s.verify(p); err != nil {
		return StagePatch{}, err
	}
	return StagePatch{Key: key, Patch: p, Reverse: t.section.Staged()}, nil
}

// LinesPatch builds the patch for a line selection. selected holds 1-based
// display indices; the hunk is the one containing the first of them and
// indices outside that hunk are ignored.
//
// ok is false when the selection makes no change, in which case nothing
// should be applied.
func (s *Session) LinesPatch(key string, selected []int) (sp StagePatch, ok bool, err error) {
	t, err := s.idx.target(key)
	if err != nil {
		return StagePatch{}, false, err
	}
	if len(selected) == 0 {
		return StagePatch{}, false, nil
	}
	d, err := s.loaded(key)
	if err != nil {
		return StagePatch{}, false, err
	}
	hunk, _, err := locate(d, selected[0])
	if err != nil {
		return StagePatch{}, false, err
	}

	reverse := t.section.Staged()
	p, ok, err := patch.Partial(d, hunk, selected, reverse)
	if err != nil || !ok {
		return StagePatch{}, false, err
	}
	if err := s.verify(p); err != nil {
		return StagePatch{}, false, err
	}
	return StagePatch{Key: key, Patch: p, Reverse: reverse}, true, nil
}

// loaded returns key's cached diff.
func (s *Session) loaded(key string) (*diff.DiffData, error) {
	d, ok := s.Diff(key)
	if !ok {
		return nil, apperrors.NotCached(key)
	}
	return d, nil
}

func (s *Session) verify(p patch.Patch) error {
	if !s.opts.VerifyPatches {
		return nil
	}
	return patch.Verify(p)
}

func locate(d *diff.DiffData, displayIndex int) (hunk, line int, err error) {
	hunk, line, ok := d.Locate(displayIndex)
	if !ok {
		return 0, 0, apperrors.SelectionOutOfRange(displayIndex, len(d.DisplayLines))
	}
	return hunk, line, nil
}
