package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pseudocoder/hunkstage/internal/expansion"
	"github.com/pseudocoder/hunkstage/internal/storage"
	"github.com/pseudocoder/hunkstage/internal/view"
)

func TestSnapshot(t *testing.T) {
	h := newHarness(t, unstagedOnly("a.go", "b.go"), view.Options{})
	h.src.Set("a.go", false, twoHunks("a.go")...)
	h.src.Set("b.go", false, twoHunks("b.go")...)

	h.expand(t, "unstaged:a.go")
	require.NoError(t, h.session.ToggleHunk("unstaged:a.go", 1))
	h.expand(t, "unstaged:b.go")
	require.NoError(t, h.session.SetLevel(view.Focus{Section: view.SectionUnstaged, Path: "b.go"}, view.LevelHeaders))
	require.NoError(t, h.session.ToggleHunk("unstaged:b.go", 2))
	require.NoError(t, h.session.ToggleFile("unstaged:b.go"))

	layout := h.session.Snapshot("repo")

	assert.Equal(t, "repo", layout.Name)
	assert.Equal(t, []storage.Entry{{Key: "unstaged:a.go", Kind: "partial_hunks", Hunks: []int{2}}}, layout.States)
	assert.Equal(t, []storage.Entry{{Key: "unstaged:b.go", Kind: "partial_hunks", Hunks: []int{2}}}, layout.Remembered)
	assert.Equal(t, []string{view.SectionUnstaged}, layout.Sections)
	assert.Equal(t, map[string]int{"file:unstaged:b.go": view.LevelHeaders}, layout.Levels)
}

func TestSaveAndLoad_RoundTripThroughSQLite(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sections := []view.Section{
		{Name: view.SectionUnstaged, Items: files("a.go", "b.go")},
		{Name: view.SectionStaged, Items: files("c.go")},
	}

	first := newHarness(t, sections, view.Options{})
	first.src.Set("a.go", false, twoHunks("a.go")...)
	first.src.Set("b.go", false, twoHunks("b.go")...)
	first.expand(t, "unstaged:a.go")
	require.NoError(t, first.session.ToggleHunk("unstaged:a.go", 2))
	first.expand(t, "unstaged:b.go")
	require.NoError(t, first.session.ToggleSection(view.SectionStaged))
	require.NoError(t, first.session.Save(db, "repo"))

	second := newHarness(t, sections, view.Options{})
	second.src.Set("a.go", false, twoHunks("a.go")...)
	// b.go no longer has a diff; its fetch fails.

	found, err := second.session.Load(db, "repo")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, second.session.SectionOpen(view.SectionUnstaged))
	assert.False(t, second.session.SectionOpen(view.SectionStaged))

	second.sched.RunNext(t)

	a := second.session.State("unstaged:a.go")
	assert.Equal(t, expansion.KindPartialHunks, a.Kind())
	assert.True(t, a.HunkExpanded(1))
	assert.False(t, a.HunkExpanded(2))
	assert.True(t, second.session.Cached("unstaged:a.go"))
	assert.True(t, second.session.State("unstaged:b.go").IsCollapsed())
	assert.Contains(t, second.errs, "unstaged:b.go")
	assert.Equal(t, 1, second.renders)
}

func TestLoad_MissingLayout(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := newHarness(t, unstagedOnly("a.go"), view.Options{})
	found, err := h.session.Load(db, "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRestore_SkipsUnknownKeysAndKinds(t *testing.T) {
	h := newHarness(t, unstagedOnly("a.go"), view.Options{})

	h.session.Restore(&storage.Layout{
		Name: "repo",
		States: []storage.Entry{
			{Key: "unstaged:gone.go", Kind: "fully_expanded"},
			{Key: "unstaged:a.go", Kind: "sideways"},
		},
		Sections: []string{view.SectionUnstaged},
	})

	assert.Zero(t, h.src.Calls())
	assert.True(t, h.session.State("unstaged:a.go").IsCollapsed())
	assert.Equal(t, 1, h.renders)
}
