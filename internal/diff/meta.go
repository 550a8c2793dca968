package diff

import (
	"fmt"
	"os"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Meta describes the file a diff applies to, as declared by its header.
type Meta struct {
	OldName  string
	NewName  string
	IsNew    bool
	IsDelete bool
	IsRename bool
	IsCopy   bool
	IsBinary bool
	OldMode  os.FileMode
	NewMode  os.FileMode
}

// Name returns the path the presentation layer should show.
func (m Meta) Name() string {
	if m.NewName != "" {
		return m.NewName
	}
	return m.OldName
}

// Meta decodes the file header with go-gitdiff. A diff without any file
// header returns a zero Meta.
func (d *DiffData) Meta() (Meta, error) {
	lines := d.Lines()
	if len(lines) == 0 {
		return Meta{}, nil
	}

	files, _, err := gitdiff.Parse(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	if err != nil {
		return Meta{}, fmt.Errorf("parse diff header: %w", err)
	}
	if len(files) == 0 {
		return Meta{}, nil
	}

	f := files[0]
	return Meta{
		OldName:  f.OldName,
		NewName:  f.NewName,
		IsNew:    f.IsNew,
		IsDelete: f.IsDelete,
		IsRename: f.IsRename,
		IsCopy:   f.IsCopy,
		IsBinary: f.IsBinary,
		OldMode:  f.OldMode,
		NewMode:  f.NewMode,
	}, nil
}
