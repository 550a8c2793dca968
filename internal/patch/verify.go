package patch

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
)

// Verify parses p with go-gitdiff and checks every fragment's declared counts
// against its body. It catches count mistakes before "git apply" does.
func Verify(p Patch) error {
	files, _, err := gitdiff.Parse(strings.NewReader(p.String()))
	if err != nil {
		return apperrors.PatchInvalid(err)
	}
	if len(files) != 1 {
		return apperrors.PatchInvalid(fmt.Errorf("expected 1 file, got %d", len(files)))
	}
	for _, frag := range files[0].TextFragments {
		if err := frag.Validate(); err != nil {
			return apperrors.PatchInvalid(err)
		}
	}
	return nil
}
