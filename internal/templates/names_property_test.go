package templates

import (
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestValidateName_Properties(t *testing.T) {
	seg := rapid.StringMatching(`[a-z0-9_-]{1,10}`)

	t.Run("plain segments are accepted", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			name := strings.Join(rapid.SliceOfN(seg, 1, 4).Draw(t, "segments"), "/")
			if err := ValidateName(name); err != nil {
				t.Fatalf("ValidateName(%q) = %v", name, err)
			}
		})
	})

	t.Run("traversal is rejected", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			segs := rapid.SliceOfN(seg, 1, 4).Draw(t, "segments")
			at := rapid.IntRange(0, len(segs)).Draw(t, "at")
			bad := rapid.SampledFrom([]string{"..", ".", "a.b", `a\b`, "c:", ""}).Draw(t, "bad")
			segs = append(segs[:at], append([]string{bad}, segs[at:]...)...)
			name := strings.Join(segs, "/")
			if rapid.Bool().Draw(t, "absolute") {
				name = "/" + name
			}
			if err := ValidateName(name); !errors.Is(err, ErrInvalidTemplateName) {
				t.Fatalf("ValidateName(%q) = %v, want ErrInvalidTemplateName", name, err)
			}
		})
	})
}
