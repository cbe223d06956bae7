package templates

import (
	"fmt"
	"strings"
)

// Logical names of the docs templates.
const (
	DocsIndex  = "docs/index"
	DocsStyle  = "docs/style"
	DocsLayout = "docs/layout"
)

const templateExt = ".html"

// ValidateName checks that a logical template name is a relative,
// slash-separated path whose segments contain no dots or backslashes.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTemplateName)
	}
	if strings.HasPrefix(name, "/") || strings.ContainsAny(name, "\\.:") {
		return fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
	}
	for seg := range strings.SplitSeq(name, "/") {
		if seg == "" {
			return fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
		}
	}
	return nil
}
