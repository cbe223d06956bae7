package site

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/rde/internal/docs"
)

// RenderOptions controls how the source tree is copied. Paths are
// slash-separated and relative to the docs root.
type RenderOptions struct {
	Overwrite bool
	Rename    func(rel string) string
	Filter    func(rel string) bool
	Transform func(rel string, content []byte) ([]byte, error)
}

// renameMarkdown rewrites a trailing .md to .html.
func renameMarkdown(rel string) string {
	if docs.IsMarkdown(rel) {
		return strings.TrimSuffix(rel, ".md") + ".html"
	}
	return rel
}

// keepPath reports whether rel survives the exclusion rule.
func keepPath(rel string) bool {
	return !docs.IsExcluded(rel)
}

// pageTitle is the fallback title of the page at rel.
func pageTitle(rel string) string {
	return strings.TrimSuffix(path.Base(rel), ".md")
}
