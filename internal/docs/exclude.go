package docs

import (
	"path"
	"strings"
)

const markdownExt = ".md"

// IsExcluded reports whether rel, a slash-separated path relative to the
// docs root, is outside the published tree. Inside a top-level directory only
// markdown files are kept; anything nested deeper is excluded. Top-level
// entries are never excluded.
func IsExcluded(rel string) bool {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if rel == "" {
		return false
	}
	segments := strings.Split(rel, "/")
	switch {
	case len(segments) <= 1:
		return false
	case len(segments) == 2:
		return !IsMarkdown(segments[1])
	default:
		return true
	}
}

// IsMarkdown reports whether name has the markdown extension.
func IsMarkdown(name string) bool {
	return strings.HasSuffix(name, markdownExt)
}

// PageURL returns the site URL of the page rendered from rel.
func PageURL(rel string) string {
	return "/" + strings.TrimSuffix(rel, markdownExt) + ".html"
}
