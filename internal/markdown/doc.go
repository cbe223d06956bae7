// Package markdown converts docs markdown into HTML fragments.
//
// Headings, paragraphs and links carry a "<prefix>-<tag>" class so the
// shared docs stylesheet can target them. Fenced code blocks are highlighted
// with chroma CSS classes. A leading YAML front-matter block is stripped from
// the body and returned as Metadata alongside the HTML of every call.
package markdown
