// Package site renders a docs source tree into a static HTML site.
//
// A Generator runs one build: preflight validation, page-tree construction,
// a staged copy of the source tree through the Pipeline, and promotion of
// the staging directory. Markdown files become composed HTML pages and every
// other file is copied byte for byte.
package site
