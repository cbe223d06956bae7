// Package templates loads the docs page templates and composes pages from them.
//
// Templates are resolved by logical name ("docs/index", "docs/style",
// "docs/layout") from an embedded default set, optionally overridden file by
// file from a custom directory. Composition uses text/template with
// configurable delimiters ("<%" and "%>" by default) and performs no HTML
// escaping.
package templates
