// Package errors provides the classified error primitives used across rde.
//
// Every failure surfaced to the CLI is a ClassifiedError carrying a category
// (config, validation, template, filesystem, interrupted, internal), a
// severity and optional structured context. Categories drive exit codes and
// user-facing formatting through CLIErrorAdapter.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryTemplate, "render page").
//		WithContext("file", rel).
//		Build()
package errors
