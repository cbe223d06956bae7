package errors

// Package errors provides sentinel errors for page-tree construction.
// They are wrapped into classified errors by the docs builder so callers can
// match them with errors.Is.

import "errors"

var (
	// ErrDocsDirReadFailed indicates listing the docs root or a category directory failed.
	ErrDocsDirReadFailed = errors.New("documentation directory read failed")

	// ErrFileReadFailed indicates reading a markdown page failed.
	ErrFileReadFailed = errors.New("documentation file read failed")

	// ErrRenderFailed indicates a page could not be rendered to harvest its metadata.
	ErrRenderFailed = errors.New("documentation render failed")
)
