package templates

import "errors"

// Sentinel errors for template operations.
var (
	// ErrTemplateNotFound indicates no template exists for the logical name.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTemplateName indicates the name is empty, absolute or escapes the template root.
	ErrInvalidTemplateName = errors.New("invalid template name")

	// ErrInvalidTemplateDir indicates the configured override directory is unusable.
	ErrInvalidTemplateDir = errors.New("invalid template directory")

	// ErrTemplateRead indicates an I/O error while reading a template file.
	ErrTemplateRead = errors.New("failed to read template")

	// ErrTemplateParse indicates the template source is not well formed.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrUnresolvedPlaceholder indicates an expression referenced a key with no value.
	ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")
)
