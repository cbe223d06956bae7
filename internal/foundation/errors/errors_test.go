package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError_Basics(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError(cause, CategoryFileSystem, "copy asset").
		WithContext("file", "img/logo.png").
		Build()

	assert.Equal(t, CategoryFileSystem, err.Category())
	assert.Equal(t, SeverityError, err.Severity())
	assert.Equal(t, "copy asset", err.Message())
	assert.Equal(t, "[filesystem:error] copy asset: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	file, ok := err.Context().GetString("file")
	require.True(t, ok)
	assert.Equal(t, "img/logo.png", file)
}

func TestClassifiedError_WithContextDoesNotMutate(t *testing.T) {
	base := ConfigError("docs directory missing").Build()
	withDir := base.WithContext("dir", "_docs")

	_, ok := base.Context().Get("dir")
	assert.False(t, ok)
	dir, ok := withDir.Context().GetString("dir")
	require.True(t, ok)
	assert.Equal(t, "_docs", dir)
}

func TestAsClassified_ThroughWrapping(t *testing.T) {
	inner := TemplateError("unresolved placeholder").Build()
	wrapped := fmt.Errorf("render index.md: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Equal(t, CategoryTemplate, got.Category())
	assert.True(t, HasCategory(wrapped, CategoryTemplate))
	assert.False(t, HasCategory(wrapped, CategoryConfig))
}

func TestGetCategoryAndSeverity_Fallbacks(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, CategoryInternal, GetCategory(plain))
	assert.Equal(t, SeverityError, GetSeverity(plain))
	assert.False(t, IsClassified(plain))
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClassifiedError
		category ErrorCategory
		severity ErrorSeverity
	}{
		{"config", ConfigError("x").Build(), CategoryConfig, SeverityFatal},
		{"validation", ValidationError("x").Build(), CategoryValidation, SeverityFatal},
		{"template", TemplateError("x").Build(), CategoryTemplate, SeverityFatal},
		{"filesystem", FileSystemError("x").Build(), CategoryFileSystem, SeverityFatal},
		{"interrupted", InterruptedError("x").Build(), CategoryInterrupted, SeverityInfo},
		{"internal", InternalError("x").Build(), CategoryInternal, SeverityFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.severity, tt.err.Severity())
		})
	}
}

func TestErrorContext_Merge(t *testing.T) {
	a := ErrorContext{"k": 1, "only-a": true}
	b := ErrorContext{"k": 2}
	merged := a.Merge(b)

	assert.Equal(t, 2, merged["k"])
	assert.Equal(t, true, merged["only-a"])
	assert.Equal(t, 1, a["k"])

	var empty ErrorContext
	assert.Equal(t, b, empty.Merge(b))
}
