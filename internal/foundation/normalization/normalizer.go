// Package normalization maps loosely written configuration strings onto
// closed sets of typed values.
package normalization

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidValue is returned when a string matches none of the known values.
var ErrInvalidValue = errors.New("invalid value")

// Normalizer provides type-safe string-to-enum normalization.
// Keys are matched case-insensitively after trimming whitespace.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
	keys         []string // sorted, for error messages
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// Several keys may map to the same value to accept aliases.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	n := &Normalizer[T]{
		values:       make(map[string]T, len(values)),
		defaultValue: defaultValue,
		keys:         make([]string, 0, len(values)),
	}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	slices.Sort(n.keys)
	return n
}

// Normalize returns the value for raw, or the default when raw is unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// NormalizeWithError returns the value for raw or an error wrapping
// ErrInvalidValue that lists the accepted keys.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.values[clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w %q, valid options: %v", ErrInvalidValue, raw, n.keys)
}

// ValidKeys returns all accepted keys in sorted order.
func (n *Normalizer[T]) ValidKeys() []string {
	return slices.Clone(n.keys)
}

// EnumNormalizer names the enum in validation errors.
type EnumNormalizer[T comparable] struct {
	*Normalizer[T]
	enumName string
}

// NewEnumNormalizer creates an enum normalizer with descriptive error messages.
func NewEnumNormalizer[T comparable](enumName string, values map[string]T, defaultValue T) *EnumNormalizer[T] {
	return &EnumNormalizer[T]{Normalizer: NewNormalizer(values, defaultValue), enumName: enumName}
}

// NormalizeWithValidation converts raw to an enum value or fails naming the enum.
func (e *EnumNormalizer[T]) NormalizeWithValidation(raw string) (T, error) {
	v, err := e.NormalizeWithError(raw)
	if err != nil {
		return v, fmt.Errorf("%s: %w", e.enumName, err)
	}
	return v, nil
}

// ValidValues returns the distinct values' keys, for help output.
func (e *EnumNormalizer[T]) ValidValues() []string {
	return e.ValidKeys()
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
