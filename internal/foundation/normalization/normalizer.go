// Package normalization maps loosely written configuration values onto typed
// enumerations.
package normalization

import (
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Normalizer converts strings to values of an enumeration. Input is trimmed and
// lower-cased before lookup.
type Normalizer[T comparable] struct {
	name         string
	values       map[string]T
	defaultValue T
	keys         []string
}

// NewNormalizer returns a Normalizer for the enumeration called name. The keys of
// values are the accepted spellings; defaultValue is used for empty input.
func NewNormalizer[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	n := &Normalizer[T]{
		name:         name,
		values:       make(map[string]T, len(values)),
		defaultValue: defaultValue,
	}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	slices.Sort(n.keys)
	return n
}

// Normalize returns the value for raw, or the default when raw is not accepted.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// Parse returns the value for raw. Empty input yields the default; any other
// unaccepted input is a config error listing the accepted spellings.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	key := clean(raw)
	if key == "" {
		return n.defaultValue, nil
	}
	if v, ok := n.values[key]; ok {
		return v, nil
	}
	var zero T
	return zero, errors.ConfigError(fmt.Sprintf("invalid %s %q", n.name, raw)).
		WithContext("valid", strings.Join(n.keys, ", ")).
		Build()
}

// Keys returns the accepted spellings, sorted.
func (n *Normalizer[T]) Keys() []string {
	return slices.Clone(n.keys)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
