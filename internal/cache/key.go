package cache

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Key identifies one cacheable fetch, e.g. ["schedules", "status", "CONFIRMED"].
//
// Every part is stored in its canonical JSON form, so two keys are equal when
// their parts are equal by value and by JSON type (7 and "7" differ).
type Key struct {
	parts []string
}

// NewKey builds a positional key. The first part is the resource kind.
func NewKey(parts ...any) Key {
	encoded := make([]string, 0, len(parts))
	for _, part := range parts {
		encoded = append(encoded, encodePart(part))
	}
	return Key{parts: encoded}
}

// Normalize builds a key for kind with its parameters appended as name/value
// pairs sorted by name, so the order the params were built in never matters.
func Normalize(kind string, params map[string]any) Key {
	names := slices.Sorted(maps.Keys(params))

	parts := make([]any, 0, 1+2*len(names))
	parts = append(parts, kind)
	for _, name := range names {
		parts = append(parts, name, params[name])
	}

	return NewKey(parts...)
}

func encodePart(part any) string {
	data, err := json.Marshal(part)
	if err != nil {
		// Values json can't represent (funcs, channels) fall back to their printed form
		data, _ = json.Marshal(fmt.Sprintf("%v", part))
	}
	return string(data)
}

// Append returns a new key with parts added after k's parts.
func (k Key) Append(parts ...any) Key {
	extra := NewKey(parts...)
	return Key{parts: slices.Concat(k.parts, extra.parts)}
}

func (k Key) Len() int {
	return len(k.parts)
}

// Kind returns the first part of the key, unquoted when it is a string.
func (k Key) Kind() string {
	if len(k.parts) == 0 {
		return ""
	}
	var kind string
	if err := json.Unmarshal([]byte(k.parts[0]), &kind); err != nil {
		return k.parts[0]
	}
	return kind
}

func (k Key) Equal(other Key) bool {
	return slices.Equal(k.parts, other.parts)
}

// String returns the canonical form of the key, a JSON array.
func (k Key) String() string {
	return "[" + strings.Join(k.parts, ",") + "]"
}

// IsPrefixOf reports whether every part of prefix matches key positionally.
// The empty key is a prefix of every key.
func IsPrefixOf(prefix, key Key) bool {
	if len(prefix.parts) > len(key.parts) {
		return false
	}
	return slices.Equal(prefix.parts, key.parts[:len(prefix.parts)])
}

func matchesAny(prefixes []Key, key Key) bool {
	for _, prefix := range prefixes {
		if IsPrefixOf(prefix, key) {
			return true
		}
	}
	return false
}
