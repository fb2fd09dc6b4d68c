// Package config provides the opaque configuration object the rule engine
// evaluates. Every field access tolerates absence at any depth: a missing
// key reads as unset, never as an error.
package config

import (
	"strings"
)

// Config wraps a parsed configuration tree plus the raw source text it was
// loaded from. Evaluators treat it as read-only; only the hardener mutates
// a Clone.
type Config struct {
	root map[string]any
	raw  string
}

// New wraps an already-parsed configuration tree.
func New(root map[string]any) *Config {
	if root == nil {
		root = map[string]any{}
	}
	return &Config{root: root}
}

// Raw returns the original source text, if the config was loaded from disk.
func (c *Config) Raw() string { return c.raw }

// Root returns the underlying tree. Callers must not mutate it.
func (c *Config) Root() map[string]any { return c.root }

// Get walks a dotted path and reports whether a value is present.
func (c *Config) Get(path string) (any, bool) {
	cur := any(c.root)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether any value (including explicit null) exists at path.
func (c *Config) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// String returns the string at path, or "" when unset or not a string.
func (c *Config) String(path string) string {
	if v, ok := c.Get(path); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Bool returns the boolean at path, treating unset or non-boolean as false.
func (c *Config) Bool(path string) bool {
	v, _ := c.BoolSet(path)
	return v
}

// BoolSet returns the boolean at path and whether it was explicitly set.
func (c *Config) BoolSet(path string) (value, set bool) {
	if v, ok := c.Get(path); ok {
		if b, ok := v.(bool); ok {
			return b, true
		}
	}
	return false, false
}

// Int returns the integer at path. YAML numbers may decode as int, int64,
// or float64 depending on the source.
func (c *Config) Int(path string) (int, bool) {
	v, ok := c.Get(path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// Map returns the mapping at path, or nil when unset or not a mapping.
func (c *Config) Map(path string) map[string]any {
	if v, ok := c.Get(path); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// Slice returns the sequence at path, or nil.
func (c *Config) Slice(path string) []any {
	if v, ok := c.Get(path); ok {
		if s, ok := v.([]any); ok {
			return s
		}
	}
	return nil
}

// StringSlice returns the sequence at path keeping only string elements.
func (c *Config) StringSlice(path string) []string {
	var out []string
	for _, v := range c.Slice(path) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Set writes a value at a dotted path, creating intermediate mappings as
// needed. Existing non-mapping intermediates are replaced.
func (c *Config) Set(path string, value any) {
	segs := strings.Split(path, ".")
	m := c.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
	m[segs[len(segs)-1]] = value
}

// Delete removes the value at a dotted path. Missing paths are a no-op.
func (c *Config) Delete(path string) {
	segs := strings.Split(path, ".")
	m := c.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			return
		}
		m = next
	}
	delete(m, segs[len(segs)-1])
}

// Clone returns a deep copy sharing nothing with the original. The raw
// source text is carried over unchanged.
func (c *Config) Clone() *Config {
	return &Config{root: deepCopyMap(c.root), raw: c.raw}
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
