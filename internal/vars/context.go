package vars

import (
	"sort"
	"strings"
)

// Context is an immutable set of named facts for one generation call.
// Lookups go through the alias table and fall back to a case-insensitive
// match. The zero Context is empty and usable.
type Context struct {
	values map[string]Value
	folded map[string]string
}

// New builds a Context from values. Keys spelled as an alias are also
// registered under their canonical name unless the canonical name is
// supplied explicitly.
func New(values map[string]Value) Context {
	c := Context{values: make(map[string]Value, len(values))}
	for k, v := range values {
		c.values[k] = v
	}
	c.index()
	return c
}

// FromAny builds a Context from decoded JSON/YAML data.
func FromAny(m map[string]any) Context {
	values := make(map[string]Value, len(m))
	for k, v := range m {
		values[k] = ValueOf(v)
	}
	return New(values)
}

func (c *Context) index() {
	keys := c.sortedKeys()
	for _, k := range keys {
		canonical := Canonical(k)
		if canonical == k {
			continue
		}
		if _, ok := c.values[canonical]; !ok {
			c.values[canonical] = c.values[k]
		}
	}

	// Sorted order makes the case-insensitive fallback deterministic.
	c.folded = make(map[string]string, len(c.values))
	for _, k := range c.sortedKeys() {
		f := strings.ToLower(k)
		if _, ok := c.folded[f]; !ok {
			c.folded[f] = k
		}
	}
}

func (c Context) sortedKeys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve looks name up directly, then through the alias table, then
// case-insensitively. It returns Absent when nothing matches.
func (c Context) Resolve(name string) Value {
	v, _ := c.Lookup(name)
	return v
}

// Lookup is Resolve with an explicit found flag.
func (c Context) Lookup(name string) (Value, bool) {
	name = strings.TrimSpace(name)
	if v, ok := c.values[name]; ok {
		return v, true
	}
	canonical := Canonical(name)
	if v, ok := c.values[canonical]; ok {
		return v, true
	}
	for _, n := range []string{name, canonical} {
		if k, ok := c.folded[strings.ToLower(n)]; ok {
			return c.values[k], true
		}
	}
	return Absent, false
}

// Merge returns a new Context holding c's values overridden by extra.
func (c Context) Merge(extra map[string]Value) Context {
	values := make(map[string]Value, len(c.values)+len(extra))
	for k, v := range c.values {
		values[k] = v
	}
	for k, v := range extra {
		values[k] = v
	}
	return New(values)
}

// Keys returns every key in sorted order.
func (c Context) Keys() []string { return c.sortedKeys() }

func (c Context) Len() int { return len(c.values) }

// Strings renders every value with Value.String, skipping absent ones.
func (c Context) Strings() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		if v.IsAbsent() {
			continue
		}
		out[k] = v.String()
	}
	return out
}
