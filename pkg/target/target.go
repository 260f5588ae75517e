// Package target provides render surfaces for counters.
//
// A counter only ever writes to its target: it tags it with class names,
// replaces its text on every frame and clears it on destroy. Implementations
// here cover tests ([MemoryTarget]), terminals ([WriterTarget]) and rasterized
// frames ([ImageTarget]).
package target

import "strings"

// Target is the surface a counter renders into.
type Target interface {
	// AddClass tags the surface with the given class names.
	AddClass(names ...string)
	// RemoveClass removes the given class names.
	RemoveClass(names ...string)
	// SetText replaces the surface's content.
	SetText(text string)
	// Clear empties the surface's content.
	Clear()
}

// Classes is an ordered set of class names. The zero value is empty and
// ready to use. Classes is not safe for concurrent use.
type Classes struct {
	names []string
}

// SplitClasses splits a whitespace separated class list.
func SplitClasses(list string) []string {
	return strings.Fields(list)
}

// Add inserts names that are not present yet, keeping first-insertion order.
// Entries containing whitespace are split.
func (c *Classes) Add(names ...string) {
	for _, n := range names {
		for _, name := range strings.Fields(n) {
			if !c.Has(name) {
				c.names = append(c.names, name)
			}
		}
	}
}

// Remove deletes names. Entries containing whitespace are split.
func (c *Classes) Remove(names ...string) {
	for _, n := range names {
		for _, name := range strings.Fields(n) {
			for i, existing := range c.names {
				if existing == name {
					c.names = append(c.names[:i], c.names[i+1:]...)
					break
				}
			}
		}
	}
}

// Has reports whether name is present.
func (c *Classes) Has(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

// Len returns the number of classes.
func (c *Classes) Len() int { return len(c.names) }

// Names returns a copy of the class names in insertion order.
func (c *Classes) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// String returns the names joined by single spaces.
func (c *Classes) String() string {
	return strings.Join(c.names, " ")
}
