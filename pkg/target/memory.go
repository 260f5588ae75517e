package target

import "sync"

// MemoryTarget keeps everything written to it. It is safe for concurrent use.
type MemoryTarget struct {
	mu      sync.Mutex
	classes Classes
	text    string
	history []string
	clears  int
}

// NewMemoryTarget returns an empty MemoryTarget.
func NewMemoryTarget() *MemoryTarget {
	return &MemoryTarget{}
}

// AddClass implements Target.
func (m *MemoryTarget) AddClass(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes.Add(names...)
}

// RemoveClass implements Target.
func (m *MemoryTarget) RemoveClass(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes.Remove(names...)
}

// SetText implements Target.
func (m *MemoryTarget) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.history = append(m.history, text)
}

// Clear implements Target.
func (m *MemoryTarget) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.clears++
}

// Text returns the current content.
func (m *MemoryTarget) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// History returns every SetText value in order.
func (m *MemoryTarget) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}

// Classes returns the current class names.
func (m *MemoryTarget) Classes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.classes.Names()
}

// HasClass reports whether the class is set.
func (m *MemoryTarget) HasClass(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.classes.Has(name)
}

// Clears returns how many times Clear was called.
func (m *MemoryTarget) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

var _ Target = (*MemoryTarget)(nil)
