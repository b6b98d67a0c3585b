package views

import "sync"

// Messages is the session's message log. Add is safe from any goroutine.
type Messages struct {
	mu    sync.Mutex
	items []string
}

// Add appends a message
func (m *Messages) Add(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, message)
}

// Clear empties the log
func (m *Messages) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}

// List returns a snapshot
func (m *Messages) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.items...)
}
