// Package connection tracks the host environment's online/offline state.
// The widget consults it before every network attempt and mirrors
// transitions into a banner inside the render root.
package connection

import "sync"

// Status is the read side of the monitor. Collaborators that only need to
// ask "are we online" depend on this interface.
type Status interface {
	Online() bool
}

// Listener receives online-state transitions. Listeners registered through
// a widget instance are invoked through its error boundary.
type Listener func(online bool)

// Monitor is a thread-safe online/offline registry. Hosts drive it via
// SetOnline; widget instances subscribe for transitions and unsubscribe at
// destroy.
type Monitor struct {
	mu        sync.Mutex
	online    bool
	listeners map[uint64]Listener
	next      uint64
}

// NewMonitor constructs a Monitor that starts online.
func NewMonitor() *Monitor {
	return &Monitor{
		online:    true,
		listeners: make(map[uint64]Listener),
	}
}

// Online reports the current state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records a transition and notifies listeners. Setting the same
// state twice is a no-op.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	listeners := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(online)
	}
}

// Subscribe registers a listener and returns its cancel function. Cancel is
// idempotent.
func (m *Monitor) Subscribe(fn Listener) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	m.mu.Lock()
	id := m.next
	m.next++
	m.listeners[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// Len reports the number of registered listeners, used by teardown tests.
func (m *Monitor) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}
