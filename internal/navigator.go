package internal

import "sync"

// Location reports the path of the view currently shown
type Location interface {
	Current() string
}

// Navigator holds the current client-side path and notifies listeners on change
type Navigator struct {
	mu        sync.Mutex
	current   string
	listeners map[int]func(from, to string)
	nextID    int
}

// NewNavigator starts at path
func NewNavigator(path string) *Navigator {
	return &Navigator{
		current:   path,
		listeners: make(map[int]func(from, to string)),
	}
}

// Current returns the current path
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate moves to path. Listeners run after the move, outside the lock.
func (n *Navigator) Navigate(path string) {
	n.mu.Lock()
	from := n.current
	n.current = path
	listeners := make([]func(from, to string), 0, len(n.listeners))
	for _, fn := range n.listeners {
		listeners = append(listeners, fn)
	}
	n.mu.Unlock()

	if from == path {
		return
	}
	LogDebug("navigate %s -> %s", from, path)
	for _, fn := range listeners {
		fn(from, path)
	}
}

// Subscribe registers fn for path changes and returns its unsubscribe func
func (n *Navigator) Subscribe(fn func(from, to string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}
