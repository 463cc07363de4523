package event

import (
	"sync"
	"sync/atomic"
)

// FanIn forwards the events of a whole container tree to one target.
type FanIn struct {
	target     Listener
	serverSeen atomic.Bool

	mu         sync.Mutex
	subscribed map[Container]func()
}

// NewFanIn creates a FanIn forwarding to target.
func NewFanIn(target Listener) *FanIn {
	return &FanIn{
		target:     target,
		subscribed: make(map[Container]func()),
	}
}

// OnEvent subscribes to the descendants of the first server seen and to
// children added to subscribed containers, then forwards e.
func (f *FanIn) OnEvent(e Event) {
	if e.Source != nil && e.Source.Kind() == KindServer && f.serverSeen.CompareAndSwap(false, true) {
		f.SubscribeTree(e.Source)
	}
	if e.Type == AddChild && e.Child != nil && f.IsSubscribed(e.Source) {
		f.SubscribeTree(e.Child)
	}
	f.target.OnEvent(e)
}

// Subscribe registers f on c alone. It returns false when c was already
// subscribed.
func (f *FanIn) Subscribe(c Container) bool {
	if c == nil {
		return false
	}

	f.mu.Lock()
	if _, ok := f.subscribed[c]; ok {
		f.mu.Unlock()
		return false
	}
	// Reserve the slot before registering so a concurrent call is a no-op.
	f.subscribed[c] = nil
	f.mu.Unlock()

	remove := c.AddListener(f)

	f.mu.Lock()
	f.subscribed[c] = remove
	f.mu.Unlock()
	return true
}

// SubscribeTree registers f on c and every descendant of c.
func (f *FanIn) SubscribeTree(c Container) {
	if c == nil {
		return
	}
	f.Subscribe(c)
	for _, child := range c.Children() {
		f.SubscribeTree(child)
	}
}

// IsSubscribed reports whether f listens to c.
func (f *FanIn) IsSubscribed(c Container) bool {
	if c == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.subscribed[c]
	return ok
}

// Len returns the number of subscribed containers.
func (f *FanIn) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribed)
}

// Close removes f from every container and resets it, so that the next
// server event subscribes the tree again.
func (f *FanIn) Close() {
	f.mu.Lock()
	subscribed := f.subscribed
	f.subscribed = make(map[Container]func())
	f.mu.Unlock()

	for _, remove := range subscribed {
		if remove != nil {
			remove()
		}
	}
	f.serverSeen.Store(false)
}
