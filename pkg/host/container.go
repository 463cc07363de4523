package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/bootprobe/pkg/event"
	"github.com/bft-labs/bootprobe/pkg/lifecycle"
	"github.com/bft-labs/bootprobe/pkg/log"
)

// Node is a container of the tree.
type Node interface {
	event.Container

	// Start starts the container and its children.
	Start(ctx context.Context) error

	// Stop stops the children in reverse order, then the container.
	Stop(ctx context.Context) error

	// State returns the lifecycle state.
	State() lifecycle.State

	// Logger resolves the closest logger up the tree.
	Logger() log.Logger

	base() *container
}

type registration struct {
	id int
	l  event.Listener
}

// container implements the behavior shared by every level of the tree.
type container struct {
	kind   event.Kind
	name   string
	self   Node
	logger log.Logger
	lc     *lifecycle.DefaultManager

	mu        sync.RWMutex
	parent    Node
	children  []Node
	listeners []registration
	nextID    int
}

func (c *container) init(self Node, kind event.Kind, name string, logger log.Logger) {
	c.self = self
	c.kind = kind
	c.name = name
	c.logger = logger
	c.lc = lifecycle.NewManager(kind.String()+":"+name, nil, lifecycle.EmitterFunc(c.onStateChange))
}

func (c *container) base() *container { return c }

// Kind returns the level of the container.
func (c *container) Kind() event.Kind { return c.kind }

// Name returns the container name.
func (c *container) Name() string { return c.name }

// State returns the lifecycle state.
func (c *container) State() lifecycle.State { return c.lc.State() }

// Parent returns the parent container, nil for a root.
func (c *container) Parent() event.Container {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.parent == nil {
		return nil
	}
	return c.parent
}

// Children returns the direct children in insertion order.
func (c *container) Children() []event.Container {
	nodes := c.childNodes()
	out := make([]event.Container, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func (c *container) childNodes() []Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Node(nil), c.children...)
}

// SetLogger sets the logger used by this container and its descendants
// that have none of their own.
func (c *container) SetLogger(logger log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// Logger returns this container's logger or the closest one up the tree.
func (c *container) Logger() log.Logger {
	c.mu.RLock()
	logger, parent := c.logger, c.parent
	c.mu.RUnlock()
	if logger != nil {
		return logger
	}
	if parent != nil {
		return parent.Logger()
	}
	return log.NewNoopLogger()
}

// AddListener registers l and returns a function removing it.
func (c *container) AddListener(l event.Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, registration{id: id, l: l})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.removeListener(id) })
	}
}

func (c *container) removeListener(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.listeners {
		if r.id == id {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// fire delivers an event synchronously to a snapshot of the listeners, so
// listeners may register or remove listeners while handling it.
func (c *container) fire(t event.Type, child Node) {
	c.mu.RLock()
	regs := append([]registration(nil), c.listeners...)
	c.mu.RUnlock()

	e := event.Event{Type: t, Source: c.self}
	if child != nil {
		e.Child = child
	}
	for _, r := range regs {
		r.l.OnEvent(e)
	}
}

func (c *container) onStateChange(previous, current lifecycle.State, reason string) {
	c.Logger().Debug("container state",
		log.String("kind", c.kind.String()),
		log.String("name", c.name),
		log.String("from", previous.String()),
		log.String("to", current.String()),
		log.String("reason", reason),
	)
}

// Start starts the container and its children.
func (c *container) Start(ctx context.Context) error {
	if !c.lc.CanStart() {
		return lifecycle.ErrAlreadyRunning
	}
	if err := c.lc.TransitionTo(lifecycle.StateStarting, "start requested"); err != nil {
		return err
	}

	c.fire(event.BeforeStart, nil)

	for _, child := range c.childNodes() {
		if err := ctx.Err(); err != nil {
			return c.fail(err)
		}
		if child.State() == lifecycle.StateRunning {
			continue
		}
		if err := child.Start(ctx); err != nil {
			return c.fail(fmt.Errorf("start %s %q: %w", child.Kind(), child.Name(), err))
		}
	}

	c.fire(event.Start, nil)

	if err := c.lc.TransitionTo(lifecycle.StateRunning, "started"); err != nil {
		return err
	}

	c.fire(event.AfterStart, nil)
	return nil
}

func (c *container) fail(err error) error {
	_ = c.lc.TransitionTo(lifecycle.StateFailed, err.Error())
	return err
}

// Stop stops the children in reverse order, then the container. Every child
// is asked to stop even when an earlier one fails.
func (c *container) Stop(ctx context.Context) error {
	if !c.lc.CanStop() {
		return lifecycle.ErrNotRunning
	}
	if err := c.lc.TransitionTo(lifecycle.StateStopping, "stop requested"); err != nil {
		return err
	}

	c.fire(event.BeforeStop, nil)

	var errs []error
	children := c.childNodes()
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		if !isActive(child.State()) {
			continue
		}
		if err := child.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s %q: %w", child.Kind(), child.Name(), err))
		}
	}

	c.fire(event.Stop, nil)

	if err := errors.Join(errs...); err != nil {
		return c.fail(err)
	}
	if err := c.lc.TransitionTo(lifecycle.StateStopped, "stopped"); err != nil {
		return err
	}

	c.fire(event.AfterStop, nil)
	return nil
}

// Reload stops the container if it is active and starts it again.
func (c *container) Reload(ctx context.Context) error {
	if isActive(c.State()) {
		if err := c.Stop(ctx); err != nil {
			return err
		}
	}
	return c.Start(ctx)
}

// AddChild attaches child and emits AddChild. When this container is
// running the child is started.
func (c *container) AddChild(ctx context.Context, child Node) error {
	if child == nil || child.Kind() != c.kind+1 {
		return fmt.Errorf("%w: %s cannot hold %v", ErrInvalidChild, c.kind, kindOf(child))
	}

	cb := child.base()
	cb.mu.Lock()
	if cb.parent != nil {
		cb.mu.Unlock()
		return fmt.Errorf("%w: %s %q already has a parent", ErrDuplicateChild, child.Kind(), child.Name())
	}

	c.mu.Lock()
	if c.kind == event.KindService && len(c.children) > 0 {
		c.mu.Unlock()
		cb.mu.Unlock()
		return fmt.Errorf("%w: service %q already has an engine", ErrInvalidChild, c.name)
	}
	for _, existing := range c.children {
		if existing.Name() == child.Name() {
			c.mu.Unlock()
			cb.mu.Unlock()
			return fmt.Errorf("%w: %s %q", ErrDuplicateChild, child.Kind(), child.Name())
		}
	}
	c.children = append(c.children, child)
	c.mu.Unlock()

	cb.parent = c.self
	cb.mu.Unlock()

	c.fire(event.AddChild, child)

	if c.State() == lifecycle.StateRunning {
		return child.Start(ctx)
	}
	return nil
}

// RemoveChild stops child when active, detaches it and emits RemoveChild.
func (c *container) RemoveChild(ctx context.Context, child Node) error {
	c.mu.Lock()
	idx := -1
	for i, existing := range c.children {
		if existing == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s %q is not a child of %q", ErrInvalidChild, kindOf(child), nameOf(child), c.name)
	}
	c.mu.Unlock()

	var stopErr error
	if isActive(child.State()) {
		stopErr = child.Stop(ctx)
	}

	c.mu.Lock()
	for i, existing := range c.children {
		if existing == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	cb := child.base()
	cb.mu.Lock()
	cb.parent = nil
	cb.mu.Unlock()

	c.fire(event.RemoveChild, child)
	return stopErr
}

func isActive(s lifecycle.State) bool {
	return s == lifecycle.StateStarting || s == lifecycle.StateRunning || s == lifecycle.StateFailed
}

func kindOf(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind().String()
}

func nameOf(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name()
}
