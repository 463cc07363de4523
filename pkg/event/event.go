package event

import "fmt"

// Type identifies what happened to a container.
type Type int

const (
	BeforeStart Type = iota
	Start
	AfterStart
	BeforeStop
	Stop
	AfterStop
	AddChild
	RemoveChild
)

// String returns the event type name.
func (t Type) String() string {
	switch t {
	case BeforeStart:
		return "before_start"
	case Start:
		return "start"
	case AfterStart:
		return "after_start"
	case BeforeStop:
		return "before_stop"
	case Stop:
		return "stop"
	case AfterStop:
		return "after_stop"
	case AddChild:
		return "add_child"
	case RemoveChild:
		return "remove_child"
	default:
		return "unknown"
	}
}

// Kind is the level of a container in the tree.
type Kind int

const (
	KindServer Kind = iota
	KindService
	KindEngine
	KindHost
	KindContext
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindService:
		return "service"
	case KindEngine:
		return "engine"
	case KindHost:
		return "host"
	case KindContext:
		return "context"
	default:
		return "unknown"
	}
}

// Event is a notification emitted by a container.
type Event struct {
	Type Type

	// Source is the container the event happened to.
	Source Container

	// Child is the added or removed container for AddChild and RemoveChild.
	Child Container
}

// String formats the event for log output.
func (e Event) String() string {
	src := "<nil>"
	if e.Source != nil {
		src = e.Source.Kind().String() + ":" + e.Source.Name()
	}
	if e.Child != nil {
		return fmt.Sprintf("%s %s child=%s:%s", src, e.Type, e.Child.Kind(), e.Child.Name())
	}
	return fmt.Sprintf("%s %s", src, e.Type)
}

// Listener receives events. OnEvent runs on the goroutine that emitted the
// event; a slow listener delays the emitting container.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f.
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Container is a node of the container tree.
type Container interface {
	Kind() Kind
	Name() string

	// Parent returns nil for the server.
	Parent() Container

	// Children returns the direct children in insertion order.
	Children() []Container

	// AddListener registers l and returns a function removing it.
	AddListener(l Listener) (remove func())
}
