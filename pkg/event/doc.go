// Package event defines the typed lifecycle events emitted by a container
// tree and the FanIn listener that funnels the events of a whole tree into
// one callback.
//
// A container tree is Server > Service > Engine > Host > Context. Every
// container emits lifecycle events (BeforeStart, Start, ...) and child
// events (AddChild, RemoveChild) to its own listeners. FanIn subscribes
// itself to every container below a server the first time it sees an event
// from that server, follows AddChild events to subscribe to containers
// added later, and forwards every event to a single target listener.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package event
