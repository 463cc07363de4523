package host

import "errors"

// Sentinel errors for package host.
var (
	// ErrInvalidChild is returned when a child does not belong one level
	// below its parent, or a service gets a second engine.
	ErrInvalidChild = errors.New("host: invalid child")

	// ErrDuplicateChild is returned when a name is already used by a sibling
	// or the child already has a parent.
	ErrDuplicateChild = errors.New("host: duplicate child")
)
