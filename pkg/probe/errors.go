package probe

import "errors"

var (
	// ErrAlreadyAttached is returned by Attach on an attached probe.
	ErrAlreadyAttached = errors.New("probe: already attached")

	// ErrNotAttached is returned by Detach on a detached probe.
	ErrNotAttached = errors.New("probe: not attached")

	// ErrNilServer is returned by Attach without a server.
	ErrNilServer = errors.New("probe: nil server")
)
