// Package lifecycle provides the state machine shared by host containers
// and the probe.
//
// # Usage
//
//	manager := lifecycle.NewManager(logger, emitter)
//
//	if !manager.CanStart() {
//	    return lifecycle.ErrAlreadyRunning
//	}
//	if err := manager.TransitionTo(lifecycle.StateStarting, "start requested"); err != nil {
//	    return err
//	}
//
// # State Machine
//
// Valid state transitions:
//   - Stopped -> Starting
//   - Starting -> Running, Stopping, Failed
//   - Running -> Stopping, Failed
//   - Stopping -> Stopped, Failed
//   - Failed -> Starting, Stopping
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package lifecycle
