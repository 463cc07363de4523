package probe

import (
	"context"

	"github.com/bft-labs/bootprobe/pkg/host"
	"github.com/bft-labs/bootprobe/pkg/log"
)

// Plugin extends a Probe with behavior bound to the attached server.
type Plugin interface {
	// Name returns the plugin identifier used in log entries.
	Name() string

	// Initialize is called by Attach, in registration order.
	// A returned error aborts the attach.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called by Detach, in reverse registration order.
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin receives on initialization.
type PluginConfig struct {
	// Server is the attached server.
	Server *host.Server

	// Logger is the probe logger.
	Logger log.Logger
}
