package redeploy

import "github.com/bft-labs/bootprobe/pkg/probe"

// WithRedeploy returns a probe Option that reloads contexts whose class
// loader roots change on disk.
//
// Usage:
//
//	p, err := probe.New(
//	    redeploy.WithRedeploy(redeploy.Config{
//	        DebounceDelay: time.Second,
//	    }),
//	)
func WithRedeploy(cfg Config) probe.Option {
	return probe.WithPlugin(New(cfg))
}

// WithDefaultRedeploy returns a probe Option that enables redeploy with
// default settings (debounce 500ms).
func WithDefaultRedeploy() probe.Option {
	return WithRedeploy(DefaultConfig())
}
