// Package probe logs a fingerprint report of every application class loader
// root when the application starts.
//
// # Basic Usage
//
// Attach a probe to a server before starting it:
//
//	p, err := probe.New(probe.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := p.Attach(ctx, server); err != nil {
//	    return err
//	}
//	defer p.Detach(ctx)
//
//	if err := server.Start(ctx); err != nil {
//	    return err
//	}
//
// Each context start produces one info entry on the logger of the context's
// engine (or the probe logger when the engine has none). The message is the
// multi-line report; the entry carries a "report_id" and a "context" field.
//
// A failing report is logged at error level and does not stop the
// application from starting.
//
// # Plugins
//
// Plugins are initialized in registration order by [Probe.Attach] and shut
// down in reverse order by [Probe.Detach]:
//
//	import "github.com/bft-labs/bootprobe/plugins/redeploy"
//
//	p, err := probe.New(redeploy.WithRedeploy(redeploy.DefaultConfig()))
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package probe
