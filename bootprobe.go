// Package bootprobe fingerprints the directories and archives an application
// loads classes from and logs the result when the application starts.
//
// Example usage:
//
//	res, err := bootprobe.Fingerprint(ctx, "/srv/app/WEB-INF/lib")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Size, res.Digest, res.LastModified)
//
// To report every application of a server described by a deployment
// descriptor:
//
//	server, err := bootprobe.LoadServer(ctx, "server.toml", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := bootprobe.NewProbe(probe.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.Attach(ctx, server); err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootprobe

import (
	"context"

	"github.com/bft-labs/bootprobe/internal/descriptor"
	"github.com/bft-labs/bootprobe/pkg/fingerprint"
	"github.com/bft-labs/bootprobe/pkg/host"
	"github.com/bft-labs/bootprobe/pkg/log"
	"github.com/bft-labs/bootprobe/pkg/probe"
)

// Result holds the metrics of one file or directory.
type Result = fingerprint.Result

// Fingerprint computes size, digest and earliest modification time of path.
func Fingerprint(ctx context.Context, path string, opts ...fingerprint.Option) (Result, error) {
	fp, err := fingerprint.New(opts...)
	if err != nil {
		return Result{}, err
	}
	return fp.Compute(ctx, path)
}

// NewProbe creates a detached probe.
func NewProbe(opts ...probe.Option) (*probe.Probe, error) {
	return probe.New(opts...)
}

// LoadServer builds the stopped server described by the TOML deployment
// descriptor at path. Engines log to logger, which may be nil.
func LoadServer(ctx context.Context, path string, logger log.Logger) (*host.Server, error) {
	d, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}
	return d.Build(ctx, logger)
}
