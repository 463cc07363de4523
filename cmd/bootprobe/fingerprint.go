package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bft-labs/bootprobe/internal/cliconfig"
	"github.com/bft-labs/bootprobe/pkg/fingerprint"
	"github.com/bft-labs/bootprobe/pkg/report"
)

func printFingerprints(ctx context.Context, w io.Writer, cfg cliconfig.Config, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fp, err := fingerprint.New(
		fingerprint.WithAlgorithm(cfg.Algorithm),
		fingerprint.WithOrder(cfg.FingerprintOrder()),
		fingerprint.WithPortableDigest(cfg.Portable),
	)
	if err != nil {
		return err
	}
	algo := fp.Algorithm()

	for _, path := range paths {
		res, err := fp.Compute(ctx, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", path)
		fmt.Fprintf(w, "  length=%d\n", res.Size)
		fmt.Fprintf(w, "  %s=%s\n", algo.Tool, res.Digest)
		fmt.Fprintf(w, "  lastModified=%s\n", report.FormatTime(res.LastModified))
		if res.Portable != "" {
			fmt.Fprintf(w, "  dirhash=%s\n", res.Portable)
		}
	}
	return nil
}
