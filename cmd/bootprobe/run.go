package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bft-labs/bootprobe/internal/cliconfig"
	"github.com/bft-labs/bootprobe/internal/descriptor"
	"github.com/bft-labs/bootprobe/pkg/log"
	"github.com/bft-labs/bootprobe/pkg/probe"
	"github.com/bft-labs/bootprobe/plugins/redeploy"
)

// stopTimeout bounds the server shutdown after a signal.
const stopTimeout = 30 * time.Second

func runServer(ctx context.Context, cfg cliconfig.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	zl, err := cliconfig.Logger(cfg)
	if err != nil {
		return err
	}
	logger := log.NewZerologAdapterWithLogger(zl)

	d, err := descriptor.Load(cfg.Descriptor)
	if err != nil {
		return err
	}
	server, err := d.Build(ctx, logger)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	zl.Info().
		Str("descriptor", cfg.Descriptor).
		Str("algorithm", cfg.Algorithm).
		Str("order", cfg.Order).
		Bool("portable", cfg.Portable).
		Bool("watch", cfg.Watch).
		Int("contexts", len(server.Contexts())).
		Msg("configuration")

	opts := []probe.Option{
		probe.WithLogger(logger),
		probe.WithAlgorithm(cfg.Algorithm),
		probe.WithOrder(cfg.FingerprintOrder()),
		probe.WithPortableDigest(cfg.Portable),
	}
	if cfg.Watch {
		opts = append(opts, redeploy.WithRedeploy(redeploy.Config{DebounceDelay: cfg.Debounce}))
	}

	p, err := probe.New(opts...)
	if err != nil {
		return fmt.Errorf("create probe: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := p.Attach(ctx, server); err != nil {
		return fmt.Errorf("attach probe: %w", err)
	}
	defer func() {
		if err := p.Detach(context.Background()); err != nil {
			zl.Error().Err(err).Msg("detach probe")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := server.Start(ctx); err != nil {
		_ = server.Stop(context.Background())
		return fmt.Errorf("start server: %w", err)
	}

	if cfg.Watch {
		select {
		case <-sigCh:
			zl.Info().Msg("received signal, stopping...")
		case <-ctx.Done():
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := server.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}
	return nil
}
