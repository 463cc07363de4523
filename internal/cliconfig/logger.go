package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/bootprobe/pkg/log"
)

// Logger returns the zerolog logger configured by cfg, writing to stderr.
func Logger(cfg Config) (zerolog.Logger, error) {
	adapter, err := log.NewZerologAdapterWithOptions(os.Stderr, log.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return zerolog.Nop(), err
	}
	return adapter.Logger(), nil
}
