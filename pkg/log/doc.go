// Package log provides the logging abstraction used by bootprobe components.
//
// Components log through the Logger interface so that an embedding
// container can route probe output into its own logging channel. A zerolog
// adapter is provided for the CLI and a no-op logger is the library default.
//
// # Usage
//
// Console output on stderr:
//
//	logger := log.NewZerologAdapter()
//
// JSON output at debug level:
//
//	logger, err := log.NewZerologAdapterWithOptions(os.Stderr, log.Options{
//	    Level:  "debug",
//	    Format: log.FormatJSON,
//	})
//
// Wrap a logger you already configured:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package log
