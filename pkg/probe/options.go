package probe

import (
	"github.com/bft-labs/bootprobe/pkg/fingerprint"
	"github.com/bft-labs/bootprobe/pkg/log"
)

// Option configures optional behavior of a Probe.
type Option func(*options)

// options holds the optional configuration for a Probe instance.
type options struct {
	logger        log.Logger
	algorithm     string
	order         fingerprint.Order
	portable      bool
	tag           string
	plugins       []Plugin
	reportHandler ReportHandler
}

func defaultOptions() options {
	return options{
		logger:    log.NewNoopLogger(),
		algorithm: fingerprint.DefaultAlgorithm,
		order:     fingerprint.OrderNative,
	}
}

// WithLogger sets the logger used for probe events and for reports of
// contexts whose engine has no logger.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAlgorithm selects the digest algorithm by name ("sha256", "md5", ...).
func WithAlgorithm(name string) Option {
	return func(o *options) {
		o.algorithm = name
	}
}

// WithOrder selects the directory traversal order.
func WithOrder(order fingerprint.Order) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithPortableDigest adds the order-independent "h1:" digest to reports.
func WithPortableDigest(enabled bool) Option {
	return func(o *options) {
		o.portable = enabled
	}
}

// WithTag overrides the tag opening every report.
func WithTag(tag string) Option {
	return func(o *options) {
		o.tag = tag
	}
}

// WithPlugin registers a plugin to be initialized when the probe attaches.
// Plugins are initialized in registration order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithReportHandler sets a handler called after each report attempt.
// It runs synchronously on the goroutine starting the context.
func WithReportHandler(handler ReportHandler) Option {
	return func(o *options) {
		o.reportHandler = handler
	}
}
