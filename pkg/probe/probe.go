package probe

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/bootprobe/pkg/event"
	"github.com/bft-labs/bootprobe/pkg/fingerprint"
	"github.com/bft-labs/bootprobe/pkg/host"
	"github.com/bft-labs/bootprobe/pkg/lifecycle"
	"github.com/bft-labs/bootprobe/pkg/log"
	"github.com/bft-labs/bootprobe/pkg/report"
)

// Result is the outcome of one report attempt.
type Result struct {
	// ID correlates the log entry with the handler call.
	ID string

	// Context is the started context.
	Context *host.Context

	// Report is nil when Err is set.
	Report *report.Report

	Err error
}

// ReportHandler receives every report attempt.
type ReportHandler func(Result)

// Probe listens to a server tree and reports context starts.
type Probe struct {
	opts      options
	logger    log.Logger
	builder   *report.Builder
	fanIn     *event.FanIn
	lifecycle *lifecycle.DefaultManager

	mu     sync.Mutex
	cancel context.CancelFunc
	inited []Plugin

	// ctxMu guards ctx apart from mu: plugins shutting down under mu may
	// still be reporting.
	ctxMu sync.RWMutex
	ctx   context.Context
}

// New creates a detached Probe.
// Returns an error if the algorithm is unknown.
func New(opts ...Option) (*Probe, error) {
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	fp, err := fingerprint.New(
		fingerprint.WithAlgorithm(o.algorithm),
		fingerprint.WithOrder(o.order),
		fingerprint.WithPortableDigest(o.portable),
	)
	if err != nil {
		return nil, err
	}

	p := &Probe{
		opts:    o,
		logger:  o.logger,
		builder: report.NewBuilder(fp, o.tag),
		ctx:     context.Background(),
	}
	p.fanIn = event.NewFanIn(event.ListenerFunc(p.onEvent))
	p.lifecycle = lifecycle.NewManager("probe", o.logger, nil)
	return p, nil
}

// Attach subscribes the probe to server and initializes the plugins.
// Contexts of a server that is already running are subscribed at once but
// only report on their next start.
func (p *Probe) Attach(ctx context.Context, server *host.Server) error {
	if server == nil {
		return ErrNilServer
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lifecycle.CanStart() {
		return ErrAlreadyAttached
	}
	if err := p.lifecycle.TransitionTo(lifecycle.StateStarting, "Attach() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.setContext(runCtx)
	p.cancel = cancel

	if server.State() == lifecycle.StateStopped {
		p.fanIn.Subscribe(server)
	} else {
		p.fanIn.SubscribeTree(server)
	}

	cfg := PluginConfig{Server: server, Logger: p.logger}
	for _, plugin := range p.opts.plugins {
		if err := plugin.Initialize(runCtx, cfg); err != nil {
			p.logger.Error("plugin initialization failed",
				log.String("plugin", plugin.Name()),
				log.Err(err))
			_ = p.lifecycle.TransitionTo(lifecycle.StateFailed, "plugin init failed: "+plugin.Name())
			p.release(ctx)
			return fmt.Errorf("initialize plugin %s: %w", plugin.Name(), err)
		}
		p.inited = append(p.inited, plugin)
		p.logger.Info("plugin initialized", log.String("plugin", plugin.Name()))
	}

	p.logger.Info("probe attached",
		log.String("server", server.Name()),
		log.String("algorithm", p.builder.Algorithm().Name))
	return p.lifecycle.TransitionTo(lifecycle.StateRunning, "attached")
}

// Detach unsubscribes the probe and shuts the plugins down.
func (p *Probe) Detach(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lifecycle.CanStop() {
		return ErrNotAttached
	}
	if err := p.lifecycle.TransitionTo(lifecycle.StateStopping, "Detach() called"); err != nil {
		return err
	}

	p.release(ctx)
	p.logger.Info("probe detached")
	return p.lifecycle.TransitionTo(lifecycle.StateStopped, "detached")
}

// release shuts initialized plugins down and drops every subscription.
// Callers hold p.mu.
func (p *Probe) release(ctx context.Context) {
	for i := len(p.inited) - 1; i >= 0; i-- {
		plugin := p.inited[i]
		if err := plugin.Shutdown(ctx); err != nil {
			p.logger.Error("plugin shutdown failed",
				log.String("plugin", plugin.Name()),
				log.Err(err))
		} else {
			p.logger.Info("plugin shutdown complete", log.String("plugin", plugin.Name()))
		}
	}
	p.inited = nil

	p.fanIn.Close()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.setContext(context.Background())
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (p *Probe) Status() lifecycle.State {
	return p.lifecycle.State()
}

// Algorithm returns the digest algorithm of the reports.
func (p *Probe) Algorithm() fingerprint.Algorithm {
	return p.builder.Algorithm()
}

func (p *Probe) onEvent(e event.Event) {
	if e.Type != event.Start {
		return
	}
	c, ok := e.Source.(*host.Context)
	if !ok {
		return
	}
	p.Report(c)
}

// Report builds and logs the report of c. It is called for every context
// start and may be called directly.
func (p *Probe) Report(c *host.Context) Result {
	p.ctxMu.RLock()
	ctx := p.ctx
	p.ctxMu.RUnlock()

	res := Result{ID: uuid.NewString(), Context: c}
	logger := p.loggerFor(c)
	fields := []log.Field{
		log.String("report_id", res.ID),
		log.String("context", c.Path()),
	}

	res.Report, res.Err = p.builder.Build(ctx, c.Path(), c.Loader())
	if res.Err != nil {
		logger.Error("context report failed", append(fields, log.Err(res.Err))...)
	} else {
		logger.Info(res.Report.String(), fields...)
	}

	if p.opts.reportHandler != nil {
		p.opts.reportHandler(res)
	}
	return res
}

func (p *Probe) setContext(ctx context.Context) {
	p.ctxMu.Lock()
	p.ctx = ctx
	p.ctxMu.Unlock()
}

func (p *Probe) loggerFor(c *host.Context) log.Logger {
	logger := c.Logger()
	if _, noop := logger.(*log.NoopLogger); noop {
		return p.logger
	}
	return logger
}
