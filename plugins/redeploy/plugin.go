// Package redeploy restarts an application when one of its class loader
// roots changes on disk, so that the probe logs a fresh report.
//
// Directory roots are watched non-recursively; archive roots are watched
// through their parent directory. Changes are debounced per plugin.
package redeploy

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/bootprobe/pkg/classpath"
	"github.com/bft-labs/bootprobe/pkg/event"
	"github.com/bft-labs/bootprobe/pkg/host"
	"github.com/bft-labs/bootprobe/pkg/lifecycle"
	"github.com/bft-labs/bootprobe/pkg/log"
	"github.com/bft-labs/bootprobe/pkg/probe"
)

// Config holds configuration options for the redeploy plugin.
type Config struct {
	// DebounceDelay is the quiet period after the last change before the
	// affected contexts are reloaded.
	// Default: 500 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 500 * time.Millisecond}
}

// target is a context interested in a watched directory. An empty name
// matches every entry of the directory.
type target struct {
	ctx  *host.Context
	name string
}

// Plugin implements redeploy on change.
type Plugin struct {
	debounceDelay time.Duration

	mu       sync.Mutex
	logger   log.Logger
	watcher  *fsnotify.Watcher
	fanIn    *event.FanIn
	watches  map[string][]target
	pending  map[*host.Context]struct{}
	debounce *time.Timer
	runCtx   context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a new redeploy plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultConfig().DebounceDelay
	}
	return &Plugin{
		debounceDelay: cfg.DebounceDelay,
		logger:        log.NewNoopLogger(),
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "redeploy"
}

// Initialize watches the roots of every context of the server and of
// contexts started later.
func (p *Plugin) Initialize(ctx context.Context, cfg probe.PluginConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if cfg.Logger != nil {
		p.logger = cfg.Logger
	}
	p.watcher = watcher
	p.watches = make(map[string][]target)
	p.pending = make(map[*host.Context]struct{})
	p.runCtx = runCtx
	p.cancel = cancel
	p.mu.Unlock()

	for _, c := range cfg.Server.Contexts() {
		p.watch(c)
	}

	p.fanIn = event.NewFanIn(event.ListenerFunc(p.onEvent))
	p.fanIn.SubscribeTree(cfg.Server)

	p.wg.Add(1)
	go p.watchLoop(runCtx, watcher)

	p.logger.Info("redeploy watcher started", log.Duration("debounce", p.debounceDelay))
	return nil
}

// Shutdown stops watching and waits for pending reloads.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.fanIn != nil {
		p.fanIn.Close()
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	if p.debounce != nil && p.debounce.Stop() {
		// The timer func will not run; release its slot.
		p.wg.Done()
	}
	p.debounce = nil
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher == nil {
		return nil
	}
	err := p.watcher.Close()
	p.watcher = nil
	return err
}

func (p *Plugin) onEvent(e event.Event) {
	if e.Type != event.AfterStart {
		return
	}
	if c, ok := e.Source.(*host.Context); ok {
		p.watch(c)
	}
}

// watch registers the filesystem roots of c.
func (p *Plugin) watch(c *host.Context) {
	for _, raw := range classpath.Roots(c.Loader()) {
		path, ok, err := classpath.Resolve(raw)
		if err != nil || !ok {
			continue
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			p.logger.Warn("redeploy: cannot watch root",
				log.String("context", c.Path()),
				log.String("path", path),
				log.Err(err))
			continue
		}

		t := target{ctx: c}
		dir := path
		if !info.IsDir() {
			dir, t.name = filepath.Dir(path), filepath.Base(path)
		}
		p.addWatch(dir, t)
	}
}

func (p *Plugin) addWatch(dir string, t target) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher == nil {
		return
	}

	targets, watched := p.watches[dir]
	for _, existing := range targets {
		if existing == t {
			return
		}
	}
	if !watched {
		if err := p.watcher.Add(dir); err != nil {
			p.logger.Warn("redeploy: cannot watch directory", log.String("path", dir), log.Err(err))
			return
		}
	}
	p.watches[dir] = append(targets, t)
	p.logger.Debug("redeploy: watching",
		log.String("context", t.ctx.Path()),
		log.String("path", filepath.Join(dir, t.name)))
}

// match returns the contexts affected by a change of name.
func (p *Plugin) match(name string) []*host.Context {
	p.mu.Lock()
	defer p.mu.Unlock()

	name = filepath.Clean(name)
	var out []*host.Context
	for _, t := range p.watches[filepath.Dir(name)] {
		if t.name == "" || t.name == filepath.Base(name) {
			out = append(out, t.ctx)
		}
	}
	for _, t := range p.watches[name] {
		if t.name == "" {
			out = append(out, t.ctx)
		}
	}
	return out
}

// watchLoop receives filesystem events until ctx is done.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if affected := p.match(ev.Name); len(affected) > 0 {
				p.schedule(affected)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("redeploy: watcher error", log.Err(err))
		}
	}
}

// schedule marks contexts for reload and restarts the debounce timer.
func (p *Plugin) schedule(contexts []*host.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.runCtx == nil || p.runCtx.Err() != nil {
		return
	}
	for _, c := range contexts {
		p.pending[c] = struct{}{}
	}

	if p.debounce != nil && p.debounce.Stop() {
		p.wg.Done()
	}
	p.wg.Add(1)
	p.debounce = time.AfterFunc(p.debounceDelay, p.flush)
}

// flush reloads every pending context that is running.
func (p *Plugin) flush() {
	defer p.wg.Done()

	p.mu.Lock()
	ctx := p.runCtx
	pending := p.pending
	p.pending = make(map[*host.Context]struct{})
	p.mu.Unlock()

	for c := range pending {
		if ctx.Err() != nil {
			return
		}
		if c.State() != lifecycle.StateRunning {
			continue
		}
		p.logger.Info("redeploying context", log.String("context", c.Path()))
		if err := c.Reload(ctx); err != nil {
			p.logger.Error("redeploy failed", log.String("context", c.Path()), log.Err(err))
		}
	}
}

// Ensure Plugin implements probe.Plugin.
var _ probe.Plugin = (*Plugin)(nil)
