package redeploy

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/bootprobe/pkg/classpath"
	"github.com/bft-labs/bootprobe/pkg/host"
	"github.com/bft-labs/bootprobe/pkg/probe"
)

type counter struct {
	mu    sync.Mutex
	count map[string]int
}

func (c *counter) handle(r probe.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == nil {
		c.count = make(map[string]int)
	}
	c.count[r.Context.Path()]++
}

func (c *counter) get(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count[path]
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func newServer(t *testing.T, contexts ...*host.Context) *host.Server {
	t.Helper()
	ctx := context.Background()
	server := host.NewServer("main")
	service := host.NewService("Catalina")
	engine := host.NewEngine("Catalina", nil)
	h := host.NewHost("localhost")
	steps := []error{
		server.AddChild(ctx, service),
		service.AddChild(ctx, engine),
		engine.AddChild(ctx, h),
	}
	for _, c := range contexts {
		steps = append(steps, h.AddChild(ctx, c))
	}
	for _, err := range steps {
		if err != nil {
			t.Fatalf("build tree: %v", err)
		}
	}
	return server
}

func startProbe(t *testing.T, server *host.Server, c *counter) *probe.Probe {
	t.Helper()
	p, err := probe.New(
		probe.WithReportHandler(c.handle),
		WithRedeploy(Config{DebounceDelay: 20 * time.Millisecond}),
	)
	if err != nil {
		t.Fatalf("probe.New() error: %v", err)
	}
	if err := p.Attach(context.Background(), server); err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	t.Cleanup(func() { _ = p.Detach(context.Background()) })

	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	return p
}

func TestPlugin_ReloadsOnDirectoryChange(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("v1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app := host.NewContext("/app", dir, classpath.StaticLoader{classpath.FileURL(dir, true)})
	c := &counter{}
	startProbe(t, newServer(t, app), c)

	if got := c.get("/app"); got != 1 {
		t.Fatalf("reports after start = %d, want 1", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("v2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !waitFor(t, func() bool { return c.get("/app") >= 2 }) {
		t.Fatalf("context was not redeployed, reports = %d", c.get("/app"))
	}
}

func TestPlugin_ArchiveRootIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "app.jar")
	if err := os.WriteFile(jar, []byte("v1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app := host.NewContext("/app", dir, classpath.StaticLoader{"jar:" + classpath.FileURL(jar, false) + "!/"})
	c := &counter{}
	startProbe(t, newServer(t, app), c)

	if err := os.WriteFile(filepath.Join(dir, "other.jar"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := c.get("/app"); got != 1 {
		t.Fatalf("sibling change redeployed the context, reports = %d", got)
	}

	if err := os.WriteFile(jar, []byte("v2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !waitFor(t, func() bool { return c.get("/app") >= 2 }) {
		t.Fatalf("context was not redeployed, reports = %d", c.get("/app"))
	}
}

func TestPlugin_NoReloadAfterShutdown(t *testing.T) {
	dir := t.TempDir()
	app := host.NewContext("/app", dir, classpath.StaticLoader{classpath.FileURL(dir, true)})
	c := &counter{}
	p := startProbe(t, newServer(t, app), c)

	if err := p.Detach(context.Background()); err != nil {
		t.Fatalf("Detach() error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "late.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := c.get("/app"); got != 1 {
		t.Fatalf("reports after shutdown = %d, want 1", got)
	}
}

func TestPlugin_Match(t *testing.T) {
	a := host.NewContext("/a", "", nil)
	b := host.NewContext("/b", "", nil)
	p := New(Config{})
	p.watches = map[string][]target{
		"/srv/a":   {{ctx: a}},
		"/srv/lib": {{ctx: a, name: "x.jar"}, {ctx: b, name: "y.jar"}},
	}

	tests := []struct {
		name string
		path string
		want []*host.Context
	}{
		{"entry of watched dir", "/srv/a/index.html", []*host.Context{a}},
		{"watched dir itself", "/srv/a", []*host.Context{a}},
		{"archive", "/srv/lib/y.jar", []*host.Context{b}},
		{"sibling of archive", "/srv/lib/z.jar", nil},
		{"unwatched", "/tmp/x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.match(tt.path)
			if len(got) != len(tt.want) {
				t.Fatalf("match(%q) = %v, want %v", tt.path, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("match(%q)[%d] = %v, want %v", tt.path, i, got[i].Path(), tt.want[i].Path())
				}
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New(Config{})
	if p.debounceDelay != 500*time.Millisecond {
		t.Errorf("debounceDelay = %v, want 500ms", p.debounceDelay)
	}
	if p.Name() != "redeploy" {
		t.Errorf("Name() = %q", p.Name())
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() before Initialize error: %v", err)
	}
}
