package host

import (
	"github.com/bft-labs/bootprobe/pkg/classpath"
	"github.com/bft-labs/bootprobe/pkg/event"
	"github.com/bft-labs/bootprobe/pkg/log"
)

// Server is the root of the tree.
type Server struct {
	container
}

// NewServer creates a stopped server.
func NewServer(name string) *Server {
	s := &Server{}
	s.init(s, event.KindServer, name, nil)
	return s
}

// Contexts returns every context of the tree in tree order.
func (s *Server) Contexts() []*Context {
	var out []*Context
	var walk func(n Node)
	walk = func(n Node) {
		if c, ok := n.(*Context); ok {
			out = append(out, c)
			return
		}
		for _, child := range n.base().childNodes() {
			walk(child)
		}
	}
	walk(s)
	return out
}

// FindContext returns the first context with the given path.
func (s *Server) FindContext(path string) (*Context, bool) {
	for _, c := range s.Contexts() {
		if c.Path() == path {
			return c, true
		}
	}
	return nil, false
}

// Service groups connectors and exactly one engine.
type Service struct {
	container
}

// NewService creates a stopped service.
func NewService(name string) *Service {
	s := &Service{}
	s.init(s, event.KindService, name, nil)
	return s
}

// Engine processes requests for its hosts and owns the logger that
// context reports are written to.
type Engine struct {
	container
}

// NewEngine creates a stopped engine. logger may be nil.
func NewEngine(name string, logger log.Logger) *Engine {
	e := &Engine{}
	e.init(e, event.KindEngine, name, logger)
	return e
}

// Host is a virtual host holding application contexts.
type Host struct {
	container
}

// NewHost creates a stopped virtual host.
func NewHost(name string) *Host {
	h := &Host{}
	h.init(h, event.KindHost, name, nil)
	return h
}

// Context is a deployed application.
type Context struct {
	container
	path    string
	docBase string
	loader  classpath.Loader
}

// NewContext creates a stopped context mounted at path. The context name
// is its path.
func NewContext(path, docBase string, loader classpath.Loader) *Context {
	c := &Context{path: path, docBase: docBase, loader: loader}
	c.init(c, event.KindContext, path, nil)
	return c
}

// Path returns the context path ("" or "/app").
func (c *Context) Path() string { return c.path }

// DocBase returns the document base directory.
func (c *Context) DocBase() string { return c.docBase }

// Loader returns the class loader of the application.
func (c *Context) Loader() classpath.Loader { return c.loader }

var (
	_ Node = (*Server)(nil)
	_ Node = (*Service)(nil)
	_ Node = (*Engine)(nil)
	_ Node = (*Host)(nil)
	_ Node = (*Context)(nil)
)
