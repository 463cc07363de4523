// Package descriptor loads a deployment descriptor: the TOML description of
// a server, its services, hosts and deployed applications.
package descriptor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/bootprobe/pkg/classpath"
	"github.com/bft-labs/bootprobe/pkg/host"
	"github.com/bft-labs/bootprobe/pkg/log"
)

// DefaultServer names the server when the descriptor does not.
const DefaultServer = "main"

// ErrInvalid is returned for a descriptor that cannot describe a server.
var ErrInvalid = errors.New("invalid descriptor")

// Descriptor is the root of the file.
type Descriptor struct {
	Server   string    `toml:"server"`
	Services []Service `toml:"service"`
}

// Service holds one engine and its hosts. Engine defaults to Name.
type Service struct {
	Name   string `toml:"name"`
	Engine string `toml:"engine"`
	Hosts  []Host `toml:"host"`
}

// Host is a virtual host.
type Host struct {
	Name     string    `toml:"name"`
	Contexts []Context `toml:"context"`
}

// Context is a deployed application.
// Resources default to the document base when empty.
type Context struct {
	Path      string   `toml:"path"`
	DocBase   string   `toml:"docbase"`
	Classpath []string `toml:"classpath"`
	Resources []string `toml:"resources"`
}

// Load reads and validates the descriptor at path.
func Load(path string) (*Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	d, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a descriptor.
func Parse(b []byte) (*Descriptor, error) {
	var d Descriptor
	if err := toml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks names and paths and fills defaults.
func (d *Descriptor) Validate() error {
	if d.Server == "" {
		d.Server = DefaultServer
	}
	if len(d.Services) == 0 {
		return fmt.Errorf("%w: no service", ErrInvalid)
	}

	services := make(map[string]bool)
	for i := range d.Services {
		s := &d.Services[i]
		if s.Name == "" {
			return fmt.Errorf("%w: service #%d has no name", ErrInvalid, i+1)
		}
		if services[s.Name] {
			return fmt.Errorf("%w: duplicate service %q", ErrInvalid, s.Name)
		}
		services[s.Name] = true
		if s.Engine == "" {
			s.Engine = s.Name
		}

		hosts := make(map[string]bool)
		for j := range s.Hosts {
			h := &s.Hosts[j]
			if h.Name == "" {
				return fmt.Errorf("%w: service %q: host #%d has no name", ErrInvalid, s.Name, j+1)
			}
			if hosts[h.Name] {
				return fmt.Errorf("%w: service %q: duplicate host %q", ErrInvalid, s.Name, h.Name)
			}
			hosts[h.Name] = true

			paths := make(map[string]bool)
			for _, c := range h.Contexts {
				if c.Path != "" && !strings.HasPrefix(c.Path, "/") {
					return fmt.Errorf("%w: host %q: context path %q must start with '/'", ErrInvalid, h.Name, c.Path)
				}
				if paths[c.Path] {
					return fmt.Errorf("%w: host %q: duplicate context %q", ErrInvalid, h.Name, c.Path)
				}
				paths[c.Path] = true
			}
		}
	}
	return nil
}

// Loader returns the class loader of the application.
func (c Context) Loader() classpath.Loader {
	resources := c.Resources
	if len(resources) == 0 && c.DocBase != "" {
		resources = []string{classpath.FileURL(c.DocBase, true)}
	}
	if len(resources) == 0 {
		return classpath.StaticLoader(c.Classpath)
	}
	return &classpath.WebappLoader{
		Roots: []classpath.ResourceRoot{classpath.StaticRoot(resources)},
		Local: c.Classpath,
	}
}

// Build creates the stopped server tree described by d. Every engine logs
// to logger.
func (d *Descriptor) Build(ctx context.Context, logger log.Logger) (*host.Server, error) {
	server := host.NewServer(d.Server)
	for _, s := range d.Services {
		service := host.NewService(s.Name)
		engine := host.NewEngine(s.Engine, logger)
		if err := server.AddChild(ctx, service); err != nil {
			return nil, err
		}
		if err := service.AddChild(ctx, engine); err != nil {
			return nil, err
		}

		for _, h := range s.Hosts {
			vhost := host.NewHost(h.Name)
			if err := engine.AddChild(ctx, vhost); err != nil {
				return nil, err
			}
			for _, c := range h.Contexts {
				if err := vhost.AddChild(ctx, host.NewContext(c.Path, c.DocBase, c.Loader())); err != nil {
					return nil, err
				}
			}
		}
	}
	return server, nil
}
