// Package classpath introspects the root locations an application loads
// classes and resources from and resolves them to filesystem paths.
package classpath

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrMalformedURL is returned when a root location cannot be parsed.
var ErrMalformedURL = errors.New("classpath: malformed url")

// Loader exposes the ordered root URLs of an application.
type Loader interface {
	URLs() []string
}

// ResourceRoot is a mounted resource set (document base, extra jars, ...).
type ResourceRoot interface {
	BaseURLs() []string
}

// ResourceLoader is a Loader that also serves resources from resource roots.
type ResourceLoader interface {
	Loader
	ResourceRoots() []ResourceRoot
}

// Roots returns every root location of loader: for a ResourceLoader the base
// URLs of its resource roots first, then its URLs. The loader's order is
// preserved. A nil loader yields no roots.
func Roots(loader Loader) []string {
	if loader == nil {
		return nil
	}

	var roots []string
	if rl, ok := loader.(ResourceLoader); ok {
		for _, root := range rl.ResourceRoots() {
			roots = append(roots, root.BaseURLs()...)
		}
	}
	return append(roots, loader.URLs()...)
}

// Resolve maps a root location to the filesystem path holding it.
// "file:" URLs map to their path. "jar:<inner>!/<entry>" URLs resolve to the
// archive named by <inner>. Other schemes report ok=false.
func Resolve(raw string) (path string, ok bool, err error) {
	scheme, rest, found := strings.Cut(raw, ":")
	if !found {
		return "", false, fmt.Errorf("%w: %q has no scheme", ErrMalformedURL, raw)
	}

	switch strings.ToLower(scheme) {
	case "jar":
		sep := strings.LastIndex(rest, "!")
		if sep < 0 {
			return "", false, fmt.Errorf("%w: %q has no archive separator", ErrMalformedURL, raw)
		}
		return Resolve(rest[:sep])
	case "file":
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, fmt.Errorf("%w: %v", ErrMalformedURL, err)
		}
		p := u.Path
		if p == "" {
			// Opaque form, e.g. file:relative/dir.
			p = u.Opaque
		}
		if p == "" {
			return "", false, fmt.Errorf("%w: %q has an empty path", ErrMalformedURL, raw)
		}
		return filepath.FromSlash(p), true, nil
	default:
		return "", false, nil
	}
}

// FileURL returns the "file:" URL of a filesystem path. Directories get a
// trailing slash, as class loaders expect.
func FileURL(path string, dir bool) string {
	p := filepath.ToSlash(path)
	if dir && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
