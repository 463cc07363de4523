package classpath

// StaticLoader is a Loader over a fixed URL list.
type StaticLoader []string

// URLs returns a copy of the list.
func (s StaticLoader) URLs() []string {
	return append([]string(nil), s...)
}

// StaticRoot is a ResourceRoot over a fixed URL list.
type StaticRoot []string

// BaseURLs returns a copy of the list.
func (s StaticRoot) BaseURLs() []string {
	return append([]string(nil), s...)
}

// WebappLoader models a web application class loader: resource roots
// (document base, mounted archives) plus its own URLs
// (WEB-INF/classes, WEB-INF/lib/*.jar).
type WebappLoader struct {
	Roots []ResourceRoot
	Local []string
}

// URLs returns the loader's own URLs.
func (w *WebappLoader) URLs() []string {
	return append([]string(nil), w.Local...)
}

// ResourceRoots returns the resource roots.
func (w *WebappLoader) ResourceRoots() []ResourceRoot {
	return append([]ResourceRoot(nil), w.Roots...)
}

var (
	_ Loader         = StaticLoader(nil)
	_ ResourceLoader = (*WebappLoader)(nil)
)
