package http

type routeKey struct {
	method HttpMethod
	path   string
}

// Router collects routes while the server is being configured. Paths are
// compared byte for byte: no trailing slash folding, no variables, no wildcards.
type Router struct {
	routes map[routeKey]Handler
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[routeKey]Handler),
	}
}

// Handle registers h for method and path, replacing any previous handler for
// that pair. It reports whether a handler was replaced.
func (r *Router) Handle(method HttpMethod, path string, h Handler) bool {
	key := routeKey{method: method, path: path}
	_, replaced := r.routes[key]
	r.routes[key] = h
	return replaced
}

// Freeze copies the registered routes into a RouteTable. Later calls to
// Handle do not affect the returned table.
func (r *Router) Freeze() RouteTable {
	routes := make(map[routeKey]Handler, len(r.routes))
	for k, h := range r.routes {
		routes[k] = h
	}
	return RouteTable{routes: routes}
}

// RouteTable is read-only and safe to share between connections.
type RouteTable struct {
	routes map[routeKey]Handler
}

func (t RouteTable) Lookup(method HttpMethod, path string) (Handler, bool) {
	h, ok := t.routes[routeKey{method: method, path: path}]
	return h, ok
}

func (t RouteTable) Len() int {
	return len(t.routes)
}
