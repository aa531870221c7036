// Package router maps portal paths to views. Matching is done by a chi mux
// whose handlers are never served; only its tree is used.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/Dosada05/hackathon-portal/views"
	"github.com/go-chi/chi/v5"
)

// maxRedirects bounds guard redirects for one navigation.
const maxRedirects = 4

// Router is the portal's Navigator. It owns the mounted view.
type Router struct {
	ctx    context.Context
	deps   views.Deps
	mux    *chi.Mux
	routes map[string]Route
	logger *slog.Logger

	mu      sync.Mutex
	current views.View
	path    string
	history []string
}

// New builds a router over routes and installs it as the navigator of deps
// and of the client.
func New(ctx context.Context, deps views.Deps, routes []Route) (*Router, error) {
	r := &Router{
		ctx:    ctx,
		mux:    chi.NewMux(),
		routes: make(map[string]Route, len(routes)),
		logger: deps.Logger,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for _, route := range routes {
		if route.Build == nil {
			return nil, fmt.Errorf("route %s: no view factory", route.Pattern)
		}
		if _, dup := r.routes[route.Pattern]; dup {
			return nil, fmt.Errorf("route %s: registered twice", route.Pattern)
		}
		r.routes[route.Pattern] = route
		r.mux.Get(route.Pattern, noop)
	}

	deps.Navigator = r
	if deps.Client != nil {
		deps.Client.SetNavigator(r)
	}
	r.deps = deps
	return r, nil
}

// Match finds the route for path. The query string is ignored.
func (r *Router) Match(path string) (Route, Params, bool) {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	if path == "" {
		path = "/"
	}
	rctx := chi.NewRouteContext()
	pattern := r.mux.Find(rctx, http.MethodGet, path)
	route, ok := r.routes[pattern]
	if !ok {
		return Route{}, nil, false
	}
	params := make(Params, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return route, params, true
}

// resolve applies the guard: protected routes need a session, and a session
// of the wrong role is sent to its own home.
func (r *Router) resolve(path string) (string, Route, Params, bool) {
	sess := r.deps.Session
	for i := 0; i < maxRedirects; i++ {
		route, params, ok := r.Match(path)
		if !ok || len(route.Roles) == 0 {
			return path, route, params, ok
		}
		switch {
		case !sess.Authenticated():
			path = views.RouteLogin
		case !route.allows(sess.Role()):
			path = views.HomeFor(sess.Role())
		default:
			return path, route, params, true
		}
		r.logger.Debug("route guard redirect", slog.String("to", path))
	}
	return views.RouteLogin, r.routes[views.RouteLogin], Params{}, r.routes[views.RouteLogin].Build != nil
}

// Navigate unmounts the current view and mounts the one for path.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, route, params, ok := r.resolve(path)
	var next views.View
	if ok {
		next = route.Build(r.deps, params)
	} else {
		next = views.NewNotFoundView(r.deps, target)
	}

	if r.current != nil {
		r.current.Unmount()
	}
	r.current, r.path = next, target
	r.history = append(r.history, target)
	next.Mount(r.ctx)
}

// Current returns the mounted view and its path.
func (r *Router) Current() (views.View, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.path
}

// History lists every path mounted so far, redirects included.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Settle waits for the mounted view's fetches. If one of them navigated
// away (a forced logout, for example) it waits for the new view too.
func (r *Router) Settle() (views.View, string) {
	for {
		v, path := r.Current()
		if v == nil {
			return nil, path
		}
		v.Wait()
		if now, _ := r.Current(); now == v {
			return v, path
		}
	}
}

// Close unmounts the current view.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Unmount()
		r.current = nil
	}
}
