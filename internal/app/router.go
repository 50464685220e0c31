package app

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"notes-client/internal/backend"
	"notes-client/internal/view"
)

const HomePath = "home"

// RouteKind identifies which view a path renders.
type RouteKind int

const (
	RouteList RouteKind = iota
	RouteDetail
)

// Route is a resolved path.
type Route struct {
	Kind           RouteKind
	Path           string
	ConversationID int64
}

// Resolve maps a path to a route. The empty path and unknown paths redirect
// to the list view.
func Resolve(path string) Route {
	p := strings.Trim(strings.TrimSpace(path), "/")
	if p == HomePath {
		return Route{Kind: RouteList, Path: HomePath}
	}
	if rest, ok := strings.CutPrefix(p, "conversation/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return Route{
			Kind:           RouteDetail,
			Path:           p,
			ConversationID: view.ParseConversationID(rest),
		}
	}
	return Route{Kind: RouteList, Path: HomePath}
}

// View is what the router keeps alive between navigations.
type View interface {
	Close()
}

// Router owns the current view. Navigating closes the previous view, which
// cancels its requests, before the next one loads.
type Router struct {
	client backend.Client
	logger *zap.Logger

	mu      sync.Mutex
	current View
	route   Route
}

// NewRouter builds a router with no current view.
func NewRouter(client backend.Client, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{client: client, logger: logger.Named("router")}
}

// Navigate switches to the view for path and runs its load routine. The load
// error is returned, but the view stays current so it can be retried.
func (r *Router) Navigate(ctx context.Context, path string) error {
	route := Resolve(path)

	var (
		next View
		load func() error
	)
	switch route.Kind {
	case RouteDetail:
		v := view.NewConversationDetail(r.client, r.logger)
		next = v
		load = func() error { return v.Load(ctx, route.ConversationID) }
	default:
		v := view.NewConversationList(r.client, r, r.logger)
		next = v
		load = func() error { return v.Init(ctx) }
	}

	r.mu.Lock()
	prev := r.current
	r.current = next
	r.route = route
	r.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	r.logger.Info("navigate", zap.String("path", path), zap.String("route", route.Path))
	return load()
}

// Current returns the current view and its route.
func (r *Router) Current() (View, Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.route
}

// Close tears down the current view.
func (r *Router) Close() {
	r.mu.Lock()
	prev := r.current
	r.current = nil
	r.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

var _ view.Navigator = (*Router)(nil)
