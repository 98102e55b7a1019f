package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophboard/internal/logging"
)

const maxRedirects = 8

var (
	ErrUnknownRoute  = errors.New("unknown route")
	ErrRedirectLoop  = errors.New("too many redirects")
	errNoCurrentView = errors.New("no current view")
)

// Router tracks the current view and runs every transition through Guard.
type Router struct {
	byName map[Name]Route
	byPath map[string]Route
	preds  Predicates
	log    logging.Logger

	mu      sync.Mutex
	current Route
}

func New(routes []Route, p Predicates, log logging.Logger) (*Router, error) {
	if err := ValidateRoutes(routes); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}

	r := &Router{
		byName: make(map[Name]Route, len(routes)),
		byPath: make(map[string]Route, len(routes)),
		preds:  p,
		log:    log,
	}
	for _, rt := range routes {
		r.byName[rt.Name] = rt
		r.byPath[rt.Path] = rt
	}
	return r, nil
}

// Push navigates to the named route and returns the route actually entered.
func (r *Router) Push(ctx context.Context, name Name) (Route, error) {
	rt, ok := r.byName[name]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	return r.enter(ctx, rt)
}

func (r *Router) PushPath(ctx context.Context, path string) (Route, error) {
	rt, ok := r.byPath[path]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
	}
	return r.enter(ctx, rt)
}

// Refresh re-runs the guard on the current view, e.g. after the session
// was torn down, and reports whether the view changed.
func (r *Router) Refresh(ctx context.Context) (Route, bool, error) {
	r.mu.Lock()
	cur := r.current
	r.mu.Unlock()

	if cur.Name == "" {
		return Route{}, false, errNoCurrentView
	}
	next, err := r.enter(ctx, cur)
	if err != nil {
		return cur, false, err
	}
	return next, next.Name != cur.Name, nil
}

func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) resolve(rt Route) (Route, error) {
	for range maxRedirects {
		if rt.Redirect != "" {
			rt = r.byName[rt.Redirect]
			continue
		}
		d := Guard(rt, r.preds)
		if d.Allow {
			return rt, nil
		}
		rt = r.byName[d.Redirect]
	}
	return Route{}, ErrRedirectLoop
}

func (r *Router) enter(ctx context.Context, target Route) (Route, error) {
	rt, err := r.resolve(target)
	if err != nil {
		return Route{}, fmt.Errorf("navigate to %q: %w", target.Name, err)
	}
	if rt.Name != target.Name {
		r.log.Debug(ctx, "navigation redirected", "from", target.Name, "to", rt.Name)
	}

	r.mu.Lock()
	r.current = rt
	r.mu.Unlock()
	return rt, nil
}
