// Package router holds the client's view table and the guard that decides
// whether a view may be entered with the current session.
package router

import (
	"errors"
	"fmt"
)

type Name string

const (
	Home  Name = "home"
	Login Name = "login"
	Board Name = "board"
	Users Name = "users"
)

// Route describes one view. A route with Redirect set is an alias and is
// never shown itself.
type Route struct {
	Name          Name
	Path          string
	Redirect      Name
	RequiresAuth  bool
	RequiresAdmin bool
}

// DefaultRoutes is the client's view table.
var DefaultRoutes = []Route{
	{Name: Home, Path: "/", Redirect: Board},
	{Name: Login, Path: "/login"},
	{Name: Board, Path: "/board", RequiresAuth: true},
	{Name: Users, Path: "/users", RequiresAuth: true, RequiresAdmin: true},
}

var ErrInvalidRoutes = errors.New("invalid route table")

// ValidateRoutes checks a route table before it is used. Admin routes must
// also require authentication, and the login and board views must exist.
func ValidateRoutes(routes []Route) error {
	names := make(map[Name]Route, len(routes))
	paths := make(map[string]struct{}, len(routes))

	for _, r := range routes {
		if r.Name == "" {
			return fmt.Errorf("%w: route %q has no name", ErrInvalidRoutes, r.Path)
		}
		if _, ok := names[r.Name]; ok {
			return fmt.Errorf("%w: duplicate route name %q", ErrInvalidRoutes, r.Name)
		}
		if _, ok := paths[r.Path]; ok {
			return fmt.Errorf("%w: duplicate route path %q", ErrInvalidRoutes, r.Path)
		}
		if r.RequiresAdmin && !r.RequiresAuth {
			return fmt.Errorf("%w: route %q requires admin but not auth", ErrInvalidRoutes, r.Name)
		}
		names[r.Name] = r
		paths[r.Path] = struct{}{}
	}

	for _, r := range routes {
		if r.Redirect == "" {
			continue
		}
		if _, ok := names[r.Redirect]; !ok {
			return fmt.Errorf("%w: route %q redirects to unknown %q", ErrInvalidRoutes, r.Name, r.Redirect)
		}
	}

	for _, n := range []Name{Login, Board} {
		if _, ok := names[n]; !ok {
			return fmt.Errorf("%w: missing %q route", ErrInvalidRoutes, n)
		}
	}
	return nil
}
