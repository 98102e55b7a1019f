package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type preds struct {
	authed bool
	admin  bool
}

func (p *preds) IsAuthenticated() bool { return p.authed }
func (p *preds) IsAdmin() bool         { return p.admin }

func route(name Name) Route {
	for _, r := range DefaultRoutes {
		if r.Name == name {
			return r
		}
	}
	panic("no route " + name)
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name  string
		to    Route
		preds preds
		want  Decision
	}{
		{name: "auth required, anonymous", to: Route{Name: "x", RequiresAuth: true}, want: Decision{Redirect: Login}},
		{name: "admin required, plain user", to: Route{Name: "x", RequiresAuth: true, RequiresAdmin: true}, preds: preds{authed: true}, want: Decision{Redirect: Board}},
		{name: "login while authenticated", to: route(Login), preds: preds{authed: true}, want: Decision{Redirect: Board}},
		{name: "admin route, anonymous goes to login first", to: route(Users), want: Decision{Redirect: Login}},
		{name: "admin route, admin", to: route(Users), preds: preds{authed: true, admin: true}, want: Decision{Allow: true}},
		{name: "board, authenticated", to: route(Board), preds: preds{authed: true}, want: Decision{Allow: true}},
		{name: "login, anonymous", to: route(Login), want: Decision{Allow: true}},
		{name: "public route", to: Route{Name: "about"}, want: Decision{Allow: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.preds
			assert.Equal(t, tt.want, Guard(tt.to, &p))
		})
	}
}

func TestValidateRoutes(t *testing.T) {
	require.NoError(t, ValidateRoutes(DefaultRoutes))

	base := []Route{{Name: Login, Path: "/login"}, {Name: Board, Path: "/board", RequiresAuth: true}}

	tests := []struct {
		name   string
		routes []Route
	}{
		{name: "admin without auth", routes: append(base, Route{Name: Users, Path: "/users", RequiresAdmin: true})},
		{name: "duplicate name", routes: append(base, Route{Name: Login, Path: "/other"})},
		{name: "duplicate path", routes: append(base, Route{Name: "x", Path: "/login"})},
		{name: "unknown redirect", routes: append(base, Route{Name: Home, Path: "/", Redirect: "nowhere"})},
		{name: "missing login", routes: []Route{{Name: Board, Path: "/board", RequiresAuth: true}}},
		{name: "empty name", routes: append(base, Route{Path: "/x"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, ValidateRoutes(tt.routes), ErrInvalidRoutes)
		})
	}
}

func TestNew_RejectsInvalidTable(t *testing.T) {
	_, err := New([]Route{{Name: Login, Path: "/login"}}, &preds{}, nil)
	require.ErrorIs(t, err, ErrInvalidRoutes)
}

func TestRouter_Push(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		to    Name
		preds preds
		want  Name
	}{
		{name: "home anonymous", to: Home, want: Login},
		{name: "home authenticated", to: Home, preds: preds{authed: true}, want: Board},
		{name: "users as user", to: Users, preds: preds{authed: true}, want: Board},
		{name: "users as admin", to: Users, preds: preds{authed: true, admin: true}, want: Users},
		{name: "login authenticated", to: Login, preds: preds{authed: true}, want: Board},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.preds
			r, err := New(DefaultRoutes, &p, nil)
			require.NoError(t, err)

			got, err := r.Push(ctx, tt.to)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Name)
			require.Equal(t, tt.want, r.Current().Name)
		})
	}
}

func TestRouter_PushUnknown(t *testing.T) {
	r, err := New(DefaultRoutes, &preds{}, nil)
	require.NoError(t, err)

	_, err = r.Push(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownRoute)

	_, err = r.PushPath(context.Background(), "/nope")
	require.ErrorIs(t, err, ErrUnknownRoute)
}

func TestRouter_PushPath(t *testing.T) {
	r, err := New(DefaultRoutes, &preds{authed: true}, nil)
	require.NoError(t, err)

	got, err := r.PushPath(context.Background(), "/")
	require.NoError(t, err)
	require.Equal(t, Board, got.Name)
}

func TestRouter_RefreshAfterTeardown(t *testing.T) {
	ctx := context.Background()
	p := &preds{authed: true, admin: true}
	r, err := New(DefaultRoutes, p, nil)
	require.NoError(t, err)

	_, err = r.Push(ctx, Users)
	require.NoError(t, err)

	got, changed, err := r.Refresh(ctx)
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, Users, got.Name)

	p.authed, p.admin = false, false
	got, changed, err = r.Refresh(ctx)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, Login, got.Name)
	require.Equal(t, Login, r.Current().Name)
}

func TestRouter_RefreshWithoutView(t *testing.T) {
	r, err := New(DefaultRoutes, &preds{}, nil)
	require.NoError(t, err)

	_, _, err = r.Refresh(context.Background())
	require.Error(t, err)
}

func TestRouter_RedirectLoop(t *testing.T) {
	routes := []Route{
		{Name: Login, Path: "/login", Redirect: "a"},
		{Name: "a", Path: "/a", Redirect: Login},
		{Name: Board, Path: "/board", RequiresAuth: true},
	}
	r, err := New(routes, &preds{}, nil)
	require.NoError(t, err)

	_, err = r.Push(context.Background(), Board)
	require.ErrorIs(t, err, ErrRedirectLoop)
}
