package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophboard/internal/client/router"
)

// Input helpers are package variables so tests can swap them.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

var (
	errLoginFailed = errors.New("login failed")
	errNotLoggedIn = errors.New("not logged in")
)

// Login prompts for credentials and starts a session. On success the user
// is taken to the board.
func (a *App) Login(ctx context.Context) error {
	if a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Already logged in, use logout first.")
		return nil
	}

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if !a.session.Login(ctx, username, password) {
		fmt.Fprintln(a.out, "Login failed:", a.session.Error())
		return errLoginFailed
	}

	name := username
	if p, ok := a.session.Profile(); ok {
		name = p.Username
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", name)

	if _, err := a.router.Push(ctx, router.Board); err != nil {
		return err
	}
	a.posts.FetchAll(ctx)
	a.printPostsResult()
	return nil
}

// Logout ends the session and returns to the login view.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		fmt.Fprintln(a.out, "Logout failed:", err)
		return err
	}
	if _, err := a.router.Push(ctx, router.Login); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the current profile, fetching it first when only the token
// is known.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return errNotLoggedIn
	}

	p, ok := a.session.Profile()
	if !ok {
		if err := a.session.FetchUser(ctx); err != nil {
			fmt.Fprintln(a.out, "Could not load your profile.")
			return err
		}
		if p, ok = a.session.Profile(); !ok {
			fmt.Fprintln(a.out, "Not logged in.")
			return errNotLoggedIn
		}
	}

	fmt.Fprintf(a.out, "%s (%s) id=%s\n", p.Username, p.Role, p.ID)
	return nil
}
