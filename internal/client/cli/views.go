package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophboard/internal/client/router"
)

var errNoView = errors.New("command not available in this view")

// Open switches to the named view. Entering a list view fetches it.
func (a *App) Open(ctx context.Context, view string) error {
	want := router.Name(strings.ToLower(view))
	rt, err := a.router.Push(ctx, want)
	if err != nil {
		if errors.Is(err, router.ErrUnknownRoute) {
			fmt.Fprintln(a.out, "Unknown view:", view)
		}
		return err
	}
	if rt.Name != want {
		fmt.Fprintf(a.out, "Cannot open %s, showing %s instead.\n", want, rt.Name)
	}

	switch rt.Name {
	case router.Board, router.Users:
		return a.List(ctx)
	}
	return nil
}

func (a *App) List(ctx context.Context) error {
	switch a.router.Current().Name {
	case router.Board:
		a.posts.FetchAll(ctx)
		a.printPostsResult()
	case router.Users:
		a.users.FetchAll(ctx)
		a.printUsersResult()
	default:
		return a.notHere()
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	switch a.router.Current().Name {
	case router.Board:
		return a.showPost(ctx, id)
	case router.Users:
		return a.showUser(ctx, id)
	}
	return a.notHere()
}

func (a *App) Add(ctx context.Context) error {
	switch a.router.Current().Name {
	case router.Board:
		return a.addPost(ctx)
	case router.Users:
		return a.addUser(ctx)
	}
	return a.notHere()
}

func (a *App) Edit(ctx context.Context, id string) error {
	switch a.router.Current().Name {
	case router.Board:
		return a.editPost(ctx, id)
	case router.Users:
		return a.editUser(ctx, id)
	}
	return a.notHere()
}

func (a *App) Delete(ctx context.Context, id string) error {
	switch a.router.Current().Name {
	case router.Board:
		return a.deletePost(ctx, id)
	case router.Users:
		return a.deleteUser(ctx, id)
	}
	return a.notHere()
}

func (a *App) notHere() error {
	fmt.Fprintln(a.out, "Nothing to do here, log in first.")
	return errNoView
}

// confirm asks a yes/no question; anything but y/yes is a no.
func (a *App) confirm(question string) bool {
	answer, err := getSimpleText(a.reader, question+" (y/N)", a.out)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
