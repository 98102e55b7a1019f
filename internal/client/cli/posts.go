package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophboard/internal/client/models"
)

var (
	errNotAllowed = errors.New("not allowed")
	errNoChanges  = errors.New("nothing to change")
	errCancelled  = errors.New("cancelled")
)

func (a *App) printPostsResult() {
	snap := a.posts.Snapshot()
	if snap.Error != "" {
		fmt.Fprintln(a.out, "Error:", snap.Error)
		return
	}
	if len(snap.Items) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
		return
	}
	for _, p := range snap.Items {
		fmt.Fprintf(a.out, "[%s] %s | by %s at %s\n", p.ID, p.Title, p.AuthorName, p.CreatedAt)
	}
}

func (a *App) printPost(p models.Post) {
	fmt.Fprintf(a.out, "ID:      %s\n", p.ID)
	fmt.Fprintf(a.out, "Title:   %s\n", p.Title)
	fmt.Fprintf(a.out, "Author:  %s (%s)\n", p.AuthorName, p.AuthorID)
	fmt.Fprintf(a.out, "Created: %s\n", p.CreatedAt)
	if p.UpdatedAt != "" && p.UpdatedAt != p.CreatedAt {
		fmt.Fprintf(a.out, "Updated: %s\n", p.UpdatedAt)
	}
	fmt.Fprintf(a.out, "\n%s\n", p.Message)
}

// canModify mirrors the server rule: authors and admins may change a post.
func (a *App) canModify(p models.Post) bool {
	if a.session.IsAdmin() {
		return true
	}
	id, ok := a.session.CurrentUserID()
	return ok && id == p.AuthorID
}

func (a *App) showPost(ctx context.Context, id string) error {
	p, ok := a.posts.Get(id)
	if !ok {
		var err error
		p, err = a.api.GetPost(ctx, id)
		if err != nil {
			a.printAPIError(err, "failed to fetch post")
			return err
		}
	}
	a.printPost(p)
	return nil
}

func (a *App) addPost(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	message, err := getMultiline(a.reader, "Message", a.out)
	if err != nil {
		return err
	}

	p, err := a.posts.Create(ctx, models.PostCreate{Title: title, Message: message})
	if err != nil {
		fmt.Fprintln(a.out, "Error:", a.posts.Error())
		return err
	}
	fmt.Fprintf(a.out, "Created post %s\n", p.ID)
	return nil
}

func (a *App) editPost(ctx context.Context, id string) error {
	if p, ok := a.posts.Get(id); ok && !a.canModify(p) {
		fmt.Fprintln(a.out, "You can only edit your own posts.")
		return errNotAllowed
	}

	var data models.PostUpdate
	title, err := getSimpleText(a.reader, "New title (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if title != "" {
		data.Title = &title
	}
	message, err := getMultiline(a.reader, "New message (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if message != "" {
		data.Message = &message
	}
	if data.Title == nil && data.Message == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return errNoChanges
	}

	if _, err := a.posts.Update(ctx, id, data); err != nil {
		fmt.Fprintln(a.out, "Error:", a.posts.Error())
		return err
	}
	fmt.Fprintln(a.out, "Post updated.")
	return nil
}

func (a *App) deletePost(ctx context.Context, id string) error {
	if p, ok := a.posts.Get(id); ok && !a.canModify(p) {
		fmt.Fprintln(a.out, "You can only delete your own posts.")
		return errNotAllowed
	}
	if !a.confirm(fmt.Sprintf("Delete post %s?", id)) {
		return errCancelled
	}

	if err := a.posts.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Error:", a.posts.Error())
		return err
	}
	fmt.Fprintln(a.out, "Post deleted.")
	return nil
}
