package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophboard/internal/client/client"
	"github.com/dmitrijs2005/gophboard/internal/client/models"
)

var errBadRole = errors.New("unknown role")

func (a *App) printUsersResult() {
	snap := a.users.Snapshot()
	if snap.Error != "" {
		fmt.Fprintln(a.out, "Error:", snap.Error)
		return
	}
	if len(snap.Items) == 0 {
		fmt.Fprintln(a.out, "No users.")
		return
	}
	for _, u := range snap.Items {
		fmt.Fprintf(a.out, "[%s] %s (%s)\n", u.ID, u.Username, u.Role)
	}
}

func (a *App) printAPIError(err error, fallback string) {
	fmt.Fprintln(a.out, "Error:", client.Message(err, fallback))
}

// readRole reads an optional role; empty input returns "".
func (a *App) readRole(prompt string) (models.Role, error) {
	raw, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	role := models.Role(strings.ToLower(raw))
	if role != "" && !role.Valid() {
		fmt.Fprintf(a.out, "Unknown role %q, use user or admin.\n", raw)
		return "", errBadRole
	}
	return role, nil
}

func (a *App) showUser(ctx context.Context, id string) error {
	u, ok := a.users.Get(id)
	if !ok {
		var err error
		u, err = a.api.GetUser(ctx, id)
		if err != nil {
			a.printAPIError(err, "failed to fetch user")
			return err
		}
	}
	fmt.Fprintf(a.out, "ID:       %s\n", u.ID)
	fmt.Fprintf(a.out, "Username: %s\n", u.Username)
	fmt.Fprintf(a.out, "Role:     %s\n", u.Role)
	fmt.Fprintf(a.out, "Created:  %s\n", u.CreatedAt)
	return nil
}

func (a *App) addUser(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	role, err := a.readRole("Role (user or admin, empty for user)")
	if err != nil {
		return err
	}

	u, err := a.users.Create(ctx, models.UserCreate{Username: username, Password: password, Role: role})
	if err != nil {
		fmt.Fprintln(a.out, "Error:", a.users.Error())
		return err
	}
	fmt.Fprintf(a.out, "Created user %s\n", u.ID)
	return nil
}

func (a *App) editUser(ctx context.Context, id string) error {
	var data models.UserUpdate

	username, err := getSimpleText(a.reader, "New username (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if username != "" {
		data.Username = &username
	}
	fmt.Fprintln(a.out, "New password (empty keeps the current one)")
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	if password != "" {
		data.Password = &password
	}
	role, err := a.readRole("New role (empty keeps the current one)")
	if err != nil {
		return err
	}
	if role != "" {
		data.Role = &role
	}

	if data.Username == nil && data.Password == nil && data.Role == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return errNoChanges
	}

	if _, err := a.users.Update(ctx, id, data); err != nil {
		fmt.Fprintln(a.out, "Error:", a.users.Error())
		return err
	}
	fmt.Fprintln(a.out, "User updated.")
	return nil
}

func (a *App) deleteUser(ctx context.Context, id string) error {
	if self, ok := a.session.CurrentUserID(); ok && self == id {
		fmt.Fprintln(a.out, "You cannot delete yourself.")
		return errNotAllowed
	}
	if !a.confirm(fmt.Sprintf("Delete user %s?", id)) {
		return errCancelled
	}

	if err := a.users.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Error:", a.users.Error())
		return err
	}
	fmt.Fprintln(a.out, "User deleted.")
	return nil
}
