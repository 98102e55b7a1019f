package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophboard/internal/boardtest"
	"github.com/dmitrijs2005/gophboard/internal/client/client"
	"github.com/dmitrijs2005/gophboard/internal/client/config"
	"github.com/dmitrijs2005/gophboard/internal/client/models"
	"github.com/dmitrijs2005/gophboard/internal/client/router"
	"github.com/dmitrijs2005/gophboard/internal/client/storage"
	"github.com/dmitrijs2005/gophboard/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

// scriptedInput replaces the input seams with queues of answers.
type scriptedInput struct {
	text      []string
	passwords []string
}

func stubInputs(t *testing.T, in *scriptedInput) {
	t.Helper()
	origST, origGP, origML := getSimpleText, getPassword, getMultiline

	next := func(q *[]string) (string, error) {
		if len(*q) == 0 {
			return "", io.EOF
		}
		v := (*q)[0]
		*q = (*q)[1:]
		return v, nil
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next(&in.text) }
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next(&in.text) }
	getPassword = func(_ io.Writer) (string, error) { return next(&in.passwords) }

	t.Cleanup(func() {
		getSimpleText, getPassword, getMultiline = origST, origGP, origML
	})
}

func testConfig(url string) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.APIBaseURL = url
	c.RequestTimeout = 5 * time.Second
	c.OnlineCheckInterval = time.Hour
	return c
}

func newTestApp(t *testing.T, srv *boardtest.Server, st storage.Storage) (*App, *bytes.Buffer) {
	t.Helper()
	a, err := assemble(context.Background(), testConfig(srv.URL), st, logging.Discard(),
		client.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	var out bytes.Buffer
	a.out = &out
	_, err = a.router.PushPath(context.Background(), "/")
	require.NoError(t, err)
	return a, &out
}

func newServer(t *testing.T) *boardtest.Server {
	t.Helper()
	srv := boardtest.New()
	t.Cleanup(srv.Close)
	return srv
}

// ---- tests ----

func TestApp_StartsOnLoginView(t *testing.T) {
	srv := newServer(t)
	a, _ := newTestApp(t, srv, storage.NewMemoryStorage())

	require.Equal(t, router.Login, a.router.Current().Name)
	require.Equal(t, "(login)", a.getStatus())
}

func TestApp_RestoredSessionStartsOnBoard(t *testing.T) {
	srv := newServer(t)
	u := srv.AddUser("alice", "secret1", models.RoleUser)
	ctx := context.Background()

	st := storage.NewMemoryStorage()
	require.NoError(t, st.Set(ctx, storage.KeyToken, srv.TokenFor(u)))

	a, _ := newTestApp(t, srv, st)
	require.Equal(t, router.Board, a.router.Current().Name)
	require.Equal(t, "(? board)", a.getStatus())
}

func TestApp_LoginListAndLogout(t *testing.T) {
	srv := newServer(t)
	admin := srv.AddUser("admin", "secret", models.RoleAdmin)
	srv.AddPost(admin, "Hello", "World")
	a, out := newTestApp(t, srv, storage.NewMemoryStorage())
	ctx := context.Background()

	stubInputs(t, &scriptedInput{text: []string{"admin"}, passwords: []string{"secret"}})
	require.NoError(t, a.Login(ctx))

	require.True(t, a.isLoggedIn())
	require.Equal(t, router.Board, a.router.Current().Name)
	require.Contains(t, out.String(), "Welcome, admin!")
	require.Contains(t, out.String(), "Hello | by admin")
	require.Equal(t, "(admin board)", a.getStatus())

	require.NoError(t, a.Logout(ctx))
	require.False(t, a.isLoggedIn())
	require.Equal(t, router.Login, a.router.Current().Name)
}

func TestApp_LoginFailureShowsDetail(t *testing.T) {
	srv := newServer(t)
	srv.AddUser("admin", "secret", models.RoleAdmin)
	a, out := newTestApp(t, srv, storage.NewMemoryStorage())

	stubInputs(t, &scriptedInput{text: []string{"admin"}, passwords: []string{"nope"}})
	require.ErrorIs(t, a.Login(context.Background()), errLoginFailed)

	require.Contains(t, out.String(), "Login failed: Incorrect username or password")
	require.Equal(t, router.Login, a.router.Current().Name)
}

func TestApp_PostLifecycle(t *testing.T) {
	srv := newServer(t)
	alice := srv.AddUser("alice", "secret1", models.RoleUser)
	srv.AddPost(alice, "Existing", "m")
	a, out := newTestApp(t, srv, storage.NewMemoryStorage())
	ctx := context.Background()

	stubInputs(t, &scriptedInput{
		text: []string{
			"alice",
			"X", "Y", // add
			"X2", "", // edit title only
			"y", // confirm delete
		},
		passwords: []string{"secret1"},
	})
	require.NoError(t, a.Login(ctx))
	require.Equal(t, 1, a.posts.Len())

	require.NoError(t, a.Add(ctx))
	items := a.posts.Items()
	require.Len(t, items, 2)
	require.Equal(t, "X", items[0].Title)
	id := items[0].ID

	require.NoError(t, a.Edit(ctx, id))
	p, ok := a.posts.Get(id)
	require.True(t, ok)
	require.Equal(t, "X2", p.Title)
	require.Equal(t, "Y", p.Message)

	out.Reset()
	require.NoError(t, a.Show(ctx, id))
	require.Contains(t, out.String(), "Title:   X2")

	require.NoError(t, a.Delete(ctx, id))
	_, ok = a.posts.Get(id)
	require.False(t, ok)
	require.Len(t, srv.Posts(), 1)
}

func TestApp_CannotEditForeignPost(t *testing.T) {
	srv := newServer(t)
	alice := srv.AddUser("alice", "secret1", models.RoleUser)
	srv.AddUser("bob", "secret2", models.RoleUser)
	p := srv.AddPost(alice, "Mine", "m")
	a, out := newTestApp(t, srv, storage.NewMemoryStorage())
	ctx := context.Background()

	stubInputs(t, &scriptedInput{text: []string{"bob"}, passwords: []string{"secret2"}})
	require.NoError(t, a.Login(ctx))

	require.ErrorIs(t, a.Edit(ctx, p.ID), errNotAllowed)
	require.ErrorIs(t, a.Delete(ctx, p.ID), errNotAllowed)
	require.Contains(t, out.String(), "You can only edit your own posts.")
}

func TestApp_UsersViewRequiresAdmin(t *testing.T) {
	srv := newServer(t)
	srv.AddUser("alice", "secret1", models.RoleUser)
	a, out := newTestApp(t, srv, storage.NewMemoryStorage())
	ctx := context.Background()

	require.Error(t, a.List(ctx))

	stubInputs(t, &scriptedInput{text: []string{"alice"}, passwords: []string{"secret1"}})
	require.NoError(t, a.Login(ctx))

	require.NoError(t, a.Open(ctx, "users"))
	require.Equal(t, router.Board, a.router.Current().Name)
	require.Contains(t, out.String(), "Cannot open users, showing board instead.")
}

func TestApp_AdminManagesUsers(t *testing.T) {
	srv := newServer(t)
	srv.AddUser("admin", "secret", models.RoleAdmin)
	a, out := newTestApp(t, srv, storage.NewMemoryStorage())
	ctx := context.Background()

	stubInputs(t, &scriptedInput{
		text: []string{
			"admin",
			"bob", "",  // add: username, role
			"", "admin", // edit: username, role
			"y", // confirm delete
		},
		passwords: []string{"secret", "hunter22", ""},
	})
	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Open(ctx, "users"))
	require.Equal(t, router.Users, a.router.Current().Name)
	require.Equal(t, 1, a.users.Len())

	require.NoError(t, a.Add(ctx))
	items := a.users.Items()
	require.Len(t, items, 2)
	bob := items[1]
	require.Equal(t, "bob", bob.Username)
	require.Equal(t, models.RoleUser, bob.Role)

	require.NoError(t, a.Edit(ctx, bob.ID))
	got, ok := a.users.Get(bob.ID)
	require.True(t, ok)
	require.Equal(t, models.RoleAdmin, got.Role)

	require.NoError(t, a.Delete(ctx, bob.ID))
	require.Equal(t, 1, a.users.Len())
	require.Contains(t, out.String(), "User deleted.")
}

func TestApp_DeleteCancelled(t *testing.T) {
	srv := newServer(t)
	alice := srv.AddUser("alice", "secret1", models.RoleUser)
	p := srv.AddPost(alice, "Keep", "m")
	a, _ := newTestApp(t, srv, storage.NewMemoryStorage())
	ctx := context.Background()

	stubInputs(t, &scriptedInput{text: []string{"alice", "n"}, passwords: []string{"secret1"}})
	require.NoError(t, a.Login(ctx))

	require.ErrorIs(t, a.Delete(ctx, p.ID), errCancelled)
	require.Equal(t, 1, a.posts.Len())
}

func TestApp_TeardownSendsUserToLogin(t *testing.T) {
	srv := newServer(t)
	srv.AddUser("alice", "secret1", models.RoleUser)
	st := storage.NewMemoryStorage()
	a, out := newTestApp(t, srv, st)
	ctx := context.Background()

	stubInputs(t, &scriptedInput{text: []string{"alice"}, passwords: []string{"secret1"}})
	require.NoError(t, a.Login(ctx))

	srv.RotateSecret()
	require.NoError(t, a.List(ctx))
	require.False(t, a.isLoggedIn())

	a.refreshView(ctx)
	require.Equal(t, router.Login, a.router.Current().Name)
	require.Contains(t, out.String(), "Your session has ended, please log in again.")

	_, hasTok, err := st.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	require.False(t, hasTok)
}

func TestApp_WhoAmI(t *testing.T) {
	srv := newServer(t)
	u := srv.AddUser("alice", "secret1", models.RoleUser)
	ctx := context.Background()

	st := storage.NewMemoryStorage()
	a, out := newTestApp(t, srv, st)
	require.ErrorIs(t, a.WhoAmI(ctx), errNotLoggedIn)

	require.NoError(t, st.Set(ctx, storage.KeyToken, srv.TokenFor(u)))
	a, out = newTestApp(t, srv, st)
	require.NoError(t, a.WhoAmI(ctx))
	require.Contains(t, out.String(), "alice (user) id="+u.ID)
}

func TestApp_OnlineStatus(t *testing.T) {
	srv := newServer(t)
	a, _ := newTestApp(t, srv, storage.NewMemoryStorage())
	ctx := context.Background()

	a.checkOnline(ctx)
	require.Equal(t, ModeOnline, a.Mode())

	srv.Close()
	a.checkOnline(ctx)
	require.Equal(t, ModeOffline, a.Mode())
}

func TestApp_Run(t *testing.T) {
	capturePrintln(t)
	srv := newServer(t)
	srv.AddUser("alice", "secret1", models.RoleUser)
	a, out := newTestApp(t, srv, storage.NewMemoryStorage())

	stubInputs(t, &scriptedInput{text: []string{"alice"}, passwords: []string{"secret1"}})
	a.reader = bufio.NewReader(strings.NewReader("login\nlist\nlogout\nexit\n"))

	require.NoError(t, a.Run(context.Background()))
	require.Contains(t, out.String(), "Welcome, alice!")
	require.Contains(t, out.String(), "Logged out.")
	require.Equal(t, router.Login, a.router.Current().Name)
}

func TestNewApp_OpensNestedStorage(t *testing.T) {
	srv := newServer(t)
	cfg := testConfig(srv.URL)
	cfg.StoragePath = filepath.Join(t.TempDir(), "state", "session.db")

	a, err := NewApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	a.Close()

	_, err = os.Stat(cfg.StoragePath)
	require.NoError(t, err)
}
