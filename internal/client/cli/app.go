package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophboard/internal/client/client"
	"github.com/dmitrijs2005/gophboard/internal/client/config"
	"github.com/dmitrijs2005/gophboard/internal/client/router"
	"github.com/dmitrijs2005/gophboard/internal/client/services"
	"github.com/dmitrijs2005/gophboard/internal/client/session"
	"github.com/dmitrijs2005/gophboard/internal/client/storage"
	"github.com/dmitrijs2005/gophboard/internal/filex"
	"github.com/dmitrijs2005/gophboard/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	api     client.Client
	session *session.Store
	posts   *services.PostStore
	users   *services.UserStore
	router  *router.Router

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.RWMutex
	mode   Mode
}

// NewApp opens the session database and wires the stores to the API.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(c.StoragePath); err != nil {
		log.Error(ctx, "error preparing storage directory", "path", c.StoragePath, "error", err)
		return nil, err
	}

	db, err := storage.Open(ctx, c.StoragePath)
	if err != nil {
		log.Error(ctx, "error initializing session database", "path", c.StoragePath, "error", err)
		return nil, err
	}

	a, err := assemble(ctx, c, storage.NewSQLiteStorage(db), log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

// assemble builds the App over st. Extra client options let tests point the
// transport at a fake server.
func assemble(ctx context.Context, c *config.Config, st storage.Storage, log logging.Logger, opts ...client.Option) (*App, error) {
	opts = append([]client.Option{
		client.WithLogger(log.With("component", "transport")),
		client.WithTokenSource(client.StorageTokens{Storage: st}),
	}, opts...)

	api, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, opts...)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(ctx, st, api, log.With("component", "session"))
	if err != nil {
		return nil, err
	}
	api.SetTokenSource(sess)
	api.Subscribe(sess)

	r, err := router.New(router.DefaultRoutes, sess, log.With("component", "router"))
	if err != nil {
		return nil, err
	}

	return &App{
		config:  c,
		log:     log,
		api:     api,
		session: sess,
		posts:   services.NewPostStore(api, c.PostsLimit, log),
		users:   services.NewUserStore(api, log),
		router:  r,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run enters the start view and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if _, err := a.router.PushPath(ctx, "/"); err != nil {
		return fmt.Errorf("enter start view: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.checkOnline(watchCtx)
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	fmt.Fprintln(a.out, "Welcome to the board CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	return nil
}

func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "failed to close session database", "error", err)
		}
		a.db = nil
	}
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the API every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) isLoggedIn() bool { return a.session.IsAuthenticated() }

func (a *App) getStatus() string {
	s := ""
	if p, ok := a.session.Profile(); ok {
		s = p.Username + " "
	} else if a.session.IsAuthenticated() {
		s = "? "
	}
	s += string(a.router.Current().Name)
	if m := a.Mode(); m != "" {
		s += " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

// refreshView re-runs the guard on the current view and tells the user when
// it moved them.
func (a *App) refreshView(ctx context.Context) {
	rt, changed, err := a.router.Refresh(ctx)
	if err != nil {
		a.log.Warn(ctx, "view refresh failed", "error", err)
		return
	}
	if changed && rt.Name == router.Login {
		fmt.Fprintln(a.out, "Your session has ended, please log in again.")
	}
}
