// Package session owns the client's authentication state: the access token,
// the profile of the logged-in user and the progress of the last login.
//
// The Store is the only writer of the token and user storage keys once it
// exists. It satisfies client.TokenSource and client.Invalidator so the
// transport can read the token and report authentication failures back.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophboard/internal/client/client"
	"github.com/dmitrijs2005/gophboard/internal/client/models"
	"github.com/dmitrijs2005/gophboard/internal/client/storage"
	"github.com/dmitrijs2005/gophboard/internal/logging"
)

const loginFallback = "login failed"

// AuthAPI is the part of the Board API the session needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (models.Token, error)
	Me(ctx context.Context) (models.UserProfile, error)
}

type State string

const (
	Anonymous      State = "anonymous"
	Authenticating State = "authenticating"
	Authenticated  State = "authenticated"
)

// Snapshot is a consistent copy of the session for rendering.
type Snapshot struct {
	State         State
	Authenticated bool
	Admin         bool
	Profile       *models.UserProfile
	Loading       bool
	Error         string
}

type Store struct {
	storage storage.Storage
	api     AuthAPI
	log     logging.Logger

	mu       sync.RWMutex
	token    string
	profile  *models.UserProfile
	inFlight int
	logins   int
	err      string
}

var (
	_ client.TokenSource = (*Store)(nil)
	_ client.Invalidator = (*Store)(nil)
)

// New restores the session from st. A stored profile that cannot be decoded,
// or that has no token next to it, is dropped from storage.
func New(ctx context.Context, st storage.Storage, api AuthAPI, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Discard()
	}
	s := &Store{storage: st, api: api, log: log}

	tok, hasTok, err := st.Get(ctx, storage.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	raw, hasUser, err := st.Get(ctx, storage.KeyUser)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	if hasTok && tok != "" {
		s.token = tok
	}

	if !hasUser {
		return s, nil
	}

	var p models.UserProfile
	switch {
	case s.token == "":
		log.Warn(ctx, "dropping stored profile without token")
	case json.Unmarshal([]byte(raw), &p) != nil:
		log.Warn(ctx, "dropping malformed stored profile")
	default:
		s.profile = &p
		return s, nil
	}

	if err := st.Remove(ctx, storage.KeyUser); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return s, nil
}

// Login exchanges credentials for a token and then fetches the profile.
// It reports whether the credentials were accepted; the failure message is
// available through Error. A failed profile fetch still counts as success.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	s.mu.Lock()
	s.inFlight++
	s.logins++
	s.err = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.logins--
		s.mu.Unlock()
	}()

	tok, err := s.api.Login(ctx, username, password)
	if err == nil && tok.AccessToken == "" {
		err = errors.New("empty access token")
	}
	if err != nil {
		s.log.Warn(ctx, "login failed", "username", username, "error", err)
		s.mu.Lock()
		s.err = client.Message(err, loginFallback)
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	s.token = tok.AccessToken
	s.profile = nil
	if err := s.storage.Set(ctx, storage.KeyToken, tok.AccessToken); err != nil {
		s.log.Error(ctx, "failed to persist token", "error", err)
	}
	if err := s.storage.Remove(ctx, storage.KeyUser); err != nil {
		s.log.Error(ctx, "failed to clear stored profile", "error", err)
	}
	s.mu.Unlock()

	s.log.Info(ctx, "logged in", "username", username)

	// profile failure is logged inside FetchUser and does not undo the login
	_ = s.FetchUser(ctx)
	return true
}

// FetchUser loads the profile for the current token. Without a token it
// does nothing. The result is discarded if the token changed meanwhile.
func (s *Store) FetchUser(ctx context.Context) error {
	s.mu.Lock()
	tok := s.token
	if tok == "" {
		s.mu.Unlock()
		return nil
	}
	s.inFlight++
	s.mu.Unlock()

	p, err := s.api.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err != nil {
		s.log.Error(ctx, "failed to fetch user profile", "error", err)
		return fmt.Errorf("fetch profile: %w", err)
	}
	if s.token != tok {
		s.log.Debug(ctx, "discarding profile for a replaced token")
		return nil
	}

	s.profile = &p
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyUser, string(b)); err != nil {
		s.log.Error(ctx, "failed to persist profile", "error", err)
	}
	return nil
}

// Logout clears the token and the profile from memory and storage.
// Calling it without a session is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	if err := s.storage.Remove(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Invalidate tears the session down after the server rejected the token.
func (s *Store) Invalidate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" || s.profile != nil {
		s.log.Warn(ctx, "session invalidated by server")
	}
	s.clear()
	if err := s.storage.Remove(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		s.log.Error(ctx, "failed to clear stored session", "error", err)
	}
}

func (s *Store) clear() {
	s.token = ""
	s.profile = nil
}

// Token returns the bearer credential for outgoing requests.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil && s.profile.Role == models.RoleAdmin
}

func (s *Store) CurrentUserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return "", false
	}
	return s.profile.ID, true
}

func (s *Store) Profile() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return models.UserProfile{}, false
	}
	return *s.profile, true
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// Error is the message of the last failed login, or "".
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state()
}

func (s *Store) state() State {
	switch {
	case s.logins > 0:
		return Authenticating
	case s.token != "":
		return Authenticated
	default:
		return Anonymous
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		State:         s.state(),
		Authenticated: s.token != "",
		Admin:         s.profile != nil && s.profile.Role == models.RoleAdmin,
		Loading:       s.inFlight > 0,
		Error:         s.err,
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}
