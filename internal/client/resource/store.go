// Package resource implements a generic, server-synchronized collection.
//
// A Store keeps an ordered list of records of one kind and changes it only
// after the server confirmed the change. Each operation marks the store as
// loading, records a human readable error on failure and never holds its
// lock while the backend call is in flight, so concurrent calls apply their
// results in the order they resolve.
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophboard/internal/client/client"
	"github.com/dmitrijs2005/gophboard/internal/logging"
)

var ErrDuplicateID = errors.New("duplicate id")

// Backend performs the remote calls for one resource kind.
type Backend[T any, ID comparable, C any, U any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, data C) (T, error)
	Update(ctx context.Context, id ID, data U) (T, error)
	Delete(ctx context.Context, id ID) error
}

// Insert is where a newly created record enters the collection.
type Insert int

const (
	Append Insert = iota
	Prepend
)

// Messages are the fallbacks used when the server gives no detail.
type Messages struct {
	Fetch  string
	Create string
	Update string
	Delete string
}

type Config[T any, ID comparable] struct {
	// Name identifies the store in logs.
	Name     string
	Identity func(T) ID
	Insert   Insert
	Messages Messages
}

// Snapshot is a consistent copy of the store state.
type Snapshot[T any] struct {
	Items   []T
	Loading bool
	Error   string
}

type Store[T any, ID comparable, C any, U any] struct {
	backend Backend[T, ID, C, U]
	cfg     Config[T, ID]
	log     logging.Logger

	mu       sync.RWMutex
	items    []T
	inFlight int
	err      string
}

func New[T any, ID comparable, C any, U any](backend Backend[T, ID, C, U], cfg Config[T, ID], log logging.Logger) *Store[T, ID, C, U] {
	if log == nil {
		log = logging.Discard()
	}
	return &Store[T, ID, C, U]{
		backend: backend,
		cfg:     cfg,
		log:     log.With("resource", cfg.Name),
		items:   []T{},
	}
}

func (s *Store[T, ID, C, U]) begin() {
	s.mu.Lock()
	s.inFlight++
	s.err = ""
	s.mu.Unlock()
}

// fail records err under the lock already held by the caller.
func (s *Store[T, ID, C, U]) fail(ctx context.Context, op string, err error, fallback string) {
	s.err = client.Message(err, fallback)
	s.log.Warn(ctx, op+" failed", "error", err)
}

// FetchAll replaces the collection with the server list, in server order.
// Failures are recorded in Error and not returned.
func (s *Store[T, ID, C, U]) FetchAll(ctx context.Context) {
	s.begin()
	items, err := s.backend.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err != nil {
		s.fail(ctx, "fetch", err, s.cfg.Messages.Fetch)
		return
	}
	s.items = s.dedupe(items)
}

// Create sends data to the server and inserts the returned record.
func (s *Store[T, ID, C, U]) Create(ctx context.Context, data C) (T, error) {
	s.begin()
	item, err := s.backend.Create(ctx, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err != nil {
		s.fail(ctx, "create", err, s.cfg.Messages.Create)
		var zero T
		return zero, fmt.Errorf("create %s: %w", s.cfg.Name, err)
	}

	s.items = s.without(s.cfg.Identity(item))
	if s.cfg.Insert == Prepend {
		s.items = append([]T{item}, s.items...)
	} else {
		s.items = append(s.items, item)
	}
	return item, nil
}

// Update sends a partial change and replaces the local record with the
// server's version. A record that is not held locally stays absent.
func (s *Store[T, ID, C, U]) Update(ctx context.Context, id ID, data U) (T, error) {
	s.begin()
	item, err := s.backend.Update(ctx, id, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err != nil {
		s.fail(ctx, "update", err, s.cfg.Messages.Update)
		var zero T
		return zero, fmt.Errorf("update %s: %w", s.cfg.Name, err)
	}

	if i := s.index(id); i >= 0 {
		s.items[i] = item
	} else {
		s.log.Debug(ctx, "updated record not held locally", "id", id)
	}
	return item, nil
}

// Delete removes the record on the server and then locally.
func (s *Store[T, ID, C, U]) Delete(ctx context.Context, id ID) error {
	s.begin()
	err := s.backend.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err != nil {
		s.fail(ctx, "delete", err, s.cfg.Messages.Delete)
		return fmt.Errorf("delete %s: %w", s.cfg.Name, err)
	}
	s.items = s.without(id)
	return nil
}

// SetItems replaces the collection directly. It is meant for seeding and
// rejects lists that repeat an id.
func (s *Store[T, ID, C, U]) SetItems(items []T) error {
	seen := make(map[ID]struct{}, len(items))
	for _, it := range items {
		id := s.cfg.Identity(it)
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%s %v: %w", s.cfg.Name, id, ErrDuplicateID)
		}
		seen[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T{}, items...)
	return nil
}

// Items returns a copy of the collection.
func (s *Store[T, ID, C, U]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T{}, s.items...)
}

// Get returns the locally held record with the given id.
func (s *Store[T, ID, C, U]) Get(id ID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

func (s *Store[T, ID, C, U]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T, ID, C, U]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

func (s *Store[T, ID, C, U]) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store[T, ID, C, U]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot[T]{
		Items:   append([]T{}, s.items...),
		Loading: s.inFlight > 0,
		Error:   s.err,
	}
}

func (s *Store[T, ID, C, U]) index(id ID) int {
	for i, it := range s.items {
		if s.cfg.Identity(it) == id {
			return i
		}
	}
	return -1
}

// without returns the records whose id differs from id.
func (s *Store[T, ID, C, U]) without(id ID) []T {
	out := make([]T, 0, len(s.items))
	for _, it := range s.items {
		if s.cfg.Identity(it) != id {
			out = append(out, it)
		}
	}
	return out
}

// dedupe keeps the first record of each id.
func (s *Store[T, ID, C, U]) dedupe(items []T) []T {
	seen := make(map[ID]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		id := s.cfg.Identity(it)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, it)
	}
	return out
}
