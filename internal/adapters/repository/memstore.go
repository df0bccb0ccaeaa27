package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/contacts/pkg/metrics"
)

// InMemoryStore is a process-local Store: a map from id to contact guarded by
// a single RWMutex. Nothing survives a restart.
type InMemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]Contact
	closed bool

	initialCapacity int
	seed            []Contact
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty store with configuration options.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{}

	for _, opt := range opts {
		opt(s)
	}

	s.byID = make(map[string]Contact, s.initialCapacity)
	for _, c := range s.seed {
		if c.ID == "" {
			continue
		}
		if _, exists := s.byID[c.ID]; exists {
			continue
		}
		s.byID[c.ID] = c
	}
	s.seed = nil

	metrics.UpdateContactsTotal(len(s.byID))
	return s
}

// Add implements Store.Add.
func (s *InMemoryStore) Add(_ context.Context, c Contact) (err error) {
	defer observeUpdate("add", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrUnavailable
	}
	if _, exists := s.byID[c.ID]; exists {
		return ErrAlreadyExists
	}
	s.byID[c.ID] = c
	metrics.UpdateContactsTotal(len(s.byID))
	return nil
}

// FindByID implements Store.FindByID.
func (s *InMemoryStore) FindByID(_ context.Context, id string) (_ Contact, err error) {
	defer observeQuery("find", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Contact{}, ErrUnavailable
	}
	c, ok := s.byID[id]
	if !ok {
		return Contact{}, ErrNotFound
	}
	return c, nil
}

// List implements Store.List. The returned slice is never nil.
func (s *InMemoryStore) List(_ context.Context) (_ []Contact, err error) {
	defer observeQuery("list", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrUnavailable
	}
	out := make([]Contact, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	return out, nil
}

// Replace implements Store.Replace.
func (s *InMemoryStore) Replace(_ context.Context, c Contact) (err error) {
	defer observeUpdate("replace", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrUnavailable
	}
	if _, exists := s.byID[c.ID]; !exists {
		return ErrNotFound
	}
	s.byID[c.ID] = c
	return nil
}

// Remove implements Store.Remove.
func (s *InMemoryStore) Remove(_ context.Context, id string) (err error) {
	defer observeUpdate("remove", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrUnavailable
	}
	if _, exists := s.byID[id]; !exists {
		return ErrNotFound
	}
	delete(s.byID, id)
	metrics.UpdateContactsTotal(len(s.byID))
	return nil
}

// Count implements Store.Count. A closed store reports zero.
func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close implements Store.Close. It is idempotent and drops all contacts.
func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.byID = map[string]Contact{}
	metrics.UpdateContactsTotal(0)
	return nil
}

func observeQuery(op string, start time.Time, err *error) {
	metrics.RecordRepositoryQueryLatency(msSince(start))
	if *err != nil {
		metrics.RecordRepositoryError(op, errorKind(*err))
	}
}

func observeUpdate(op string, start time.Time, err *error) {
	metrics.RecordRepositoryUpdateLatency(msSince(start))
	if *err != nil {
		metrics.RecordRepositoryError(op, errorKind(*err))
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
