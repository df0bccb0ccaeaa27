// Package service owns the contact store lifecycle and exposes it to the
// HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/contacts/internal/adapters/repository"
	"github.com/okian/contacts/internal/domain/model"
	"github.com/okian/contacts/pkg/logger"
	"github.com/okian/contacts/pkg/metrics"
)

// Service implements repository.Store on top of a store it creates on Start
// and closes on Stop. While stopped every call fails with
// repository.ErrUnavailable.
type Service struct {
	mu sync.RWMutex

	store *repository.InMemoryStore

	// Configuration
	environment     string
	initialCapacity int
	seed            []model.Contact

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

var _ repository.Store = (*Service)(nil)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEnvironment labels the service stats with the deployment environment.
func WithEnvironment(env string) Option {
	return func(s *Service) {
		if env != "" {
			s.environment = env
		}
	}
}

// WithInitialCapacity pre-sizes the store created on Start.
func WithInitialCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.initialCapacity = n
		}
	}
}

// WithSeed preloads contacts into every store created on Start.
func WithSeed(contacts ...model.Contact) Option {
	return func(s *Service) {
		s.seed = append(s.seed, contacts...)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		environment:     "development",
		initialCapacity: 1024,
		logger:          nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start creates a fresh, empty store. Calling Start on a running service is
// a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting contacts service...")

	s.store = repository.NewInMemoryStore(
		repository.WithInitialCapacity(s.initialCapacity),
		repository.WithSeed(s.seed...),
	)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "contacts service started",
		logger.String("environment", s.environment),
		logger.Int("initialCapacity", s.initialCapacity),
		logger.Int("seeded", s.store.Count(ctx)),
	)

	return nil
}

// Stop closes the store. Contacts do not survive a stop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping contacts service...")

	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "contacts service stopped",
		logger.Duration("uptime", time.Since(s.startedAt)),
	)
}

// current returns the live store, or nil while stopped.
func (s *Service) current() *repository.InMemoryStore {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil
	}
	return s.store
}

// Add implements repository.Store.
func (s *Service) Add(ctx context.Context, c model.Contact) error {
	st := s.current()
	if st == nil {
		return repository.ErrUnavailable
	}
	return st.Add(ctx, c)
}

// FindByID implements repository.Store.
func (s *Service) FindByID(ctx context.Context, id string) (model.Contact, error) {
	st := s.current()
	if st == nil {
		return model.Contact{}, repository.ErrUnavailable
	}
	return st.FindByID(ctx, id)
}

// List implements repository.Store.
func (s *Service) List(ctx context.Context) ([]model.Contact, error) {
	st := s.current()
	if st == nil {
		return nil, repository.ErrUnavailable
	}
	return st.List(ctx)
}

// Replace implements repository.Store.
func (s *Service) Replace(ctx context.Context, c model.Contact) error {
	st := s.current()
	if st == nil {
		return repository.ErrUnavailable
	}
	return st.Replace(ctx, c)
}

// Remove implements repository.Store.
func (s *Service) Remove(ctx context.Context, id string) error {
	st := s.current()
	if st == nil {
		return repository.ErrUnavailable
	}
	return st.Remove(ctx, id)
}

// Count implements repository.Store. A stopped service reports zero.
func (s *Service) Count(ctx context.Context) int {
	st := s.current()
	if st == nil {
		return 0
	}
	return st.Count(ctx)
}

// Close implements repository.Store by stopping the service.
func (s *Service) Close() error {
	s.Stop()
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"environment":   s.environment,
		"totalContacts": 0,
	}

	if s.started {
		total := s.store.Count(context.Background())
		stats["totalContacts"] = total
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())

		metrics.UpdateContactsTotal(total)
	}

	return stats
}
