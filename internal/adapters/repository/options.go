package repository

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithInitialCapacity pre-sizes the backing map.
func WithInitialCapacity(n int) Option {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.initialCapacity = n
		}
	}
}

// WithSeed preloads contacts, e.g. fixtures for local development.
// Seeds with an empty or duplicate id are skipped.
func WithSeed(contacts ...Contact) Option {
	return func(s *InMemoryStore) {
		s.seed = append(s.seed, contacts...)
	}
}
