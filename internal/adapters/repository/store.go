// Package repository defines the contact store interface and errors.
package repository

import (
	"context"

	"github.com/okian/contacts/internal/domain/model"
)

// Contact is the record kept by a Store.
type Contact = model.Contact

// Store provides read/write access to contacts. Implementations must be
// safe for concurrent use; writes to the same id are last-write-wins.
type Store interface {
	// Add inserts a new contact.
	// Returns ErrAlreadyExists if the id is taken.
	Add(ctx context.Context, c Contact) error

	// FindByID returns a copy of the contact with the given id.
	// Returns ErrNotFound if the id is unknown.
	FindByID(ctx context.Context, id string) (Contact, error)

	// List returns every contact. The order is unspecified.
	List(ctx context.Context) ([]Contact, error)

	// Replace atomically overwrites the stored contact that has c.ID.
	// Returns ErrNotFound if the id is unknown.
	Replace(ctx context.Context, c Contact) error

	// Remove atomically deletes the contact with the given id.
	// Returns ErrNotFound if the id is unknown.
	Remove(ctx context.Context, id string) error

	// Count returns the number of stored contacts.
	Count(ctx context.Context) int

	// Close releases the store. Every later call fails with ErrUnavailable.
	Close() error
}
