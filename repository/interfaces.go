// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/albertle/networkx/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// UserRepository defines durable storage for user profiles. The
// in-process matching core is the read path; this repository is the
// system of record written through on every mutation and replayed at
// startup.
type UserRepository interface {
	// ByUsername returns the stored user, or nil when absent.
	ByUsername(ctx context.Context, username string) (*models.User, error)
	// Save inserts a new user; a duplicate username fails with matching.ErrConflict.
	Save(ctx context.Context, user *models.User) error
	// Update replaces the stored state of an existing user.
	Update(ctx context.Context, user *models.User) error
	// ListAll returns every registered user, for warming the in-process store.
	ListAll(ctx context.Context) ([]*models.User, error)
	// Count returns the number of registered users.
	Count(ctx context.Context) (int64, error)
}
