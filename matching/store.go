package matching

import (
	"sync"

	"github.com/albertle/networkx/models"
)

// Store is the in-process profile store. It is the read path for all
// match queries; durable persistence is layered on top by the caller.
// All returned users are deep copies, so holders of a snapshot never
// observe later mutations.
type Store struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// NewStore creates an empty profile store.
func NewStore() *Store {
	return &Store{users: make(map[string]*models.User)}
}

// Get returns a copy of the user, or ErrNotFound.
func (s *Store) Get(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

// Create registers a new user. The username and role are immutable
// from this point on. Fails with ErrConflict when the username is taken.
func (s *Store) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return ErrConflict
	}
	s.users[user.Username] = user.Clone()
	return nil
}

// Replace swaps the stored state of an existing user. Fails with
// ErrNotFound when absent. Callers hold the user's mutation scope.
func (s *Store) Replace(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; !exists {
		return ErrNotFound
	}
	s.users[user.Username] = user.Clone()
	return nil
}

// AllByRole returns copies of every user of the given role, excluding
// the requester. Used for full scans when the subject has no tags.
func (s *Store) AllByRole(role models.Role, exclude string) []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, 0, len(s.users))
	for name, u := range s.users {
		if name == exclude || u.Role != role {
			continue
		}
		out = append(out, u.Clone())
	}
	return out
}

// Len returns the number of registered users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
