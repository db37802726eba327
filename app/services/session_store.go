package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/albertle/networkx/utils"
	"github.com/redis/go-redis/v9"
)

const sessionOpTimeout = 3 * time.Second

// SessionStore tracks issued sessions and the token revocation list.
// Redis backs both when a cache is configured; otherwise an in-process
// map is used, which is sufficient for a single-node deployment.
type SessionStore struct {
	rc     *redis.Client
	prefix string

	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewSessionStore creates a session store. rc may be nil.
func NewSessionStore(rc *redis.Client, prefix string) *SessionStore {
	if prefix == "" {
		prefix = "networkx"
	}
	return &SessionStore{
		rc:      rc,
		prefix:  prefix,
		revoked: make(map[string]time.Time),
	}
}

func (s *SessionStore) revocationKey(tokenID string) string {
	return fmt.Sprintf("%s:revoked:%s", s.prefix, tokenID)
}

func (s *SessionStore) sessionKey(username string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, username)
}

// RecordSession notes the active access token for a user, expiring
// with the token itself.
func (s *SessionStore) RecordSession(ctx context.Context, username, tokenID string, ttl time.Duration) error {
	if s == nil || s.rc == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, sessionOpTimeout)
	defer cancel()
	return s.rc.Set(ctx, s.sessionKey(username), tokenID, ttl).Err()
}

// Revoke adds a token ID to the revocation list for ttl.
func (s *SessionStore) Revoke(tokenID string, ttl time.Duration) error {
	if s == nil {
		return nil
	}
	if ttl <= 0 {
		return nil // already expired on its own
	}
	if s.rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), sessionOpTimeout)
		defer cancel()
		return s.rc.Set(ctx, s.revocationKey(tokenID), "1", ttl).Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = utils.UTCNowAdd(ttl)
	return nil
}

// IsRevoked reports whether a token ID is on the revocation list.
func (s *SessionStore) IsRevoked(tokenID string) bool {
	if s == nil {
		return false
	}
	if s.rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), sessionOpTimeout)
		defer cancel()
		n, err := s.rc.Exists(ctx, s.revocationKey(tokenID)).Result()
		// Cache trouble must not lock every token holder out.
		return err == nil && n > 0
	}

	s.mu.RLock()
	until, ok := s.revoked[tokenID]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if utils.IsExpired(until) {
		s.mu.Lock()
		delete(s.revoked, tokenID)
		s.mu.Unlock()
		return false
	}
	return true
}
