package matching

import "sync"

// Coordinator serializes profile mutations against concurrent match
// queries. It combines two guarantees:
//
//   - Per-username exclusive scopes: at most one mutation per username
//     is in flight; mutations to different usernames run concurrently.
//   - A snapshot gate: the combined (store, index) update for a
//     mutation is applied under the write side of a RWMutex, so a
//     query holding the read side observes either the full pre- or
//     full post-mutation state, never an interleaving.
//
// Scopes are released on every exit path, including panics inside the
// supplied function.
type Coordinator struct {
	gate sync.RWMutex

	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewCoordinator creates a coordinator with no scopes held.
func NewCoordinator() *Coordinator {
	return &Coordinator{locks: make(map[string]*userLock)}
}

// WithUser runs fn while holding the exclusive mutation scope for
// username. A second concurrent call for the same username blocks
// until the first completes.
func (c *Coordinator) WithUser(username string, fn func() error) error {
	l := c.acquire(username)
	l.mu.Lock()
	defer func() {
		l.mu.Unlock()
		c.release(username)
	}()
	return fn()
}

// Commit applies a combined store+index change atomically with respect
// to snapshot readers. Callers already hold the owning user's scope.
func (c *Coordinator) Commit(fn func() error) error {
	c.gate.Lock()
	defer c.gate.Unlock()
	return fn()
}

// Snapshot runs fn under the read side of the gate. fn should only
// gather copies of state; scoring and ranking happen after release so
// readers do not serialize against each other or delay writers.
func (c *Coordinator) Snapshot(fn func() error) error {
	c.gate.RLock()
	defer c.gate.RUnlock()
	return fn()
}

func (c *Coordinator) acquire(username string) *userLock {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[username]
	if !ok {
		l = &userLock{}
		c.locks[username] = l
	}
	l.refs++
	return l
}

func (c *Coordinator) release(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[username]
	if !ok {
		return
	}
	l.refs--
	if l.refs <= 0 {
		delete(c.locks, username)
	}
}
