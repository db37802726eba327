package matching

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithUserSerializesSameUsername(t *testing.T) {
	coord := NewCoordinator()

	var mu sync.Mutex
	var events []string
	record := func(s string) {
		mu.Lock()
		events = append(events, s)
		mu.Unlock()
	}

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = coord.WithUser("alice", func() error {
			record("first-start")
			close(started)
			<-release
			record("first-end")
			return nil
		})
	}()

	<-started
	go func() {
		_ = coord.WithUser("alice", func() error {
			record("second")
			return nil
		})
		close(done)
	}()

	// The second scope must not run until the first releases.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.NotContains(t, events, "second")
	mu.Unlock()

	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first-start", "first-end", "second"}, events)
}

func TestWithUserDifferentUsernamesRunConcurrently(t *testing.T) {
	coord := NewCoordinator()

	aliceHeld := make(chan struct{})
	proceed := make(chan struct{})
	bobRan := make(chan struct{})

	go func() {
		_ = coord.WithUser("alice", func() error {
			close(aliceHeld)
			<-proceed
			return nil
		})
	}()

	<-aliceHeld
	go func() {
		_ = coord.WithUser("bob", func() error {
			close(bobRan)
			return nil
		})
	}()

	select {
	case <-bobRan:
	case <-time.After(time.Second):
		t.Fatal("mutation for a different username blocked")
	}
	close(proceed)
}

func TestWithUserReleasesOnError(t *testing.T) {
	coord := NewCoordinator()
	boom := errors.New("boom")

	err := coord.WithUser("alice", func() error { return boom })
	require.ErrorIs(t, err, boom)

	// Scope must be free again.
	err = coord.WithUser("alice", func() error { return nil })
	assert.NoError(t, err)
}

func TestWithUserReleasesOnPanic(t *testing.T) {
	coord := NewCoordinator()

	assert.Panics(t, func() {
		_ = coord.WithUser("alice", func() error { panic("boom") })
	})

	done := make(chan struct{})
	go func() {
		_ = coord.WithUser("alice", func() error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scope was not released after panic")
	}
}

func TestLockTableDoesNotLeak(t *testing.T) {
	coord := NewCoordinator()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, coord.WithUser(name, func() error { return nil }))
	}

	coord.mu.Lock()
	defer coord.mu.Unlock()
	assert.Empty(t, coord.locks)
}

func TestSnapshotDoesNotBlockSnapshot(t *testing.T) {
	coord := NewCoordinator()

	firstIn := make(chan struct{})
	release := make(chan struct{})
	secondDone := make(chan struct{})

	go func() {
		_ = coord.Snapshot(func() error {
			close(firstIn)
			<-release
			return nil
		})
	}()

	<-firstIn
	go func() {
		_ = coord.Snapshot(func() error { return nil })
		close(secondDone)
	}()

	select {
	case <-secondDone:
	case <-time.After(time.Second):
		t.Fatal("concurrent snapshots serialized")
	}
	close(release)
}
