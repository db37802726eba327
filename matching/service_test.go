package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/albertle/networkx/models"
	"github.com/albertle/networkx/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(DefaultConfig())
	require.NoError(t, err)
	return svc
}

func TestServiceRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScaleFitWeight = 0.9

	_, err := NewService(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRegisterAndFindMatches(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", []string{"gaming"}, "technology", 500000), nil))
	require.NoError(t, svc.Register(ctx, sponsorUser("acme", []string{"gaming"}, "technology", nil), nil))

	matches, err := svc.FindMatches(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "acme", matches[0].Username)
	assert.Equal(t, models.RoleSponsor, matches[0].Role)
	assert.InDelta(t, 0.70, matches[0].Score, 1e-12)
	require.NotNil(t, matches[0].CompanyName)
	assert.Equal(t, "Acme", *matches[0].CompanyName)
}

func TestRegisterConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", nil, "", 0), nil))
	err := svc.Register(ctx, creatorUser("alice", nil, "", 0), nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestFindMatchesUnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.FindMatches(context.Background(), "nobody", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindMatchesNoCandidatesIsEmptyNotError(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", []string{"gaming"}, "tech", 0), nil))

	matches, err := svc.FindMatches(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindMatchesDeterministic(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", []string{"gaming", "tech"}, "technology", 100000), nil))
	for i := range 10 {
		name := fmt.Sprintf("sponsor%02d", i)
		budget := utils.ToPtr(float64(500 * (i + 1)))
		require.NoError(t, svc.Register(ctx, sponsorUser(name, []string{"gaming"}, "technology", budget), nil))
	}

	first, err := svc.FindMatches(ctx, "alice", 0)
	require.NoError(t, err)
	for range 5 {
		again, err := svc.FindMatches(ctx, "alice", 0)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTieBreakByUsernameAscending(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", []string{"gaming"}, "technology", 0), nil))
	// Identical sponsors score identically; order must fall back to username.
	for _, name := range []string{"zeta", "delta", "omega", "beta"} {
		require.NoError(t, svc.Register(ctx, sponsorUser(name, []string{"gaming"}, "technology", nil), nil))
	}

	matches, err := svc.FindMatches(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, matches, 4)

	var order []string
	for _, m := range matches {
		order = append(order, m.Username)
	}
	assert.Equal(t, []string{"beta", "delta", "omega", "zeta"}, order)
}

func TestEmptyTagSetScansAllOppositeRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", nil, "technology", 0), nil))
	require.NoError(t, svc.Register(ctx, sponsorUser("acme", []string{"gaming"}, "fashion", nil), nil))
	require.NoError(t, svc.Register(ctx, sponsorUser("globex", nil, "technology", nil), nil))
	require.NoError(t, svc.Register(ctx, creatorUser("bob", []string{"gaming"}, "technology", 0), nil))

	matches, err := svc.FindMatches(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, models.RoleSponsor, m.Role)
	}
}

func TestLimitTruncatesRanking(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", []string{"gaming"}, "technology", 0), nil))
	for i := range 5 {
		name := fmt.Sprintf("sponsor%d", i)
		require.NoError(t, svc.Register(ctx, sponsorUser(name, []string{"gaming"}, "technology", nil), nil))
	}

	matches, err := svc.FindMatches(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestMinScoreThresholdFilters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinScore = 0.5
	svc, err := NewService(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", []string{"gaming"}, "technology", 0), nil))
	require.NoError(t, svc.Register(ctx, sponsorUser("strong", []string{"gaming"}, "technology", nil), nil))
	require.NoError(t, svc.Register(ctx, sponsorUser("weak", []string{"gaming"}, "fashion", nil), nil))

	matches, err := svc.FindMatches(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "strong", matches[0].Username)
}

func TestAddTagIdempotentAndReadYourWrites(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", nil, "tech", 0), nil))

	u, err := svc.AddTag(ctx, "alice", "x", nil)
	require.NoError(t, err)
	again, err := svc.AddTag(ctx, "alice", "x", nil)
	require.NoError(t, err)
	assert.Equal(t, u.Tags, again.Tags)

	got, err := svc.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestRemoveTagUpdatesIndex(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", []string{"gaming"}, "tech", 0), nil))
	require.NoError(t, svc.Register(ctx, sponsorUser("acme", []string{"gaming"}, "tech", nil), nil))

	_, err := svc.RemoveTag(ctx, "acme", "gaming", nil)
	require.NoError(t, err)

	matches, err := svc.FindMatches(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSetTagsReconciles(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", []string{"gaming", "tech"}, "tech", 0), nil))

	u, err := svc.SetTags(ctx, "alice", []string{"tech", "fashion"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"tech", "fashion"}, u.Tags)

	require.NoError(t, svc.Register(ctx, sponsorUser("acme", []string{"gaming"}, "other", nil), nil))
	matches, err := svc.FindMatches(ctx, "acme", 0)
	require.NoError(t, err)
	// alice dropped "gaming", so the index must no longer surface her for it,
	// but she is still discoverable through "tech" and "fashion".
	assert.Empty(t, matches)
}

func TestUpdatePreservesIdentityAndRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", nil, "tech", 100), nil))

	updated, err := svc.Update(ctx, "alice", func(u *models.User) error {
		u.Username = "eve"
		u.Role = models.RoleSponsor
		u.Sponsor = &models.SponsorProfile{CompanyName: "Evil Corp"}
		u.Industry = "fashion"
		return nil
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, models.RoleCreator, updated.Role)
	assert.Nil(t, updated.Sponsor)
	assert.Equal(t, "fashion", updated.Industry)
}

func TestPersistFailureLeavesStateUntouched(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	boom := errors.New("db down")

	failing := func(context.Context, *models.User) error { return boom }

	err := svc.Register(ctx, creatorUser("alice", []string{"gaming"}, "tech", 0), failing)
	assert.ErrorIs(t, err, boom)
	_, err = svc.Get("alice")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Register(ctx, creatorUser("bob", []string{"gaming"}, "tech", 0), nil))
	_, err = svc.AddTag(ctx, "bob", "fashion", failing)
	assert.ErrorIs(t, err, boom)

	got, err := svc.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"gaming"}, got.Tags)
}

func TestCancelledQueryHasNoSideEffects(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, creatorUser("alice", []string{"gaming"}, "tech", 0), nil))
	require.NoError(t, svc.Register(ctx, sponsorUser("acme", []string{"gaming"}, "tech", nil), nil))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err := svc.FindMatches(cancelled, "alice", 0)
	assert.ErrorIs(t, err, context.Canceled)

	// State is unchanged; a fresh query still works.
	matches, err := svc.FindMatches(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestConcurrentMutationsAndQueries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := range 8 {
		require.NoError(t, svc.Register(ctx, creatorUser(fmt.Sprintf("creator%d", i), []string{"gaming"}, "tech", 1000), nil))
		require.NoError(t, svc.Register(ctx, sponsorUser(fmt.Sprintf("sponsor%d", i), []string{"gaming"}, "tech", utils.ToPtr(100.0)), nil))
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("creator%d", n)
			for j := range 50 {
				tag := fmt.Sprintf("t%d", j%5)
				if j%2 == 0 {
					_, err := svc.AddTag(ctx, name, tag, nil)
					assert.NoError(t, err)
				} else {
					_, err := svc.RemoveTag(ctx, name, tag, nil)
					assert.NoError(t, err)
				}
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for range 50 {
				_, err := svc.FindMatches(ctx, fmt.Sprintf("sponsor%d", n), 0)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	// Index and store must still agree after the churn.
	for i := range 8 {
		u, err := svc.Get(fmt.Sprintf("creator%d", i))
		require.NoError(t, err)
		for _, tag := range u.Tags {
			assert.True(t, svc.index.Contains(u.Username, tag), "tag %q missing from index for %s", tag, u.Username)
		}
	}
}

func TestWarmLoadsStoreAndIndex(t *testing.T) {
	svc := newTestService(t)

	users := []*models.User{
		creatorUser("alice", []string{"Gaming", "gaming", " tech "}, "technology", 1000),
		sponsorUser("acme", []string{"gaming"}, "technology", nil),
	}
	require.NoError(t, svc.Warm(users))

	u, err := svc.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"gaming", "tech"}, u.Tags)

	matches, err := svc.FindMatches(context.Background(), "acme", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "alice", matches[0].Username)
}
