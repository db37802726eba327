// Package tests contains integration tests for the business flows
package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertle/networkx/app/dto"
	businessflow "github.com/albertle/networkx/business_flow"
	"github.com/albertle/networkx/models"
	testingutil "github.com/albertle/networkx/testing"
	"github.com/albertle/networkx/utils"
)

func seedMatching(t *testing.T, users ...*models.User) (businessflow.MatchFlow, *testingutil.FakeUserRepository) {
	t.Helper()
	svc := newMatchService(t)
	repo := testingutil.NewFakeUserRepository()
	for _, u := range users {
		require.NoError(t, repo.Save(context.Background(), u))
	}
	require.NoError(t, svc.Warm(users))
	return businessflow.NewMatchFlow(svc, repo), repo
}

func TestMatchFlow(t *testing.T) {
	t.Run("CreatorSponsorScoring", func(t *testing.T) {
		// Sponsor without a budget: scale fit contributes 0, so the
		// total is 0.5*1.0 (tags) + 0.2*1.0 (industry) = 0.70.
		flow, _ := seedMatching(t,
			testingutil.NewCreatorUser("alice", []string{"gaming"}, "technology", 500000),
			testingutil.NewSponsorUser("brandco", []string{"gaming"}, "technology", nil),
		)

		res, err := flow.FindMatches(context.Background(), "alice", &dto.MatchRequest{}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "alice", res.Username)
		require.Len(t, res.Matches, 1)
		assert.Equal(t, "brandco", res.Matches[0].Username)
		assert.Equal(t, string(models.RoleSponsor), res.Matches[0].Role)
		assert.InDelta(t, 0.70, res.Matches[0].Score, 1e-9)
	})

	t.Run("OnlyOppositeRoleReturned", func(t *testing.T) {
		flow, _ := seedMatching(t,
			testingutil.NewCreatorUser("alice", []string{"gaming"}, "technology", 10000),
			testingutil.NewCreatorUser("bob", []string{"gaming"}, "technology", 10000),
			testingutil.NewSponsorUser("brandco", []string{"gaming"}, "technology", utils.ToPtr(500.0)),
		)

		res, err := flow.FindMatches(context.Background(), "alice", &dto.MatchRequest{}, testMetadata())
		require.NoError(t, err)
		require.Len(t, res.Matches, 1)
		assert.Equal(t, "brandco", res.Matches[0].Username)
	})

	t.Run("TieBreakIsAscendingUsername", func(t *testing.T) {
		flow, _ := seedMatching(t,
			testingutil.NewCreatorUser("alice", []string{"gaming"}, "technology", 0),
			testingutil.NewSponsorUser("zeta", []string{"gaming"}, "technology", nil),
			testingutil.NewSponsorUser("acme", []string{"gaming"}, "technology", nil),
		)

		res, err := flow.FindMatches(context.Background(), "alice", &dto.MatchRequest{}, testMetadata())
		require.NoError(t, err)
		require.Len(t, res.Matches, 2)
		assert.Equal(t, "acme", res.Matches[0].Username)
		assert.Equal(t, "zeta", res.Matches[1].Username)
	})

	t.Run("LimitTruncatesResults", func(t *testing.T) {
		flow, _ := seedMatching(t,
			testingutil.NewCreatorUser("alice", []string{"gaming"}, "technology", 0),
			testingutil.NewSponsorUser("s1", []string{"gaming"}, "technology", nil),
			testingutil.NewSponsorUser("s2", []string{"gaming"}, "technology", nil),
			testingutil.NewSponsorUser("s3", []string{"gaming"}, "technology", nil),
		)

		res, err := flow.FindMatches(context.Background(), "alice", &dto.MatchRequest{Limit: 2}, testMetadata())
		require.NoError(t, err)
		assert.Len(t, res.Matches, 2)
	})

	t.Run("SubmittedTagsReconcileBeforeScoring", func(t *testing.T) {
		flow, repo := seedMatching(t,
			testingutil.NewCreatorUser("alice", []string{"fashion"}, "technology", 0),
			testingutil.NewSponsorUser("brandco", []string{"gaming"}, "retail", nil),
		)

		// Without the submitted tags there is no overlap or industry
		// match; with them the gaming sponsor scores.
		res, err := flow.FindMatches(context.Background(), "alice", &dto.MatchRequest{
			Tags: []string{"Gaming"},
		}, testMetadata())
		require.NoError(t, err)
		require.Len(t, res.Matches, 1)
		assert.InDelta(t, 0.5, res.Matches[0].Score, 1e-9)

		// Reconciliation is a real write: the new tag set is durable.
		stored := repo.Stored("alice")
		require.NotNil(t, stored)
		assert.Equal(t, []string{"gaming"}, stored.Tags)
	})

	t.Run("EmptyTagSetScansOppositeRole", func(t *testing.T) {
		flow, _ := seedMatching(t,
			testingutil.NewCreatorUser("alice", nil, "technology", 0),
			testingutil.NewSponsorUser("brandco", []string{"gaming"}, "technology", nil),
		)

		res, err := flow.FindMatches(context.Background(), "alice", &dto.MatchRequest{}, testMetadata())
		require.NoError(t, err)
		require.Len(t, res.Matches, 1)
		assert.Equal(t, "brandco", res.Matches[0].Username)
		// Industry is the only scoring component present
		assert.InDelta(t, 0.2, res.Matches[0].Score, 1e-9)
	})

	t.Run("UnknownSubject", func(t *testing.T) {
		flow, _ := seedMatching(t)

		_, err := flow.FindMatches(context.Background(), "ghost", &dto.MatchRequest{}, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsUserNotFound(err))
	})
}
