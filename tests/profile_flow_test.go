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

func seedProfiles(t *testing.T, users ...*models.User) (businessflow.ProfileFlow, *testingutil.FakeUserRepository) {
	t.Helper()
	svc := newMatchService(t)
	repo := testingutil.NewFakeUserRepository()
	for _, u := range users {
		require.NoError(t, repo.Save(context.Background(), u))
	}
	require.NoError(t, svc.Warm(users))
	return businessflow.NewProfileFlow(svc, repo), repo
}

func TestProfileFlow(t *testing.T) {
	t.Run("GetProfileByUsername", func(t *testing.T) {
		flow, _ := seedProfiles(t, testingutil.NewCreatorUser("alice", []string{"gaming"}, "Gaming", 50000))

		res, err := flow.GetProfile(context.Background(), "alice", testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "alice", res.User.Username)
		assert.Equal(t, []string{"gaming"}, res.User.Tags)
		require.NotNil(t, res.User.AudienceSize)
		assert.Equal(t, int64(50000), *res.User.AudienceSize)
	})

	t.Run("GetUnknownProfile", func(t *testing.T) {
		flow, _ := seedProfiles(t)

		_, err := flow.GetProfile(context.Background(), "ghost", testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsUserNotFound(err))
	})

	t.Run("PartialUpdateOnlyTouchesProvidedFields", func(t *testing.T) {
		flow, repo := seedProfiles(t, testingutil.NewCreatorUser("alice", []string{"gaming"}, "Gaming", 50000))

		res, err := flow.UpdateProfile(context.Background(), "alice", &dto.UpdateProfileRequest{
			Industry:     utils.ToPtr("Esports"),
			AudienceSize: utils.ToPtr(int64(75000)),
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "Esports", res.User.Industry)
		require.NotNil(t, res.User.AudienceSize)
		assert.Equal(t, int64(75000), *res.User.AudienceSize)

		// Untouched fields survive
		assert.Equal(t, []string{"gaming"}, res.User.Tags)
		require.NotNil(t, res.User.ContentType)
		assert.Equal(t, "video", *res.User.ContentType)

		// Durable copy matches the in-memory view
		stored := repo.Stored("alice")
		require.NotNil(t, stored)
		assert.Equal(t, "Esports", stored.Industry)
	})

	t.Run("SponsorFieldsRejectedOnCreator", func(t *testing.T) {
		flow, _ := seedProfiles(t, testingutil.NewCreatorUser("alice", nil, "", 0))

		_, err := flow.UpdateProfile(context.Background(), "alice", &dto.UpdateProfileRequest{
			CompanyName: utils.ToPtr("BrandCo"),
		}, testMetadata())
		require.Error(t, err)
		assert.ErrorIs(t, err, businessflow.ErrRoleFieldMismatch)
	})

	t.Run("SetTagsReplacesWholeSet", func(t *testing.T) {
		flow, repo := seedProfiles(t, testingutil.NewCreatorUser("alice", []string{"gaming", "tech"}, "", 0))

		res, err := flow.SetTags(context.Background(), "alice", &dto.UpdateTagsRequest{
			Tags: []string{"Fashion", "FASHION", " travel "},
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, []string{"fashion", "travel"}, res.User.Tags)

		stored := repo.Stored("alice")
		require.NotNil(t, stored)
		assert.Equal(t, []string{"fashion", "travel"}, stored.Tags)
	})

	t.Run("AddAndRemoveTag", func(t *testing.T) {
		flow, _ := seedProfiles(t, testingutil.NewCreatorUser("alice", []string{"gaming"}, "", 0))

		res, err := flow.AddTag(context.Background(), "alice", "Tech", testMetadata())
		require.NoError(t, err)
		assert.Equal(t, []string{"gaming", "tech"}, res.User.Tags)

		// Adding an existing tag is a no-op
		res, err = flow.AddTag(context.Background(), "alice", "GAMING", testMetadata())
		require.NoError(t, err)
		assert.Equal(t, []string{"gaming", "tech"}, res.User.Tags)

		res, err = flow.RemoveTag(context.Background(), "alice", "gaming", testMetadata())
		require.NoError(t, err)
		assert.Equal(t, []string{"tech"}, res.User.Tags)

		// Removing an absent tag is a no-op
		res, err = flow.RemoveTag(context.Background(), "alice", "gaming", testMetadata())
		require.NoError(t, err)
		assert.Equal(t, []string{"tech"}, res.User.Tags)
	})

	t.Run("UpdateFailurePreservesMemoryState", func(t *testing.T) {
		flow, repo := seedProfiles(t, testingutil.NewCreatorUser("alice", []string{"gaming"}, "Gaming", 0))
		repo.UpdateErr = assert.AnError

		_, err := flow.SetTags(context.Background(), "alice", &dto.UpdateTagsRequest{
			Tags: []string{"fashion"},
		}, testMetadata())
		require.Error(t, err)

		// In-memory profile keeps its old tags when persistence fails
		res, err := flow.GetProfile(context.Background(), "alice", testMetadata())
		require.NoError(t, err)
		assert.Equal(t, []string{"gaming"}, res.User.Tags)
	})
}
