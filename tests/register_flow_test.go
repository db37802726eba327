// Package tests contains integration tests for the business flows
package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/albertle/networkx/app/dto"
	businessflow "github.com/albertle/networkx/business_flow"
	"github.com/albertle/networkx/matching"
	testingutil "github.com/albertle/networkx/testing"
	"github.com/albertle/networkx/utils"
)

func newMatchService(t *testing.T) *matching.Service {
	t.Helper()
	svc, err := matching.NewService(matching.DefaultConfig())
	require.NoError(t, err)
	return svc
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
}

func TestRegisterFlow(t *testing.T) {
	t.Run("SuccessfulCreatorRegistration", func(t *testing.T) {
		svc := newMatchService(t)
		repo := testingutil.NewFakeUserRepository()
		flow := businessflow.NewRegisterFlow(svc, repo, bcrypt.MinCost)

		req := &dto.RegisterRequest{
			Username:     "alice",
			Password:     "Secret123",
			Role:         "creator",
			Email:        "alice@example.com",
			Industry:     "Gaming",
			Tags:         []string{"Gaming", " tech "},
			ContentType:  utils.ToPtr("video"),
			AudienceSize: utils.ToPtr(int64(50000)),
		}

		result, err := flow.Register(context.Background(), req, testMetadata())
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "alice", result.User.Username)
		assert.Equal(t, "creator", result.User.Role)
		assert.Equal(t, []string{"gaming", "tech"}, result.User.Tags)
		require.NotNil(t, result.User.ContentType)
		assert.Equal(t, "video", *result.User.ContentType)

		// Persisted copy carries the bcrypt hash, the response never does
		stored := repo.Stored("alice")
		require.NotNil(t, stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret123")))
	})

	t.Run("SuccessfulSponsorRegistration", func(t *testing.T) {
		svc := newMatchService(t)
		repo := testingutil.NewFakeUserRepository()
		flow := businessflow.NewRegisterFlow(svc, repo, bcrypt.MinCost)

		req := &dto.RegisterRequest{
			Username:       "brandco",
			Password:       "Secret123",
			Role:           "sponsor",
			Email:          "brand@example.com",
			Industry:       "Gaming",
			Tags:           []string{"gaming"},
			CompanyName:    utils.ToPtr("BrandCo"),
			CampaignBudget: utils.ToPtr(500.0),
		}

		result, err := flow.Register(context.Background(), req, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "sponsor", result.User.Role)
		require.NotNil(t, result.User.CompanyName)
		assert.Equal(t, "BrandCo", *result.User.CompanyName)
	})

	t.Run("DuplicateUsernameRejected", func(t *testing.T) {
		svc := newMatchService(t)
		repo := testingutil.NewFakeUserRepository()
		flow := businessflow.NewRegisterFlow(svc, repo, bcrypt.MinCost)

		req := &dto.RegisterRequest{
			Username: "alice",
			Password: "Secret123",
			Role:     "creator",
			Email:    "alice@example.com",
		}

		_, err := flow.Register(context.Background(), req, testMetadata())
		require.NoError(t, err)

		_, err = flow.Register(context.Background(), req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsUsernameTaken(err))
	})

	t.Run("RoleFieldMismatchRejected", func(t *testing.T) {
		svc := newMatchService(t)
		repo := testingutil.NewFakeUserRepository()
		flow := businessflow.NewRegisterFlow(svc, repo, bcrypt.MinCost)

		// Creator carrying sponsor-only fields
		req := &dto.RegisterRequest{
			Username:    "alice",
			Password:    "Secret123",
			Role:        "creator",
			Email:       "alice@example.com",
			CompanyName: utils.ToPtr("BrandCo"),
		}

		_, err := flow.Register(context.Background(), req, testMetadata())
		require.Error(t, err)
		assert.ErrorIs(t, err, businessflow.ErrRoleFieldMismatch)
		assert.Nil(t, repo.Stored("alice"))
	})

	t.Run("InvalidContentTypeRejected", func(t *testing.T) {
		svc := newMatchService(t)
		repo := testingutil.NewFakeUserRepository()
		flow := businessflow.NewRegisterFlow(svc, repo, bcrypt.MinCost)

		req := &dto.RegisterRequest{
			Username:    "alice",
			Password:    "Secret123",
			Role:        "creator",
			Email:       "alice@example.com",
			ContentType: utils.ToPtr("hologram"),
		}

		_, err := flow.Register(context.Background(), req, testMetadata())
		require.Error(t, err)
		assert.ErrorIs(t, err, businessflow.ErrInvalidContentType)
	})

	t.Run("PersistFailureLeavesNoTrace", func(t *testing.T) {
		svc := newMatchService(t)
		repo := testingutil.NewFakeUserRepository()
		repo.SaveErr = assert.AnError
		flow := businessflow.NewRegisterFlow(svc, repo, bcrypt.MinCost)

		req := &dto.RegisterRequest{
			Username: "alice",
			Password: "Secret123",
			Role:     "creator",
			Email:    "alice@example.com",
		}

		_, err := flow.Register(context.Background(), req, testMetadata())
		require.Error(t, err)

		// The in-memory core must not have committed the profile
		_, err = svc.Get("alice")
		assert.ErrorIs(t, err, matching.ErrNotFound)
	})
}
