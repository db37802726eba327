package testing

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/albertle/networkx/matching"
	"github.com/albertle/networkx/models"
	"github.com/albertle/networkx/utils"
)

// FakeUserRepository is an in-memory stand-in for the Postgres-backed
// repository, used by flow tests that don't need a real database.
type FakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User

	// SaveErr and UpdateErr force the next persistence call to fail.
	SaveErr   error
	UpdateErr error
}

// NewFakeUserRepository creates an empty in-memory user repository
func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{users: make(map[string]*models.User)}
}

func (r *FakeUserRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	return u.Clone(), nil
}

func (r *FakeUserRepository) Save(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SaveErr != nil {
		return r.SaveErr
	}
	if _, exists := r.users[user.Username]; exists {
		return matching.ErrConflict
	}
	r.users[user.Username] = user.Clone()
	return nil
}

func (r *FakeUserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	if _, exists := r.users[user.Username]; !exists {
		return matching.ErrNotFound
	}
	r.users[user.Username] = user.Clone()
	return nil
}

func (r *FakeUserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *FakeUserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.users)), nil
}

// Stored returns the persisted copy of a user, or nil. Test-only.
func (r *FakeUserRepository) Stored(username string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return nil
	}
	return u.Clone()
}

// TestPassword is the plaintext password used by all fixture users.
const TestPassword = "TestPass123"

// NewCreatorUser builds a creator profile with a valid bcrypt hash of TestPassword.
func NewCreatorUser(username string, tags []string, industry string, audienceSize int64) *models.User {
	now := utils.UTCNow()
	return &models.User{
		Username:     username,
		Role:         models.RoleCreator,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: mustHash(TestPassword),
		Industry:     industry,
		Tags:         models.NormalizeTags(tags),
		Creator: &models.CreatorProfile{
			ContentType:  models.ContentTypeVideo,
			AudienceSize: audienceSize,
			ContentStyle: "educational",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewSponsorUser builds a sponsor profile with a valid bcrypt hash of TestPassword.
func NewSponsorUser(username string, tags []string, industry string, budget *float64) *models.User {
	now := utils.UTCNow()
	return &models.User{
		Username:     username,
		Role:         models.RoleSponsor,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: mustHash(TestPassword),
		Industry:     industry,
		Tags:         models.NormalizeTags(tags),
		Sponsor: &models.SponsorProfile{
			CompanyName:    "Acme",
			CampaignBudget: budget,
			TargetAudience: "young adults",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}
