package matching

import (
	"testing"

	"github.com/albertle/networkx/models"
	"github.com/albertle/networkx/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return engine
}

func creatorUser(username string, tags []string, industry string, audience int64) *models.User {
	return &models.User{
		Username: username,
		Role:     models.RoleCreator,
		Industry: industry,
		Tags:     tags,
		Creator: &models.CreatorProfile{
			ContentType:  models.ContentTypeVideo,
			AudienceSize: audience,
		},
	}
}

func sponsorUser(username string, tags []string, industry string, budget *float64) *models.User {
	return &models.User{
		Username: username,
		Role:     models.RoleSponsor,
		Industry: industry,
		Tags:     tags,
		Sponsor: &models.SponsorProfile{
			CompanyName:    "Acme",
			CampaignBudget: budget,
		},
	}
}

func TestEngineRejectsInvalidWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TagOverlapWeight = 0.5
	cfg.IndustryWeight = 0.5
	cfg.ScaleFitWeight = 0.5

	_, err := NewEngine(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEngineRejectsNegativeWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TagOverlapWeight = 1.2
	cfg.IndustryWeight = -0.2
	cfg.ScaleFitWeight = 0.0

	_, err := NewEngine(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScoreRejectsSameRolePair(t *testing.T) {
	engine := newTestEngine(t)

	a := creatorUser("alice", nil, "tech", 100)
	b := creatorUser("bob", nil, "tech", 200)

	_, err := engine.Score(a, b)
	assert.ErrorIs(t, err, ErrInvalidPair)
}

func TestJaccardComponent(t *testing.T) {
	engine := newTestEngine(t)

	subject := creatorUser("alice", []string{"gaming", "tech"}, "", 0)
	candidate := sponsorUser("acme", []string{"gaming", "fashion"}, "", nil)

	b, err := engine.Explain(subject, candidate)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, b.TagOverlap, 1e-12)
}

func TestJaccardBothEmpty(t *testing.T) {
	engine := newTestEngine(t)

	b, err := engine.Explain(
		creatorUser("alice", nil, "tech", 0),
		sponsorUser("acme", nil, "fashion", nil),
	)
	require.NoError(t, err)
	assert.Zero(t, b.TagOverlap)
}

func TestIndustryMatchCaseInsensitiveTrimmed(t *testing.T) {
	engine := newTestEngine(t)

	b, err := engine.Explain(
		creatorUser("alice", nil, "  Technology ", 0),
		sponsorUser("acme", nil, "technology", nil),
	)
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.Industry)
}

func TestIndustryMatchBothEmpty(t *testing.T) {
	engine := newTestEngine(t)

	// An unset industry is absent data, not a shared trait: two blank
	// industries must not score as a match.
	b, err := engine.Explain(
		creatorUser("alice", nil, "", 0),
		sponsorUser("acme", nil, "", nil),
	)
	require.NoError(t, err)
	assert.Zero(t, b.Industry)
}

func TestMissingBudgetZeroesScaleFitOnly(t *testing.T) {
	engine := newTestEngine(t)

	subject := creatorUser("alice", []string{"gaming"}, "technology", 500000)
	candidate := sponsorUser("acme", []string{"gaming"}, "technology", nil)

	b, err := engine.Explain(subject, candidate)
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.TagOverlap)
	assert.Equal(t, 1.0, b.Industry)
	assert.Zero(t, b.ScaleFit)
	assert.InDelta(t, 0.70, b.Total, 1e-12)
}

func TestScaleFitPerfectAlignment(t *testing.T) {
	engine := newTestEngine(t)

	// Budget 5000 at 0.01 per audience member implies a 500k target.
	subject := creatorUser("alice", nil, "", 500000)
	candidate := sponsorUser("acme", nil, "", utils.ToPtr(5000.0))

	b, err := engine.Explain(subject, candidate)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, b.ScaleFit, 1e-12)
}

func TestScaleFitSymmetricInDirection(t *testing.T) {
	engine := newTestEngine(t)

	creator := creatorUser("alice", nil, "", 100000)
	sponsor := sponsorUser("acme", nil, "", utils.ToPtr(5000.0))

	fromCreator, err := engine.Explain(creator, sponsor)
	require.NoError(t, err)
	fromSponsor, err := engine.Explain(sponsor, creator)
	require.NoError(t, err)
	assert.Equal(t, fromCreator.ScaleFit, fromSponsor.ScaleFit)
}

func TestScoreBounds(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		subject   *models.User
		candidate *models.User
	}{
		{creatorUser("a", []string{"x", "y", "z"}, "tech", 1), sponsorUser("b", []string{"x", "y", "z"}, "tech", utils.ToPtr(1e9))},
		{creatorUser("a", nil, "", 0), sponsorUser("b", nil, "", nil)},
		{creatorUser("a", []string{"x"}, "tech", 123456), sponsorUser("b", []string{"q"}, "other", utils.ToPtr(0.5))},
	}
	for _, tc := range cases {
		score, err := engine.Score(tc.subject, tc.candidate)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestScoreDeterministic(t *testing.T) {
	engine := newTestEngine(t)

	subject := creatorUser("alice", []string{"gaming", "tech"}, "technology", 250000)
	candidate := sponsorUser("acme", []string{"gaming"}, "technology", utils.ToPtr(4000.0))

	first, err := engine.Score(subject, candidate)
	require.NoError(t, err)
	for range 10 {
		again, err := engine.Score(subject, candidate)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
