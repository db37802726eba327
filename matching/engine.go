package matching

import (
	"strings"

	"github.com/albertle/networkx/models"
)

// Engine computes compatibility scores between creators and sponsors.
// Scoring is a pure function of the two profiles: no randomness, no
// time dependence, no I/O.
type Engine struct {
	cfg Config
}

// NewEngine validates the configuration and returns a scoring engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Breakdown exposes the individual components of a score so results
// stay explainable to both sides of the marketplace.
type Breakdown struct {
	TagOverlap float64 `json:"tag_overlap"`
	Industry   float64 `json:"industry"`
	ScaleFit   float64 `json:"scale_fit"`
	Total      float64 `json:"total"`
}

// Score returns the compatibility score for a cross-role pair, in [0,1].
func (e *Engine) Score(subject, candidate *models.User) (float64, error) {
	b, err := e.Explain(subject, candidate)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

// Explain computes the score with its per-component breakdown.
// Same-role pairs are a programming error and fail with ErrInvalidPair.
func (e *Engine) Explain(subject, candidate *models.User) (Breakdown, error) {
	if subject == nil || candidate == nil || subject.Role == candidate.Role {
		return Breakdown{}, ErrInvalidPair
	}

	b := Breakdown{
		TagOverlap: jaccard(subject.Tags, candidate.Tags),
		Industry:   industryMatch(subject.Industry, candidate.Industry),
		ScaleFit:   e.scaleFit(subject, candidate),
	}
	b.Total = clamp01(e.cfg.TagOverlapWeight*b.TagOverlap +
		e.cfg.IndustryWeight*b.Industry +
		e.cfg.ScaleFitWeight*b.ScaleFit)
	return b, nil
}

// jaccard is |intersection| / |union| over the two tag sets, 0 when both are empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	intersection := 0
	union := len(set)
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func industryMatch(a, b string) float64 {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) && strings.TrimSpace(a) != "" {
		return 1.0
	}
	return 0.0
}

// scaleFit measures how well the creator's audience size matches the
// scale implied by the sponsor's campaign budget. The budget divided by
// the expected cost per audience member gives a target scale; closeness
// is folded to [0,1] with min(a,b)/max(a,b). Incomplete profiles zero
// out this component rather than erroring.
func (e *Engine) scaleFit(subject, candidate *models.User) float64 {
	creator, sponsor := subject, candidate
	if creator.Role != models.RoleCreator {
		creator, sponsor = candidate, subject
	}
	if creator.Creator == nil || sponsor.Sponsor == nil {
		return 0
	}
	audience := float64(creator.Creator.AudienceSize)
	if audience <= 0 {
		return 0
	}
	budget := sponsor.Sponsor.CampaignBudget
	if budget == nil || *budget <= 0 {
		return 0
	}
	target := *budget / e.cfg.CostPerAudienceUnit
	if target <= 0 {
		return 0
	}
	if audience < target {
		return audience / target
	}
	return target / audience
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
