package matching

import (
	"fmt"
	"math"
)

// Default scoring parameters.
const (
	DefaultTagOverlapWeight = 0.5
	DefaultIndustryWeight   = 0.2
	DefaultScaleFitWeight   = 0.3

	// DefaultCostPerAudienceUnit is the budget a sponsor is expected to
	// spend per audience member; it converts a campaign budget into an
	// implied target audience scale for the scale-fit component.
	DefaultCostPerAudienceUnit = 0.01

	DefaultMaxResults = 20
	DefaultMinScore   = 0.0
)

// weightSumTolerance absorbs float rounding when checking the weights sum to 1.0.
const weightSumTolerance = 1e-9

// Config holds the tunable parameters of the matching core.
type Config struct {
	TagOverlapWeight    float64 `json:"tag_overlap_weight"`
	IndustryWeight      float64 `json:"industry_weight"`
	ScaleFitWeight      float64 `json:"scale_fit_weight"`
	CostPerAudienceUnit float64 `json:"cost_per_audience_unit"`
	MaxResults          int     `json:"max_results"`
	MinScore            float64 `json:"min_score"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TagOverlapWeight:    DefaultTagOverlapWeight,
		IndustryWeight:      DefaultIndustryWeight,
		ScaleFitWeight:      DefaultScaleFitWeight,
		CostPerAudienceUnit: DefaultCostPerAudienceUnit,
		MaxResults:          DefaultMaxResults,
		MinScore:            DefaultMinScore,
	}
}

// Validate checks the configuration before any scoring occurs.
// Weights must be non-negative and sum to exactly 1.0.
func (c Config) Validate() error {
	if c.TagOverlapWeight < 0 || c.IndustryWeight < 0 || c.ScaleFitWeight < 0 {
		return fmt.Errorf("%w: weights must be non-negative", ErrInvalidConfig)
	}
	sum := c.TagOverlapWeight + c.IndustryWeight + c.ScaleFitWeight
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %g, want 1.0", ErrInvalidConfig, sum)
	}
	if c.CostPerAudienceUnit <= 0 {
		return fmt.Errorf("%w: cost_per_audience_unit must be positive", ErrInvalidConfig)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("%w: max_results must be positive", ErrInvalidConfig)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("%w: min_score must be within [0,1]", ErrInvalidConfig)
	}
	return nil
}
