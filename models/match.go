package models

// Match is a derived, ephemeral ranking entry. It is recomputed on
// every query and never persisted.
type Match struct {
	Username string  `json:"username"`
	Role     Role    `json:"role"`
	Score    float64 `json:"score"`
	Industry string  `json:"industry"`

	// Role-specific summary fields, populated from the candidate's side only.
	ContentType  *ContentType `json:"content_type,omitempty"`
	AudienceSize *int64       `json:"audience_size,omitempty"`
	CompanyName  *string      `json:"company_name,omitempty"`
}

// MatchSummary builds the summary entry for a scored candidate.
func MatchSummary(candidate *User, score float64) Match {
	m := Match{
		Username: candidate.Username,
		Role:     candidate.Role,
		Score:    score,
		Industry: candidate.Industry,
	}
	if candidate.Creator != nil {
		ct := candidate.Creator.ContentType
		size := candidate.Creator.AudienceSize
		m.ContentType = &ct
		m.AudienceSize = &size
	}
	if candidate.Sponsor != nil {
		name := candidate.Sponsor.CompanyName
		m.CompanyName = &name
	}
	return m
}
