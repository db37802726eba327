package dto

// MatchRequest represents a match query. When Tags is non-nil the
// submitted set is reconciled into the profile through the ordinary
// mutation path before scoring, mirroring the client's
// submit-full-tag-set calling pattern.
type MatchRequest struct {
	Tags  []string `json:"tags,omitempty" validate:"omitempty,dive,max=255"`
	Limit int      `json:"limit,omitempty" validate:"omitempty,gte=1,lte=100"`
}

// MatchDTO represents one ranked counterpart
type MatchDTO struct {
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Score    float64 `json:"score"`
	Industry string  `json:"industry"`

	// Role-specific summary
	ContentType  *string `json:"content_type,omitempty"`
	AudienceSize *int64  `json:"audience_size,omitempty"`
	CompanyName  *string `json:"company_name,omitempty"`
}

// FindMatchesResponse carries the ordered result list
type FindMatchesResponse struct {
	Message  string     `json:"message"`
	Username string     `json:"username"`
	Matches  []MatchDTO `json:"matches"`
}
