package dto

import "time"

// UserDTO represents a user profile for API responses. Role-specific
// fields are only populated for the matching role.
type UserDTO struct {
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Email    string   `json:"email"`
	Industry string   `json:"industry"`
	Tags     []string `json:"tags"`

	// Creator fields
	ContentType            *string  `json:"content_type,omitempty"`
	AudienceSize           *int64   `json:"audience_size,omitempty"`
	ContentStyle           *string  `json:"content_style,omitempty"`
	PreviousCollaborations []string `json:"previous_collaborations,omitempty"`

	// Sponsor fields
	CompanyName    *string  `json:"company_name,omitempty"`
	CampaignBudget *float64 `json:"campaign_budget,omitempty"`
	TargetAudience *string  `json:"target_audience,omitempty"`
	CampaignGoals  []string `json:"campaign_goals,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetProfileResponse wraps a profile lookup result
type GetProfileResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// UpdateProfileRequest represents owner-only attribute edits. Only
// non-nil fields are applied; tags are edited through their own endpoints.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Industry *string `json:"industry,omitempty" validate:"omitempty,max=120"`

	// Creator fields
	ContentType            *string  `json:"content_type,omitempty" validate:"omitempty,oneof=video blog social_media podcast other"`
	AudienceSize           *int64   `json:"audience_size,omitempty" validate:"omitempty,gte=0"`
	ContentStyle           *string  `json:"content_style,omitempty" validate:"omitempty,max=255"`
	PreviousCollaborations []string `json:"previous_collaborations,omitempty" validate:"omitempty,unique,dive,max=255"`

	// Sponsor fields
	CompanyName    *string  `json:"company_name,omitempty" validate:"omitempty,max=120"`
	CampaignBudget *float64 `json:"campaign_budget,omitempty" validate:"omitempty,gte=0"`
	TargetAudience *string  `json:"target_audience,omitempty" validate:"omitempty,max=255"`
	CampaignGoals  []string `json:"campaign_goals,omitempty" validate:"omitempty,unique,dive,max=255"`
}

// UpdateTagsRequest replaces the full tag set
type UpdateTagsRequest struct {
	Tags []string `json:"tags" validate:"required,dive,max=255"`
}

// UpdateProfileResponse wraps the post-mutation profile
type UpdateProfileResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}
