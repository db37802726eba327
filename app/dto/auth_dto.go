package dto

// RegisterRequest represents the registration form data. Role-specific
// fields are optional and must match the selected role.
type RegisterRequest struct {
	Username        string   `json:"username" validate:"required,min=3,max=60,username_format"`
	Password        string   `json:"password" validate:"required,min=8"`
	ConfirmPassword string   `json:"confirm_password" validate:"omitempty,eqfield=Password"`
	Role            string   `json:"role" validate:"required,oneof=creator sponsor"`
	Email           string   `json:"email" validate:"required,email,max=255"`
	Industry        string   `json:"industry" validate:"omitempty,max=120"`
	Tags            []string `json:"tags" validate:"omitempty,dive,max=255"`

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

// RegisterResponse represents the response after successful registration
type RegisterResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// LoginRequest represents the login form data
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the response after successful authentication
type LoginResponse struct {
	Message string     `json:"message"`
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}

// SessionDTO carries the issued token pair
type SessionDTO struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse represents the rotated token pair
type RefreshResponse struct {
	Message string     `json:"message"`
	Session SessionDTO `json:"session"`
}
