// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/albertle/networkx/app/dto"
	"github.com/albertle/networkx/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for session tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToUserDTO converts a user model to the flat profile shape the client consumes
func ToUserDTO(u *models.User) dto.UserDTO {
	out := dto.UserDTO{
		Username:  u.Username,
		Role:      string(u.Role),
		Email:     u.Email,
		Industry:  u.Industry,
		Tags:      u.Tags,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if u.Creator != nil {
		ct := string(u.Creator.ContentType)
		size := u.Creator.AudienceSize
		style := u.Creator.ContentStyle
		out.ContentType = &ct
		out.AudienceSize = &size
		out.ContentStyle = &style
		out.PreviousCollaborations = u.Creator.PreviousCollaborations
	}
	if u.Sponsor != nil {
		name := u.Sponsor.CompanyName
		target := u.Sponsor.TargetAudience
		out.CompanyName = &name
		out.CampaignBudget = u.Sponsor.CampaignBudget
		out.TargetAudience = &target
		out.CampaignGoals = u.Sponsor.CampaignGoals
	}
	return out
}

// ToMatchDTO converts a ranked match to its API shape
func ToMatchDTO(m models.Match) dto.MatchDTO {
	out := dto.MatchDTO{
		Username:     m.Username,
		Role:         string(m.Role),
		Score:        m.Score,
		Industry:     m.Industry,
		AudienceSize: m.AudienceSize,
		CompanyName:  m.CompanyName,
	}
	if m.ContentType != nil {
		ct := string(*m.ContentType)
		out.ContentType = &ct
	}
	return out
}
