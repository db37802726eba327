// Package models contains domain entities and business models for the marketplace
package models

import (
	"strings"
	"time"
)

// Role identifies which side of the marketplace a user belongs to.
// It is fixed at registration and never changes for the lifetime of the account.
type Role string

const (
	RoleCreator Role = "creator"
	RoleSponsor Role = "sponsor"
)

// Valid reports whether the role is one of the two marketplace sides.
func (r Role) Valid() bool {
	return r == RoleCreator || r == RoleSponsor
}

// Opposite returns the counterpart role used for candidate discovery.
func (r Role) Opposite() Role {
	if r == RoleCreator {
		return RoleSponsor
	}
	return RoleCreator
}

// ContentType enumerates the kinds of content a creator produces.
type ContentType string

const (
	ContentTypeVideo       ContentType = "video"
	ContentTypeBlog        ContentType = "blog"
	ContentTypeSocialMedia ContentType = "social_media"
	ContentTypePodcast     ContentType = "podcast"
	ContentTypeOther       ContentType = "other"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeVideo, ContentTypeBlog, ContentTypeSocialMedia, ContentTypePodcast, ContentTypeOther:
		return true
	}
	return false
}

// CreatorProfile holds the attributes only creators carry.
type CreatorProfile struct {
	ContentType            ContentType `json:"content_type"`
	AudienceSize           int64       `json:"audience_size"`
	ContentStyle           string      `json:"content_style"`
	PreviousCollaborations []string    `json:"previous_collaborations"`
}

// SponsorProfile holds the attributes only sponsors carry.
// CampaignBudget is a pointer so an unset budget is distinguishable from zero.
type SponsorProfile struct {
	CompanyName    string   `json:"company_name"`
	CampaignBudget *float64 `json:"campaign_budget,omitempty"`
	TargetAudience string   `json:"target_audience"`
	CampaignGoals  []string `json:"campaign_goals"`
}

// User is the canonical profile of a registered creator or sponsor.
// Exactly one of Creator/Sponsor is non-nil, matching Role; the opposite
// side's payload is never populated.
type User struct {
	Username     string          `json:"username"`
	Role         Role            `json:"role"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"` // Never serialize password hash
	Industry     string          `json:"industry"`
	Tags         []string        `json:"tags"`
	Creator      *CreatorProfile `json:"creator,omitempty"`
	Sponsor      *SponsorProfile `json:"sponsor,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (u *User) IsCreator() bool { return u.Role == RoleCreator }

func (u *User) IsSponsor() bool { return u.Role == RoleSponsor }

// HasTag reports whether the user's tag set contains tag (exact match).
func (u *User) HasTag(tag string) bool {
	for _, t := range u.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the user so callers can hold a snapshot
// that later mutations cannot alias into.
func (u *User) Clone() *User {
	cp := *u
	cp.Tags = append([]string(nil), u.Tags...)
	if u.Creator != nil {
		c := *u.Creator
		c.PreviousCollaborations = append([]string(nil), u.Creator.PreviousCollaborations...)
		cp.Creator = &c
	}
	if u.Sponsor != nil {
		s := *u.Sponsor
		if u.Sponsor.CampaignBudget != nil {
			b := *u.Sponsor.CampaignBudget
			s.CampaignBudget = &b
		}
		s.CampaignGoals = append([]string(nil), u.Sponsor.CampaignGoals...)
		cp.Sponsor = &s
	}
	return &cp
}

// NormalizeTag canonicalizes a tag for storage and index lookup.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags trims, lowercases, and deduplicates a tag list while
// preserving first-seen order for display.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = NormalizeTag(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	Username *string
	Role     *Role
	Industry *string
}
