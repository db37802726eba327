package businessflow

import (
	"context"
	"errors"

	"github.com/albertle/networkx/app/dto"
	"github.com/albertle/networkx/matching"
	"github.com/albertle/networkx/models"
	"github.com/albertle/networkx/repository"
)

// ProfileFlow handles profile reads and owner-only mutations
type ProfileFlow interface {
	GetProfile(ctx context.Context, username string, metadata *ClientMetadata) (*dto.GetProfileResponse, error)
	UpdateProfile(ctx context.Context, username string, req *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.UpdateProfileResponse, error)
	SetTags(ctx context.Context, username string, req *dto.UpdateTagsRequest, metadata *ClientMetadata) (*dto.UpdateProfileResponse, error)
	AddTag(ctx context.Context, username, tag string, metadata *ClientMetadata) (*dto.UpdateProfileResponse, error)
	RemoveTag(ctx context.Context, username, tag string, metadata *ClientMetadata) (*dto.UpdateProfileResponse, error)
}

// ProfileFlowImpl implements the profile business flow
type ProfileFlowImpl struct {
	matchSvc *matching.Service
	userRepo repository.UserRepository
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(matchSvc *matching.Service, userRepo repository.UserRepository) ProfileFlow {
	return &ProfileFlowImpl{
		matchSvc: matchSvc,
		userRepo: userRepo,
	}
}

// GetProfile returns any user's public profile by username.
func (f *ProfileFlowImpl) GetProfile(ctx context.Context, username string, metadata *ClientMetadata) (*dto.GetProfileResponse, error) {
	user, err := f.matchSvc.Get(username)
	if err != nil {
		if IsUserNotFound(err) {
			return nil, NewBusinessError("USER_NOT_FOUND", "User not found", err)
		}
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to load profile", err)
	}

	return &dto.GetProfileResponse{
		Message: "Profile retrieved",
		User:    ToUserDTO(user),
	}, nil
}

// UpdateProfile applies the non-nil fields of the request to the
// caller's own profile. Role-specific fields are rejected when they
// belong to the opposite role; username and role are immutable.
func (f *ProfileFlowImpl) UpdateProfile(ctx context.Context, username string, req *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.UpdateProfileResponse, error) {
	updated, err := f.matchSvc.Update(ctx, username, func(u *models.User) error {
		return applyProfileUpdate(u, req)
	}, f.persist())
	if err != nil {
		return nil, f.mutationError(err, "PROFILE_UPDATE_FAILED", "Failed to update profile")
	}

	return &dto.UpdateProfileResponse{
		Message: "Profile updated",
		User:    ToUserDTO(updated),
	}, nil
}

// SetTags replaces the caller's full tag set. Tags are normalized and
// deduplicated before the index delta is applied.
func (f *ProfileFlowImpl) SetTags(ctx context.Context, username string, req *dto.UpdateTagsRequest, metadata *ClientMetadata) (*dto.UpdateProfileResponse, error) {
	updated, err := f.matchSvc.SetTags(ctx, username, req.Tags, f.persist())
	if err != nil {
		return nil, f.mutationError(err, "TAG_UPDATE_FAILED", "Failed to update tags")
	}

	return &dto.UpdateProfileResponse{
		Message: "Tags updated",
		User:    ToUserDTO(updated),
	}, nil
}

// AddTag attaches a single tag; adding a tag the user already has is a no-op.
func (f *ProfileFlowImpl) AddTag(ctx context.Context, username, tag string, metadata *ClientMetadata) (*dto.UpdateProfileResponse, error) {
	updated, err := f.matchSvc.AddTag(ctx, username, tag, f.persist())
	if err != nil {
		return nil, f.mutationError(err, "TAG_UPDATE_FAILED", "Failed to add tag")
	}

	return &dto.UpdateProfileResponse{
		Message: "Tag added",
		User:    ToUserDTO(updated),
	}, nil
}

// RemoveTag detaches a single tag; removing an absent tag is a no-op.
func (f *ProfileFlowImpl) RemoveTag(ctx context.Context, username, tag string, metadata *ClientMetadata) (*dto.UpdateProfileResponse, error) {
	updated, err := f.matchSvc.RemoveTag(ctx, username, tag, f.persist())
	if err != nil {
		return nil, f.mutationError(err, "TAG_UPDATE_FAILED", "Failed to remove tag")
	}

	return &dto.UpdateProfileResponse{
		Message: "Tag removed",
		User:    ToUserDTO(updated),
	}, nil
}

func (f *ProfileFlowImpl) persist() matching.PersistFunc {
	if f.userRepo == nil {
		return nil
	}
	return func(ctx context.Context, u *models.User) error {
		return f.userRepo.Update(ctx, u)
	}
}

func (f *ProfileFlowImpl) mutationError(err error, code, message string) error {
	if IsUserNotFound(err) {
		return NewBusinessError("USER_NOT_FOUND", "User not found", err)
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be
	}
	return NewBusinessError(code, message, err)
}

func applyProfileUpdate(u *models.User, req *dto.UpdateProfileRequest) error {
	creatorFields := req.ContentType != nil || req.AudienceSize != nil ||
		req.ContentStyle != nil || req.PreviousCollaborations != nil
	sponsorFields := req.CompanyName != nil || req.CampaignBudget != nil ||
		req.TargetAudience != nil || req.CampaignGoals != nil

	if u.IsCreator() && sponsorFields {
		return NewBusinessError("ROLE_FIELD_MISMATCH", "Sponsor fields are not valid for a creator profile", ErrRoleFieldMismatch)
	}
	if u.IsSponsor() && creatorFields {
		return NewBusinessError("ROLE_FIELD_MISMATCH", "Creator fields are not valid for a sponsor profile", ErrRoleFieldMismatch)
	}

	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Industry != nil {
		u.Industry = *req.Industry
	}

	if u.IsCreator() {
		if u.Creator == nil {
			u.Creator = &models.CreatorProfile{ContentType: models.ContentTypeOther}
		}
		if req.ContentType != nil {
			ct := models.ContentType(*req.ContentType)
			if !ct.Valid() {
				return NewBusinessError("INVALID_CONTENT_TYPE", "Unknown content type", ErrInvalidContentType)
			}
			u.Creator.ContentType = ct
		}
		if req.AudienceSize != nil {
			if *req.AudienceSize < 0 {
				return NewBusinessError("INVALID_AUDIENCE_SIZE", "Audience size cannot be negative", ErrNegativeAudienceSize)
			}
			u.Creator.AudienceSize = *req.AudienceSize
		}
		if req.ContentStyle != nil {
			u.Creator.ContentStyle = *req.ContentStyle
		}
		if req.PreviousCollaborations != nil {
			if hasDuplicates(req.PreviousCollaborations) {
				return NewBusinessError("DUPLICATE_COLLABORATIONS", "Previous collaborations contain duplicates", ErrDuplicateCollaborations)
			}
			u.Creator.PreviousCollaborations = req.PreviousCollaborations
		}
	}

	if u.IsSponsor() {
		if u.Sponsor == nil {
			u.Sponsor = &models.SponsorProfile{}
		}
		if req.CompanyName != nil {
			u.Sponsor.CompanyName = *req.CompanyName
		}
		if req.CampaignBudget != nil {
			if *req.CampaignBudget < 0 {
				return NewBusinessError("INVALID_CAMPAIGN_BUDGET", "Campaign budget cannot be negative", ErrNegativeCampaignBudget)
			}
			u.Sponsor.CampaignBudget = req.CampaignBudget
		}
		if req.TargetAudience != nil {
			u.Sponsor.TargetAudience = *req.TargetAudience
		}
		if req.CampaignGoals != nil {
			if hasDuplicates(req.CampaignGoals) {
				return NewBusinessError("DUPLICATE_CAMPAIGN_GOALS", "Campaign goals contain duplicates", ErrDuplicateCampaignGoals)
			}
			u.Sponsor.CampaignGoals = req.CampaignGoals
		}
	}

	return nil
}
