package businessflow

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/albertle/networkx/app/dto"
	"github.com/albertle/networkx/matching"
	"github.com/albertle/networkx/models"
	"github.com/albertle/networkx/repository"
	"github.com/albertle/networkx/utils"
)

// RegisterFlow handles the complete registration business logic
type RegisterFlow interface {
	Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error)
}

// RegisterFlowImpl implements the registration business flow
type RegisterFlowImpl struct {
	matchSvc   *matching.Service
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewRegisterFlow creates a new registration flow instance
func NewRegisterFlow(matchSvc *matching.Service, userRepo repository.UserRepository, bcryptCost int) RegisterFlow {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &RegisterFlowImpl{
		matchSvc:   matchSvc,
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// Register creates the profile and indexes its tags in one atomic step.
// The durable record is written first; the in-process matching state is
// only committed once persistence succeeds, so a later match query from
// the same client always observes the new profile (read-your-writes).
func (f *RegisterFlowImpl) Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error) {
	user, err := f.buildUser(req)
	if err != nil {
		return nil, NewBusinessError("REGISTRATION_VALIDATION_FAILED", "Registration validation failed", err)
	}

	if err := f.matchSvc.Register(ctx, user, f.persist()); err != nil {
		if IsUsernameTaken(err) {
			return nil, NewBusinessError("USERNAME_TAKEN", "Username already exists", err)
		}
		return nil, NewBusinessError("REGISTRATION_FAILED", "Registration failed", err)
	}

	created, err := f.matchSvc.Get(user.Username)
	if err != nil {
		return nil, NewBusinessError("REGISTRATION_FAILED", "Failed to load created profile", err)
	}

	return &dto.RegisterResponse{
		Message: "Registration successful",
		User:    ToUserDTO(created),
	}, nil
}

func (f *RegisterFlowImpl) persist() matching.PersistFunc {
	if f.userRepo == nil {
		return nil
	}
	return func(ctx context.Context, u *models.User) error {
		return f.userRepo.Save(ctx, u)
	}
}

func (f *RegisterFlowImpl) buildUser(req *dto.RegisterRequest) (*models.User, error) {
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := validateRoleFields(role, req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), f.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := utils.UTCNow()
	user := &models.User{
		Username:     req.Username,
		Role:         role,
		Email:        req.Email,
		PasswordHash: string(hash),
		Industry:     req.Industry,
		Tags:         models.NormalizeTags(req.Tags),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch role {
	case models.RoleCreator:
		creator := &models.CreatorProfile{
			ContentType:            models.ContentTypeOther,
			PreviousCollaborations: req.PreviousCollaborations,
		}
		if req.ContentType != nil {
			ct := models.ContentType(*req.ContentType)
			if !ct.Valid() {
				return nil, ErrInvalidContentType
			}
			creator.ContentType = ct
		}
		if req.AudienceSize != nil {
			if *req.AudienceSize < 0 {
				return nil, ErrNegativeAudienceSize
			}
			creator.AudienceSize = *req.AudienceSize
		}
		if req.ContentStyle != nil {
			creator.ContentStyle = *req.ContentStyle
		}
		if hasDuplicates(creator.PreviousCollaborations) {
			return nil, ErrDuplicateCollaborations
		}
		user.Creator = creator
	case models.RoleSponsor:
		sponsor := &models.SponsorProfile{
			CampaignBudget: req.CampaignBudget,
			CampaignGoals:  req.CampaignGoals,
		}
		if req.CampaignBudget != nil && *req.CampaignBudget < 0 {
			return nil, ErrNegativeCampaignBudget
		}
		if req.CompanyName != nil {
			sponsor.CompanyName = *req.CompanyName
		}
		if req.TargetAudience != nil {
			sponsor.TargetAudience = *req.TargetAudience
		}
		if hasDuplicates(sponsor.CampaignGoals) {
			return nil, ErrDuplicateCampaignGoals
		}
		user.Sponsor = sponsor
	}

	return user, nil
}

// validateRoleFields rejects payloads that populate the opposite
// role's attributes; a creator can never carry sponsor fields.
func validateRoleFields(role models.Role, req *dto.RegisterRequest) error {
	creatorFields := req.ContentType != nil || req.AudienceSize != nil ||
		req.ContentStyle != nil || len(req.PreviousCollaborations) > 0
	sponsorFields := req.CompanyName != nil || req.CampaignBudget != nil ||
		req.TargetAudience != nil || len(req.CampaignGoals) > 0

	if role == models.RoleCreator && sponsorFields {
		return ErrRoleFieldMismatch
	}
	if role == models.RoleSponsor && creatorFields {
		return ErrRoleFieldMismatch
	}
	return nil
}

func hasDuplicates(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}
