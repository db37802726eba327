package businessflow

import (
	"context"
	"errors"

	"github.com/albertle/networkx/app/dto"
	"github.com/albertle/networkx/matching"
	"github.com/albertle/networkx/repository"
)

// MatchFlow handles compatibility queries against the matching core
type MatchFlow interface {
	FindMatches(ctx context.Context, username string, req *dto.MatchRequest, metadata *ClientMetadata) (*dto.FindMatchesResponse, error)
}

// MatchFlowImpl implements the match business flow
type MatchFlowImpl struct {
	matchSvc *matching.Service
	userRepo repository.UserRepository
}

// NewMatchFlow creates a new match flow instance
func NewMatchFlow(matchSvc *matching.Service, userRepo repository.UserRepository) MatchFlow {
	return &MatchFlowImpl{
		matchSvc: matchSvc,
		userRepo: userRepo,
	}
}

// FindMatches ranks opposite-role candidates for the caller. When the
// request carries a tag list, the caller's stored tags are reconciled
// to it through the ordinary mutation path before scoring, so the
// query result and the index never disagree.
func (f *MatchFlowImpl) FindMatches(ctx context.Context, username string, req *dto.MatchRequest, metadata *ClientMetadata) (*dto.FindMatchesResponse, error) {
	if req.Tags != nil {
		var persist matching.PersistFunc
		if f.userRepo != nil {
			persist = f.userRepo.Update
		}
		if _, err := f.matchSvc.SetTags(ctx, username, req.Tags, persist); err != nil {
			if IsUserNotFound(err) {
				return nil, NewBusinessError("USER_NOT_FOUND", "User not found", err)
			}
			return nil, NewBusinessError("TAG_UPDATE_FAILED", "Failed to update tags before matching", err)
		}
	}

	matches, err := f.matchSvc.FindMatches(ctx, username, req.Limit)
	if err != nil {
		switch {
		case IsUserNotFound(err):
			return nil, NewBusinessError("USER_NOT_FOUND", "User not found", err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, NewBusinessError("MATCH_CANCELLED", "Match query cancelled", err)
		default:
			return nil, NewBusinessError("MATCH_FAILED", "Match query failed", err)
		}
	}

	out := make([]dto.MatchDTO, 0, len(matches))
	for i := range matches {
		out = append(out, ToMatchDTO(matches[i]))
	}

	return &dto.FindMatchesResponse{
		Message:  "Matches retrieved",
		Username: username,
		Matches:  out,
	}, nil
}
