package businessflow

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/albertle/networkx/app/dto"
	"github.com/albertle/networkx/app/services"
	"github.com/albertle/networkx/matching"
	"github.com/albertle/networkx/utils"
)

// LoginFlow handles credential verification and token lifecycle
type LoginFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest, metadata *ClientMetadata) (*dto.RefreshResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	matchSvc     *matching.Service
	tokenService services.TokenService
	sessions     *services.SessionStore
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(matchSvc *matching.Service, tokenService services.TokenService, sessions *services.SessionStore) LoginFlow {
	return &LoginFlowImpl{
		matchSvc:     matchSvc,
		tokenService: tokenService,
		sessions:     sessions,
	}
}

// Login verifies the password against the stored bcrypt hash and issues
// a fresh token pair. Unknown usernames and wrong passwords produce the
// same client-facing error code so the endpoint cannot be used to probe
// which usernames exist.
func (f *LoginFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	user, err := f.matchSvc.Get(req.Username)
	if err != nil {
		if IsUserNotFound(err) {
			return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid username or password", ErrIncorrectPassword)
		}
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid username or password", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := f.tokenService.GenerateTokens(user.Username)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate session tokens", err)
	}

	if claims, err := f.tokenService.ValidateToken(accessToken); err == nil {
		ttl := claims.ExpiresAt.Sub(claims.IssuedAt)
		_ = f.sessions.RecordSession(ctx, user.Username, claims.TokenID, ttl)
	}

	return &dto.LoginResponse{
		Message: "Login successful",
		User:    ToUserDTO(user),
		Session: dto.SessionDTO{
			Token:        accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The
// used refresh token is revoked so it cannot be replayed.
func (f *LoginFlowImpl) Refresh(ctx context.Context, req *dto.RefreshRequest, metadata *ClientMetadata) (*dto.RefreshResponse, error) {
	accessToken, refreshToken, err := f.tokenService.RefreshToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Failed to refresh session", err)
	}

	return &dto.RefreshResponse{
		Message: "Token refreshed",
		Session: dto.SessionDTO{
			Token:        accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}
