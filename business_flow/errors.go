// Package businessflow contains the core business logic and use cases for the marketplace workflows
package businessflow

import (
	"errors"
	"fmt"

	"github.com/albertle/networkx/matching"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound      = matching.ErrNotFound
	ErrUsernameTaken     = matching.ErrConflict
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidRole       = errors.New("role must be creator or sponsor")
	ErrRoleFieldMismatch = errors.New("role-specific fields do not match the selected role")
	ErrNotProfileOwner   = errors.New("profile can only be modified by its owner")

	// Creator profile errors
	ErrInvalidContentType      = errors.New("invalid content type")
	ErrNegativeAudienceSize    = errors.New("audience size must be non-negative")
	ErrDuplicateCollaborations = errors.New("previous collaborations must not contain duplicates")

	// Sponsor profile errors
	ErrNegativeCampaignBudget = errors.New("campaign budget must be non-negative")
	ErrDuplicateCampaignGoals = errors.New("campaign goals must not contain duplicates")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsUsernameTaken(err error) bool {
	return errors.Is(err, ErrUsernameTaken)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}
