package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/albertle/networkx/app/dto"
	businessflow "github.com/albertle/networkx/business_flow"
)

// ProfileHandlerInterface defines the contract for profile handlers
type ProfileHandlerInterface interface {
	GetProfile(c fiber.Ctx) error
	UpdateProfile(c fiber.Ctx) error
	SetTags(c fiber.Ctx) error
	AddTag(c fiber.Ctx) error
	RemoveTag(c fiber.Ctx) error
}

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	flow      businessflow.ProfileFlow
	validator *validator.Validate
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(flow businessflow.ProfileFlow) *ProfileHandler {
	return &ProfileHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

func (h *ProfileHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProfileHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetProfile returns any user's public profile by username
// @Summary Get profile
// @Description Retrieve a user's profile by username
// @Tags Profile
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.APIResponse{data=dto.GetProfileResponse} "Profile retrieved successfully"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/profile/{username} [get]
func (h *ProfileHandler) GetProfile(c fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Username is required", "MISSING_USERNAME", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	res, err := h.flow.GetProfile(h.createRequestContext(c, "/api/v1/profile/:username"), username, metadata)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Get profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get profile", "GET_PROFILE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res.User)
}

// UpdateProfile applies a partial update to the authenticated user's profile
// @Summary Update profile
// @Description Update the authenticated user's profile attributes
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateProfileResponse} "Profile updated"
// @Failure 400 {object} dto.APIResponse "Validation error or role field mismatch"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/profile [patch]
// @Security BearerAuth
func (h *ProfileHandler) UpdateProfile(c fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok || username == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Username not found in context", "MISSING_USERNAME", nil)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	res, err := h.flow.UpdateProfile(h.createRequestContext(c, "/api/v1/profile"), username, &req, metadata)
	if err != nil {
		return h.mutationErrorResponse(c, err, "Failed to update profile", "PROFILE_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res.User)
}

// SetTags replaces the authenticated user's full tag set
// @Summary Replace tags
// @Description Replace the authenticated user's tag set
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body dto.UpdateTagsRequest true "New tag set"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateProfileResponse} "Tags updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/profile/tags [put]
// @Security BearerAuth
func (h *ProfileHandler) SetTags(c fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok || username == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Username not found in context", "MISSING_USERNAME", nil)
	}

	var req dto.UpdateTagsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	res, err := h.flow.SetTags(h.createRequestContext(c, "/api/v1/profile/tags"), username, &req, metadata)
	if err != nil {
		return h.mutationErrorResponse(c, err, "Failed to update tags", "TAG_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res.User)
}

// AddTag attaches a single tag to the authenticated user's profile
// @Summary Add tag
// @Description Attach a single tag to the authenticated user's profile
// @Tags Profile
// @Produce json
// @Param tag path string true "Tag to add"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateProfileResponse} "Tag added"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/profile/tags/{tag} [post]
// @Security BearerAuth
func (h *ProfileHandler) AddTag(c fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok || username == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Username not found in context", "MISSING_USERNAME", nil)
	}

	tag := c.Params("tag")
	if tag == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Tag is required", "MISSING_TAG", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	res, err := h.flow.AddTag(h.createRequestContext(c, "/api/v1/profile/tags/:tag"), username, tag, metadata)
	if err != nil {
		return h.mutationErrorResponse(c, err, "Failed to add tag", "TAG_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res.User)
}

// RemoveTag detaches a single tag from the authenticated user's profile
// @Summary Remove tag
// @Description Detach a single tag from the authenticated user's profile
// @Tags Profile
// @Produce json
// @Param tag path string true "Tag to remove"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateProfileResponse} "Tag removed"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/profile/tags/{tag} [delete]
// @Security BearerAuth
func (h *ProfileHandler) RemoveTag(c fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok || username == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Username not found in context", "MISSING_USERNAME", nil)
	}

	tag := c.Params("tag")
	if tag == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Tag is required", "MISSING_TAG", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	res, err := h.flow.RemoveTag(h.createRequestContext(c, "/api/v1/profile/tags/:tag"), username, tag, metadata)
	if err != nil {
		return h.mutationErrorResponse(c, err, "Failed to remove tag", "TAG_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res.User)
}

// mutationErrorResponse maps mutation failures onto HTTP statuses.
// Business validation errors surface as 400s with their own code so
// clients can distinguish them from infrastructure failures.
func (h *ProfileHandler) mutationErrorResponse(c fiber.Ctx, err error, message, fallbackCode string) error {
	if businessflow.IsUserNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
	}

	var businessErr *businessflow.BusinessError
	if errors.As(err, &businessErr) {
		switch businessErr.Code {
		case "ROLE_FIELD_MISMATCH", "INVALID_CONTENT_TYPE", "INVALID_AUDIENCE_SIZE",
			"INVALID_CAMPAIGN_BUDGET", "DUPLICATE_COLLABORATIONS", "DUPLICATE_CAMPAIGN_GOALS":
			return h.ErrorResponse(c, fiber.StatusBadRequest, businessErr.Message, businessErr.Code, nil)
		}
	}

	log.Println(message, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, fallbackCode, nil)
}

func (h *ProfileHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return newRequestContext(c, endpoint, 30*time.Second)
}
