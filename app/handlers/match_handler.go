package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/albertle/networkx/app/dto"
	businessflow "github.com/albertle/networkx/business_flow"
)

// MatchHandlerInterface defines the contract for match handlers
type MatchHandlerInterface interface {
	FindMatches(c fiber.Ctx) error
}

// MatchHandler handles compatibility query HTTP requests
type MatchHandler struct {
	flow      businessflow.MatchFlow
	validator *validator.Validate
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(flow businessflow.MatchFlow) *MatchHandler {
	return &MatchHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

func (h *MatchHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *MatchHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// FindMatches ranks opposite-role candidates for the authenticated user
// @Summary Find matches
// @Description Rank opposite-role profiles by compatibility score. An optional tag list replaces the caller's stored tags before scoring.
// @Tags Match
// @Accept json
// @Produce json
// @Param request body dto.MatchRequest true "Match query"
// @Success 200 {object} dto.APIResponse{data=dto.FindMatchesResponse} "Matches retrieved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/match [post]
// @Security BearerAuth
func (h *MatchHandler) FindMatches(c fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok || username == "" {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Username not found in context", "MISSING_USERNAME", nil)
	}

	var req dto.MatchRequest
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

	res, err := h.flow.FindMatches(h.createRequestContext(c, "/api/v1/match"), username, &req, metadata)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Match query failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Match query failed", "MATCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, fiber.Map{
		"username": res.Username,
		"matches":  res.Matches,
	})
}

func (h *MatchHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return newRequestContext(c, endpoint, 30*time.Second)
}
