package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"shopcore/app/port"
	custommw "shopcore/app/rest/middleware"
	apperrors "shopcore/app/utils/errors"
)

// ResetHandler handles the password reset flow
type ResetHandler struct {
	resetUsecase port.PasswordResetUsecase
	logger       *slog.Logger
}

// NewResetHandler creates a new reset handler
func NewResetHandler(resetUsecase port.PasswordResetUsecase, logger *slog.Logger) *ResetHandler {
	return &ResetHandler{
		resetUsecase: resetUsecase,
		logger:       logger.With("component", "reset_handler"),
	}
}

// ResetRequestBody is the payload of a reset request
type ResetRequestBody struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetConfirmBody is the payload of a reset confirmation
type ResetConfirmBody struct {
	StaffID     string `json:"staff_id" validate:"required,uuid"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Request handles POST /v1/auth/password-reset. The response is 202 for
// every syntactically valid email, known or not.
func (h *ResetHandler) Request(c echo.Context) error {
	var req ResetRequestBody
	if err := c.Bind(&req); err != nil {
		return apperrors.New(apperrors.KindBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.New(apperrors.KindBadRequest, "a valid email is required")
	}

	tenant := custommw.TenantFrom(c)
	if tenant == nil {
		return apperrors.ErrMissingTenant
	}

	if err := h.resetUsecase.Request(c.Request().Context(), req.Email, tenant.ID); err != nil {
		// The usecase swallows its own failures; anything surfacing here is
		// unexpected, and still must not change the response.
		h.logger.Error("reset request failed", "error", err)
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Confirm handles POST /v1/auth/password-reset/confirm
func (h *ResetHandler) Confirm(c echo.Context) error {
	var req ResetConfirmBody
	if err := c.Bind(&req); err != nil {
		return apperrors.New(apperrors.KindBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.New(apperrors.KindBadRequest, "staff_id, token and new_password are required")
	}

	tenant := custommw.TenantFrom(c)
	if tenant == nil {
		return apperrors.ErrMissingTenant
	}

	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return apperrors.ErrResetToken
	}

	if err := h.resetUsecase.Confirm(c.Request().Context(), staffID, req.Token, req.NewPassword, tenant.ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
