package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"shopcore/app/domain"
	"shopcore/app/port"
	custommw "shopcore/app/rest/middleware"
	apperrors "shopcore/app/utils/errors"
)

// CustomerHandler exposes the conditional-read/conditional-write customer
// resource.
type CustomerHandler struct {
	customerUsecase port.CustomerUsecase
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerUsecase port.CustomerUsecase, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerUsecase: customerUsecase,
		logger:          logger.With("component", "customer_handler"),
	}
}

// UpdateCustomerRequest is the PATCH payload; absent fields stay untouched
type UpdateCustomerRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

// Get handles GET /v1/customers/:id
func (h *CustomerHandler) Get(c echo.Context) error {
	tenant := custommw.TenantFrom(c)
	if tenant == nil {
		return apperrors.ErrMissingTenant
	}

	id, err := customerID(c)
	if err != nil {
		return err
	}

	customer, tag, err := h.customerUsecase.Get(c.Request().Context(), tenant.ID, id)
	if err != nil {
		return err
	}

	c.Response().Header().Set("ETag", tag)

	if c.Request().Header.Get("If-None-Match") == tag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.JSON(http.StatusOK, customer)
}

// Update handles PATCH /v1/customers/:id. The If-Match header is mandatory;
// the write only lands if the tag still matches inside the transaction.
func (h *CustomerHandler) Update(c echo.Context) error {
	tenant := custommw.TenantFrom(c)
	if tenant == nil {
		return apperrors.ErrMissingTenant
	}

	id, err := customerID(c)
	if err != nil {
		return err
	}

	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.New(apperrors.KindBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.New(apperrors.KindBadRequest, "invalid customer fields")
	}

	updates := domain.CustomerUpdates{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}

	ifMatch := c.Request().Header.Get("If-Match")

	newTag, err := h.customerUsecase.Update(c.Request().Context(), tenant.ID, id, updates, ifMatch)
	if err != nil {
		return err
	}

	c.Response().Header().Set("ETag", newTag)
	return c.NoContent(http.StatusNoContent)
}

// customerID validates the :id path param before it reaches storage. The id
// column is a uuid; a malformed value can only ever name nothing, so it is a
// plain not-found, never a storage error.
func customerID(c echo.Context) (string, error) {
	raw := c.Param("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", domain.ErrEntityNotFound
	}
	return raw, nil
}
