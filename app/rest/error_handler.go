package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopcore/app/domain"
	apperrors "shopcore/app/utils/errors"
	"shopcore/app/utils/metrics"
)

// NewHTTPErrorHandler builds the router's error handler. Every failure leaves
// the service as the same envelope shape: kind, message and, on concurrency
// conflicts only, the entity's current tag.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := toAppError(err)

		if appErr.Kind == apperrors.KindInternal {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err)
		}

		if writeErr := c.JSON(appErr.StatusCode, appErr); writeErr != nil {
			logger.Error("failed to write error response", "error", writeErr)
		}
	}
}

// toAppError maps domain errors and router errors onto the envelope. Unknown
// errors become opaque internals; their detail goes to the log, never to the
// client.
func toAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	var precondition *domain.PreconditionError
	if errors.As(err, &precondition) {
		metrics.PreconditionConflictsTotal.Inc()
		return apperrors.NewConflict(precondition.CurrentTag)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fromHTTPError(httpErr)
	}

	switch {
	case errors.Is(err, domain.ErrMissingTenantContext):
		return apperrors.ErrMissingTenant
	case errors.Is(err, domain.ErrTenantNotFound):
		return apperrors.ErrUnknownTenant
	case errors.Is(err, domain.ErrTenantMismatch):
		return apperrors.ErrTenantMismatch
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrRefreshReuse),
		errors.Is(err, domain.ErrChainRevoked):
		return apperrors.ErrUnauthenticated
	case errors.Is(err, domain.ErrInsufficientRole),
		errors.Is(err, domain.ErrMembershipNotFound),
		errors.Is(err, domain.ErrUnknownRole):
		return apperrors.ErrInsufficientRole
	case errors.Is(err, domain.ErrCSRFTokenRequired),
		errors.Is(err, domain.ErrCSRFTokenMismatch):
		return apperrors.ErrCSRF
	case errors.Is(err, domain.ErrPreconditionMissing):
		return apperrors.NewPreconditionMissing()
	case errors.Is(err, domain.ErrEntityNotFound):
		return apperrors.NewNotFound("entity")
	case errors.Is(err, domain.ErrStaffNotFound):
		return apperrors.NewNotFound("staff")
	case errors.Is(err, domain.ErrResetTokenInvalid):
		return apperrors.ErrResetToken
	default:
		return apperrors.NewInternal(err)
	}
}

func fromHTTPError(httpErr *echo.HTTPError) *apperrors.AppError {
	message, ok := httpErr.Message.(string)
	if !ok {
		message = http.StatusText(httpErr.Code)
	}

	var appErr *apperrors.AppError
	switch httpErr.Code {
	case http.StatusNotFound:
		appErr = apperrors.New(apperrors.KindNotFound, message)
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusRequestEntityTooLarge:
		appErr = apperrors.New(apperrors.KindBadRequest, message)
	case http.StatusUnauthorized:
		appErr = apperrors.New(apperrors.KindUnauthorized, message)
	case http.StatusForbidden:
		appErr = apperrors.New(apperrors.KindForbidden, message)
	case http.StatusTooManyRequests:
		appErr = apperrors.New(apperrors.KindTooMany, message)
	default:
		appErr = apperrors.New(apperrors.KindInternal, http.StatusText(httpErr.Code))
	}

	// Keep the router's original status even when the kind is broader.
	appErr.StatusCode = httpErr.Code
	return appErr
}
