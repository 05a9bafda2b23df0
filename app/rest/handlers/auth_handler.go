package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"shopcore/app/domain"
	"shopcore/app/port"
	custommw "shopcore/app/rest/middleware"
	apperrors "shopcore/app/utils/errors"
	"shopcore/app/utils/metrics"
)

// CookieConfig holds the attributes shared by all session cookies
type CookieConfig struct {
	Domain string
	Secure bool
}

// AuthHandler handles login, refresh and logout
type AuthHandler struct {
	authUsecase port.AuthUsecase
	cookies     CookieConfig
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase port.AuthUsecase, cookies CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		cookies:     cookies,
		logger:      logger.With("component", "auth_handler"),
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SessionResponse reports session lifetimes. Token values travel only in
// cookies; the one exception is the anti-forgery value, which the client must
// be able to read to echo it back as a header.
type SessionResponse struct {
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	CSRFToken        string    `json:"csrf_token,omitempty"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.New(apperrors.KindBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.New(apperrors.KindBadRequest, "email and password are required")
	}

	tenant := custommw.TenantFrom(c)
	if tenant == nil {
		return apperrors.ErrMissingTenant
	}

	pair, csrf, err := h.authUsecase.Login(c.Request().Context(), req.Email, req.Password, tenant.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
			return apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
		}
		return err
	}

	h.setSessionCookies(c, pair)
	h.setCSRFCookie(c, csrf)

	return c.JSON(http.StatusOK, SessionResponse{
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		CSRFToken:        csrf.Token,
	})
}

// Refresh handles POST /v1/auth/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := h.extractRefreshToken(c)
	if refreshToken == "" {
		metrics.RefreshRotationsTotal.WithLabelValues("missing").Inc()
		return apperrors.ErrUnauthenticated
	}

	pair, err := h.authUsecase.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		h.clearSessionCookies(c)

		switch {
		case errors.Is(err, domain.ErrRefreshReuse):
			metrics.RefreshRotationsTotal.WithLabelValues("replayed").Inc()
		case errors.Is(err, domain.ErrChainRevoked):
			metrics.RefreshRotationsTotal.WithLabelValues("revoked").Inc()
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.RefreshRotationsTotal.WithLabelValues("expired").Inc()
		case errors.Is(err, domain.ErrUnauthenticated):
			metrics.RefreshRotationsTotal.WithLabelValues("unknown").Inc()
		default:
			return err
		}

		return apperrors.ErrUnauthenticated
	}

	metrics.RefreshRotationsTotal.WithLabelValues("rotated").Inc()
	h.setSessionCookies(c, pair)

	return c.JSON(http.StatusOK, SessionResponse{
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	principal := custommw.PrincipalFrom(c)
	if principal == nil {
		return apperrors.ErrUnauthenticated
	}

	if err := h.authUsecase.Logout(c.Request().Context(), principal); err != nil {
		return err
	}

	h.clearSessionCookies(c)

	return c.NoContent(http.StatusNoContent)
}

// extractRefreshToken reads the refresh token from its cookie, falling back
// to the request body for non-browser clients.
func (h *AuthHandler) extractRefreshToken(c echo.Context) string {
	if cookie, err := c.Cookie(custommw.CookieRefreshToken); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err == nil {
		return body.RefreshToken
	}

	return ""
}

func (h *AuthHandler) setSessionCookies(c echo.Context, pair *domain.TokenPair) {
	c.SetCookie(&http.Cookie{
		Name:     custommw.CookieAccessToken,
		Value:    pair.AccessToken,
		Path:     "/",
		Domain:   h.cookies.Domain,
		Expires:  pair.AccessExpiresAt,
		Secure:   h.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	// The refresh token is only ever sent to the exchange endpoints.
	c.SetCookie(&http.Cookie{
		Name:     custommw.CookieRefreshToken,
		Value:    pair.RefreshToken,
		Path:     "/v1/auth",
		Domain:   h.cookies.Domain,
		Expires:  pair.RefreshExpiresAt,
		Secure:   h.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// setCSRFCookie writes the readable half of the double-submit pair. HttpOnly
// is deliberately off: the client script has to read this value to echo it in
// the X-CSRF-Token header.
func (h *AuthHandler) setCSRFCookie(c echo.Context, csrf *domain.AntiForgeryToken) {
	c.SetCookie(&http.Cookie{
		Name:     custommw.CookieCSRFToken,
		Value:    csrf.Token,
		Path:     "/",
		Domain:   h.cookies.Domain,
		Expires:  csrf.ExpiresAt,
		Secure:   h.cookies.Secure,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	expired := time.Unix(0, 0)

	for _, spec := range []struct {
		name string
		path string
	}{
		{custommw.CookieAccessToken, "/"},
		{custommw.CookieRefreshToken, "/v1/auth"},
		{custommw.CookieCSRFToken, "/"},
	} {
		c.SetCookie(&http.Cookie{
			Name:     spec.name,
			Value:    "",
			Path:     spec.path,
			Domain:   h.cookies.Domain,
			Expires:  expired,
			MaxAge:   -1,
			Secure:   h.cookies.Secure,
			HttpOnly: spec.name != custommw.CookieCSRFToken,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
