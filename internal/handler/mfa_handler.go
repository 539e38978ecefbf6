package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "carteira/internal/errors"
	"carteira/internal/service"
)

// MFAHandler handles MFA enrollment endpoints. All routes require a token.
type MFAHandler struct {
	authService service.AuthService
}

// NewMFAHandler creates a new MFA handler.
func NewMFAHandler(authService service.AuthService) *MFAHandler {
	return &MFAHandler{authService: authService}
}

// MFASetupResponse carries enrollment material for an authenticator app.
type MFASetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCode          string `json:"qr_code"`
}

// MFAVerifyRequest carries a TOTP code to verify.
type MFAVerifyRequest struct {
	Code string `json:"code" validate:"required"`
}

// MFAVerifyResponse reports the verification outcome.
type MFAVerifyResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// Setup godoc
// @Summary Begin MFA enrollment
// @Tags mfa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MFASetupResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/mfa/setup [post]
func (h *MFAHandler) Setup(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	setup, err := h.authService.SetupMFA(c.Request().Context(), userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, MFASetupResponse{
		Secret:          setup.Secret,
		ProvisioningURI: setup.ProvisioningURI,
		QRCode:          setup.QRCode,
	})
}

// Verify godoc
// @Summary Verify a TOTP code, enabling MFA on first success
// @Tags mfa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MFAVerifyRequest true "TOTP code"
// @Success 200 {object} MFAVerifyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/mfa/verify [post]
func (h *MFAHandler) Verify(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req MFAVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	verified, err := h.authService.VerifyMFA(c.Request().Context(), userID, req.Code)
	if err != nil {
		// A bad code during enrollment is a 400, not a 401: the caller is
		// already authenticated, the code itself is the invalid input.
		if err == apperrors.ErrInvalidMFACode {
			return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_MFA_CODE",
			})
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, MFAVerifyResponse{
		Verified: verified,
		Message:  "MFA code verified",
	})
}

// Disable godoc
// @Summary Disable MFA and clear the enrolled secret
// @Tags mfa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/mfa/disable [post]
func (h *MFAHandler) Disable(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.authService.DisableMFA(c.Request().Context(), userID); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "MFA disabled successfully",
	})
}

// Status godoc
// @Summary Report whether MFA is enabled for the current user
// @Tags mfa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/check-mfa [get]
func (h *MFAHandler) Status(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	enabled, err := h.authService.MFAStatus(c.Request().Context(), userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]bool{"mfa_enabled": enabled})
}
