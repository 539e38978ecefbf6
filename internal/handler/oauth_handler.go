package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"carteira/internal/cache"
	apperrors "carteira/internal/errors"
	"carteira/internal/model"
	"carteira/internal/oauth"
	"carteira/internal/service"
)

const (
	oauthStateTTL       = 10 * time.Minute
	oauthStateKeyPrefix = "oauth_state:"
)

// OAuthHandler handles social login endpoints.
type OAuthHandler struct {
	registry    *oauth.Registry
	authService service.AuthService
	cache       *cache.Client
	devMode     bool
}

// NewOAuthHandler creates a new OAuth handler.
func NewOAuthHandler(registry *oauth.Registry, authService service.AuthService, cache *cache.Client, devMode bool) *OAuthHandler {
	return &OAuthHandler{
		registry:    registry,
		authService: authService,
		cache:       cache,
		devMode:     devMode,
	}
}

// OAuthTokenResponse is returned after a successful social login.
type OAuthTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Provider    string `json:"provider"`
}

// Status godoc
// @Summary Report which providers are configured
// @Tags oauth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /oauth/status [get]
func (h *OAuthHandler) Status(c echo.Context) error {
	status := echo.Map{}
	for _, name := range h.registry.Names() {
		p, _ := h.registry.Get(name)
		status[name] = echo.Map{
			"configured": p.Configured(),
			"dev_mode":   h.devMode,
		}
	}
	return c.JSON(http.StatusOK, status)
}

// Login godoc
// @Summary Redirect to the provider's consent page
// @Tags oauth
// @Param provider path string true "Provider (google or facebook)"
// @Success 307
// @Failure 404 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /oauth/{provider}/login [get]
func (h *OAuthHandler) Login(c echo.Context) error {
	provider, ok := h.registry.Get(c.Param("provider"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
			Error: "unknown provider",
			Code:  "UNKNOWN_PROVIDER",
		})
	}
	if !provider.Configured() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, apperrors.ErrorResponse{
			Error: "provider not configured",
			Code:  "PROVIDER_NOT_CONFIGURED",
		})
	}

	// One-shot nonce binds the callback to this redirect.
	state := uuid.New().String()
	_ = h.cache.Set(c.Request().Context(), oauthStateKeyPrefix+state, []byte(c.Param("provider")), oauthStateTTL)

	return c.Redirect(http.StatusTemporaryRedirect, provider.AuthCodeURL(state))
}

// Callback godoc
// @Summary Handle the provider redirect and issue a token
// @Tags oauth
// @Produce json
// @Param provider path string true "Provider (google or facebook)"
// @Param code query string true "Authorization code"
// @Param state query string true "State nonce"
// @Success 200 {object} OAuthTokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /oauth/{provider}/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	provider, ok := h.registry.Get(c.Param("provider"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
			Error: "unknown provider",
			Code:  "UNKNOWN_PROVIDER",
		})
	}

	state := c.QueryParam("state")
	stored, _ := h.cache.GetDel(c.Request().Context(), oauthStateKeyPrefix+state)
	if state == "" || string(stored) != c.Param("provider") {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid or expired state",
			Code:  "INVALID_OAUTH_STATE",
		})
	}

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "missing authorization code",
			Code:  "INVALID_REQUEST",
		})
	}

	info, err := provider.Exchange(c.Request().Context(), code)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "authorization code exchange failed",
			Code:  "OAUTH_EXCHANGE_FAILED",
		})
	}

	return h.issueToken(c, service.OAuthUserInfo{
		Email:    info.Email,
		Picture:  info.Picture,
		Provider: info.Provider,
	})
}

// DemoLogin godoc
// @Summary Simulate a social login without a provider roundtrip (dev mode only)
// @Tags oauth
// @Produce json
// @Param provider query string false "Provider (google or facebook)"
// @Success 200 {object} OAuthTokenResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /oauth/demo-login [get]
func (h *OAuthHandler) DemoLogin(c echo.Context) error {
	if !h.devMode {
		return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
			Error: "demo login is only available in development mode",
			Code:  "FORBIDDEN",
		})
	}

	provider := model.ProviderGoogle
	if c.QueryParam("provider") == "facebook" {
		provider = model.ProviderFacebook
	}

	return h.issueToken(c, service.OAuthUserInfo{
		Email:    "usuario.teste@exemplo.com",
		Picture:  "https://ui-avatars.com/api/?name=Usuario+Teste&background=random",
		Provider: provider,
	})
}

func (h *OAuthHandler) issueToken(c echo.Context, info service.OAuthUserInfo) error {
	token, user, err := h.authService.AuthenticateOAuth(c.Request().Context(), info)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, OAuthTokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID.String(),
		Email:       user.Email,
		Provider:    string(user.AuthProvider),
	})
}
