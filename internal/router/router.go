package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"carteira/internal/auth"
	"carteira/internal/config"
	"carteira/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	mfaHandler *handler.MFAHandler,
	oauthHandler *handler.OAuthHandler,
	userHandler *handler.UserHandler,
	documentHandler *handler.DocumentHandler,
	transportHandler *handler.TransportHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/login-first-step", authHandler.LoginFirstStep)
	api.POST("/auth/mfa/login", authHandler.LoginWithMFA)

	api.GET("/oauth/status", oauthHandler.Status)
	api.GET("/oauth/demo-login", oauthHandler.DemoLogin)
	api.GET("/oauth/:provider/login", oauthHandler.Login)
	api.GET("/oauth/:provider/callback", oauthHandler.Callback)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.POST("/auth/mfa/setup", mfaHandler.Setup)
	secured.POST("/auth/mfa/verify", mfaHandler.Verify)
	secured.POST("/auth/mfa/disable", mfaHandler.Disable)
	secured.GET("/auth/check-mfa", mfaHandler.Status)

	secured.GET("/users/me", userHandler.Me)
	secured.DELETE("/users/me", userHandler.DeleteMe)

	secured.POST("/documents", documentHandler.Create)
	secured.GET("/documents", documentHandler.List)
	secured.GET("/documents/:id", documentHandler.Get)
	secured.GET("/documents/:id/download", documentHandler.Download)
	secured.DELETE("/documents/:id", documentHandler.Delete)

	secured.GET("/transport/card/balance", transportHandler.GetBalance)
	secured.POST("/transport/card/recharge", transportHandler.Recharge)
	secured.POST("/transport/card/charge", transportHandler.Charge)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
