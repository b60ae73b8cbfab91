package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"leadsmanager/internal/auth"
	"leadsmanager/internal/config"
	"leadsmanager/internal/errors"
	"leadsmanager/internal/handler"
	"leadsmanager/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	leadHandler *handler.LeadHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Awesome Leads Manager"})
	})

	// Public routes
	api.POST("/users", authHandler.Register)
	api.POST("/token", authHandler.Token)

	// Secured routes (require bearer token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		// Missing, malformed and badly signed tokens all surface through the
		// same error envelope as the rest of the API.
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.New("could not validate credentials", "UNAUTHORIZED"))
		},
	}), resolveCurrentUser(authService))

	secured.GET("/users/me", authHandler.Me)

	secured.POST("/leads", leadHandler.CreateLead)
	secured.GET("/leads", leadHandler.ListLeads)
	secured.GET("/leads/:id", leadHandler.GetLead)
	secured.PUT("/leads/:id", leadHandler.UpdateLead)
	secured.DELETE("/leads/:id", leadHandler.DeleteLead)
}

// resolveCurrentUser runs after the JWT middleware has verified the signature.
// It loads the user encoded in the claims from the store, so a token for a
// deleted user is rejected like any other invalid token.
func resolveCurrentUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.New("could not validate credentials", "UNAUTHORIZED"))
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.New("could not validate credentials", "UNAUTHORIZED"))
			}

			user, err := authService.ResolveUser(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.New("could not validate credentials", "UNAUTHORIZED"))
			}

			handler.SetCurrentUser(c, user)
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
