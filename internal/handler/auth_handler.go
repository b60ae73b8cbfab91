package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"leadsmanager/internal/auth"
	"leadsmanager/internal/errors"
	"leadsmanager/internal/model"
	"leadsmanager/internal/service"
)

// AuthHandler handles registration, token and current-user endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request. The field is named
// hashed_password for wire compatibility with existing clients; the value is
// the plaintext password and is hashed server-side.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"hashed_password" validate:"required"`
}

// TokenResponse represents an issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterResponse represents a successful registration: the created user
// together with a token, so clients can skip a separate login round trip.
type RegisterResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} map[string]string
// @Router /users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("invalid request body", "BAD_REQUEST"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrEmailTaken {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("Email already in use", "EMAIL_TAKEN"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.New("failed to register user", "REGISTRATION_FAILED"))
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.New("failed to issue token", "TOKEN_FAILED"))
	}

	return c.JSON(http.StatusOK, RegisterResponse{
		User:        user,
		AccessToken: token,
		TokenType:   auth.TokenType,
	})
}

// Token godoc
// @Summary Issue a bearer token for valid credentials
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	// OAuth2 password flow: form-encoded username/password where the
	// username carries the email.
	email := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.authService.Login(c.Request().Context(), email, password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.New("Incorrect username or password", "INVALID_CREDENTIALS"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.New("failed to authenticate", "LOGIN_FAILED"))
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.New("failed to issue token", "TOKEN_FAILED"))
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
	})
}

// Me godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
