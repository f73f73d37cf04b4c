package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"filevault/internal/auth"
	"filevault/internal/http/middleware"
	"filevault/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Token string `json:"token"`
}

type userView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type signupResponse struct {
	Token *auth.TokenPair `json:"token"`
	User  userView        `json:"user"`
}

type tokenResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	svc service.AuthService
	log *slog.Logger
}

// NewAuthHandler constructs an AuthHandler. A nil logger uses slog.Default().
func NewAuthHandler(svc service.AuthService, lg *slog.Logger) *AuthHandler {
	if lg == nil {
		lg = slog.Default()
	}
	return &AuthHandler{svc: svc, log: lg}
}

// Signup registers an account and returns its first token pair.
//
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "credentials"
// @Success 201 {object} signupResponse
// @Failure 400 {object} errorPayload
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	res, err := h.svc.Signup(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(signupResponse{
		Token: res.Tokens,
		User:  userView{ID: res.User.ID, Email: res.User.Email},
	})
}

// Signin exchanges credentials for a token pair.
//
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "credentials"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	pair, err := h.svc.Signin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(tokenResponse{Message: "signed in", AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Refresh rotates a refresh token.
//
// @Summary Rotate refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body refreshRequest true "refresh token"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /auth/signin/new_token [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	pair, err := h.svc.Refresh(c.UserContext(), req.Token)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(tokenResponse{Message: "token refreshed", AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Me echoes the identity carried by the bearer token.
//
// @Summary Current identity
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {object} errorPayload
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	return c.JSON(userResponse{Message: "access granted", User: userView{ID: id.UserID, Email: id.Email}})
}

// Info returns the stored account record.
//
// @Summary Account info
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {object} errorPayload
// @Router /auth/info [get]
func (h *AuthHandler) Info(c *fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	u, err := h.svc.Profile(c.UserContext(), id.UserID)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	created := u.CreatedAt
	return c.JSON(userResponse{Message: "user info", User: userView{ID: u.ID, Email: u.Email, CreatedAt: &created}})
}

// Logout revokes the presented access token and the stored refresh token.
//
// @Summary Sign out
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} messageResponse
// @Failure 401 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	if err := h.svc.Logout(c.UserContext(), middleware.AccessTokenFrom(c), id.UserID); err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(messageResponse{Message: "signed out, tokens revoked"})
}
