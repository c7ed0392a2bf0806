package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edufin/finboard-backend/internal/middleware"
	"github.com/edufin/finboard-backend/internal/model"
	"github.com/edufin/finboard-backend/internal/repository"
	"github.com/edufin/finboard-backend/internal/response"
	"github.com/edufin/finboard-backend/internal/service"
	"github.com/edufin/finboard-backend/internal/validator"
)

// AuthHandler handles login, logout and the current-user lookup.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, log: log}
}

// Login godoc
// POST /api/auth/login
// Exchanges username/password for a bearer token and the user profile.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		h.log.Error().Err(err).Msg("Login user lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if err := h.authService.CheckPassword(user.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		h.log.Error().Err(err).Msg("Token generation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, model.LoginData{Token: token, User: user})
}

// Logout godoc
// POST /api/auth/logout
// Revokes the presented token for its remaining lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.RevokeToken(c.Request.Context(), claims); err != nil {
		h.log.Error().Err(err).Msg("Token revocation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, nil)
}

// CurrentUser godoc
// GET /api/auth/current-user
// Returns the authenticated user's profile.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Current user lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, user)
}
