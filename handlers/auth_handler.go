package handlers

import (
	"errors"
	"strings"

	"github.com/certainlyMohneeesh/AuthSys/dto"
	"github.com/certainlyMohneeesh/AuthSys/services"
	"github.com/certainlyMohneeesh/AuthSys/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register - POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "validation error", validationErrors)
	}

	user, err := h.auth.Register(c.Context(), strings.TrimSpace(req.Username), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return utils.JSONError(c, fiber.StatusBadRequest, "email already in use", nil)
		case errors.Is(err, services.ErrUsernameTaken):
			return utils.JSONError(c, fiber.StatusBadRequest, "username already taken", nil)
		case errors.Is(err, services.ErrInvalidUsername):
			return utils.JSONError(c, fiber.StatusBadRequest, err.Error(), nil)
		case isPasswordPolicyError(err):
			return utils.JSONError(c, fiber.StatusBadRequest, err.Error(), nil)
		}
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to create user", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusCreated, "user created successfully", dto.NewRegisterResponse(*user))
}

// Login - POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "validation error", validationErrors)
	}

	user, err := h.auth.Authorize(c.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid email or password", nil)
		}
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to sign in", nil)
	}

	accessToken, claims, err := utils.GenerateAccessToken(*user)
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to issue token", nil)
	}
	refreshToken, _, err := utils.GenerateRefreshToken(*user)
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to issue token", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, "signed in", dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    claims.ExpiresAt.Time,
		User:         dto.NewUserSummary(*user),
	})
}

// Refresh - POST /auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	claims, err := utils.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return utils.JSONError(c, fiber.StatusUnauthorized, "invalid or expired refresh token", nil)
	}

	user, err := h.auth.FindByID(c.Context(), claims.UserID)
	if err != nil {
		return utils.JSONError(c, fiber.StatusUnauthorized, "invalid or expired refresh token", nil)
	}

	accessToken, accessClaims, err := utils.GenerateAccessToken(*user)
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to issue token", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, "token refreshed", dto.RefreshTokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   accessClaims.ExpiresAt.Time,
	})
}

func isPasswordPolicyError(err error) bool {
	return errors.Is(err, utils.ErrPasswordTooShort) ||
		errors.Is(err, utils.ErrPasswordNoUpper) ||
		errors.Is(err, utils.ErrPasswordNoLower) ||
		errors.Is(err, utils.ErrPasswordNoDigit)
}
