package handlers

import (
	"errors"
	"strings"

	"github.com/certainlyMohneeesh/AuthSys/dto"
	"github.com/certainlyMohneeesh/AuthSys/services"
	"github.com/certainlyMohneeesh/AuthSys/utils"

	"github.com/gofiber/fiber/v2"
)

// genericResetMessage is returned whether or not the email has an
// account, so the endpoint cannot be used to enumerate users.
const genericResetMessage = "If an account with that email exists, we've sent a reset code"

type PasswordResetHandler struct {
	resets *services.ResetService
}

func NewPasswordResetHandler(resets *services.ResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets}
}

// ForgotPassword - POST /auth/forgot-password
func (h *PasswordResetHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "validation error", validationErrors)
	}

	if err := h.resets.RequestReset(c.Context(), strings.TrimSpace(req.Email)); err != nil {
		// The code email is a hard dependency; everything else is
		// hidden behind the generic message.
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to process your request", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, genericResetMessage, nil)
}

// VerifyOTP - POST /auth/verify-otp
func (h *PasswordResetHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "validation error", validationErrors)
	}

	token, err := h.resets.VerifyOTP(c.Context(), strings.TrimSpace(req.Email), req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOTPExpired):
			return utils.JSONError(c, fiber.StatusBadRequest, "otp has expired", nil)
		case errors.Is(err, services.ErrResetNotFound), errors.Is(err, services.ErrOTPInvalid):
			// Missing user, missing record and wrong code all look the
			// same from outside.
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid or expired otp", nil)
		}
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to verify otp", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, "otp verified successfully", dto.VerifyOTPResponse{Token: token})
}

// ResetPassword - POST /auth/reset-password
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "validation error", validationErrors)
	}

	err := h.resets.ResetPassword(c.Context(), strings.TrimSpace(req.Email), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return utils.JSONError(c, fiber.StatusNotFound, "user not found", nil)
		case errors.Is(err, services.ErrResetInvalid):
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid or expired token", nil)
		case isPasswordPolicyError(err):
			return utils.JSONError(c, fiber.StatusBadRequest, err.Error(), nil)
		}
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to reset password", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, "password reset successful", nil)
}
