package handlers

import (
	"strings"

	"github.com/certainlyMohneeesh/AuthSys/dto"
	"github.com/certainlyMohneeesh/AuthSys/services"
	"github.com/certainlyMohneeesh/AuthSys/utils"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler exposes the internal triggers for best-effort
// account emails. Responses are generic whether or not the account
// exists, and a failed send never changes the status code.
type NotificationHandler struct {
	auth *services.AuthService
}

func NewNotificationHandler(auth *services.AuthService) *NotificationHandler {
	return &NotificationHandler{auth: auth}
}

// SendWelcomeEmail - POST /auth/send-welcome-email
func (h *NotificationHandler) SendWelcomeEmail(c *fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "validation error", validationErrors)
	}

	if err := h.auth.NotifyWelcome(c.Context(), strings.TrimSpace(req.Email)); err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to process your request", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, "welcome email will be sent if the account exists", nil)
}

// SendLoginNotification - POST /auth/send-login-notification
func (h *NotificationHandler) SendLoginNotification(c *fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "validation error", validationErrors)
	}

	if err := h.auth.NotifyLogin(c.Context(), strings.TrimSpace(req.Email)); err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to process your request", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, "notification will be sent if the account exists", nil)
}
