package routes

import (
	"github.com/certainlyMohneeesh/AuthSys/handlers"
	"github.com/certainlyMohneeesh/AuthSys/middleware"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	PasswordReset *handlers.PasswordResetHandler
	Notification  *handlers.NotificationHandler
	Profile       *handlers.ProfileHandler
}

func Register(app *fiber.App, h Handlers) {
	// Auth
	auth := app.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// Password reset flow: request code -> verify code -> set password
	auth.Post("/forgot-password", h.PasswordReset.ForgotPassword)
	auth.Post("/verify-otp", h.PasswordReset.VerifyOTP)
	auth.Post("/reset-password", h.PasswordReset.ResetPassword)

	// Internal notification triggers
	auth.Post("/send-welcome-email", h.Notification.SendWelcomeEmail)
	auth.Post("/send-login-notification", h.Notification.SendLoginNotification)

	// Profile (requires Bearer token)
	profile := app.Group("/api/profile", middleware.RequireAuth())
	profile.Get("/", h.Profile.GetProfile)
	profile.Put("/avatar", h.Profile.UploadAvatar)
	profile.Get("/avatar", h.Profile.GetAvatar)
}
