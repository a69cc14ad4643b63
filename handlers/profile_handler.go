package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/certainlyMohneeesh/AuthSys/dto"
	"github.com/certainlyMohneeesh/AuthSys/middleware"
	"github.com/certainlyMohneeesh/AuthSys/repository"
	"github.com/certainlyMohneeesh/AuthSys/utils"
	"github.com/certainlyMohneeesh/AuthSys/utils/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProfileHandler serves the authenticated user's profile and avatar.
// The storage client is nil when no bucket is configured; avatar routes
// then answer with 503.
type ProfileHandler struct {
	users   *repository.UserRepository
	storage *storage.Client
}

func NewProfileHandler(users *repository.UserRepository, storageClient *storage.Client) *ProfileHandler {
	return &ProfileHandler{users: users, storage: storageClient}
}

// GetProfile - GET /api/profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	claims, ok := middleware.GetJWTClaims(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "not authenticated", nil)
	}

	user, err := h.users.FindByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "user not found", nil)
		}
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to load profile", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, "profile retrieved", dto.NewUserSummary(*user))
}

// UploadAvatar - PUT /api/profile/avatar
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	if h.storage == nil {
		return utils.JSONError(c, fiber.StatusServiceUnavailable, "avatar storage is not configured", nil)
	}

	claims, ok := middleware.GetJWTClaims(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "not authenticated", nil)
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "avatar file is required", nil)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return utils.JSONError(c, fiber.StatusBadRequest, "only JPG and PNG images are allowed", nil)
	}

	user, err := h.users.FindByID(c.Context(), claims.UserID)
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to load profile", nil)
	}

	key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), ext)
	if _, err := h.storage.UploadFile(c.Context(), fileHeader, key); err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to upload avatar", nil)
	}

	if err := h.users.UpdateAvatarKey(c.Context(), claims.UserID, key); err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to save avatar", nil)
	}

	// Replaced avatars are removed best-effort; a stale object is not
	// worth failing the request over.
	if user.AvatarKey != "" {
		_ = h.storage.DeleteFile(c.Context(), user.AvatarKey)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, "avatar uploaded", fiber.Map{"key": key})
}

// GetAvatar - GET /api/profile/avatar
func (h *ProfileHandler) GetAvatar(c *fiber.Ctx) error {
	if h.storage == nil {
		return utils.JSONError(c, fiber.StatusServiceUnavailable, "avatar storage is not configured", nil)
	}

	claims, ok := middleware.GetJWTClaims(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "not authenticated", nil)
	}

	user, err := h.users.FindByID(c.Context(), claims.UserID)
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to load profile", nil)
	}
	if user.AvatarKey == "" {
		return utils.JSONError(c, fiber.StatusNotFound, "no avatar set", nil)
	}

	url, err := h.storage.GetPresignedURL(c.Context(), user.AvatarKey)
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to generate avatar URL", nil)
	}

	return utils.JSONSuccess(c, fiber.StatusOK, "avatar URL generated", fiber.Map{"url": url})
}
