package services

import (
	"context"

	"github.com/certainlyMohneeesh/AuthSys/models"
	"github.com/certainlyMohneeesh/AuthSys/utils/events"
)

// UserStore is the slice of user persistence the services need. The
// GORM implementation lives in the repository package; tests use an
// in-memory fake.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, userID uint, hash string) error
}

// ResetStore holds the per-user single reset slot.
type ResetStore interface {
	Upsert(ctx context.Context, record *models.PasswordReset) error
	FindByUserID(ctx context.Context, userID uint) (*models.PasswordReset, error)
	MarkVerified(ctx context.Context, userID uint, oldToken, verifiedToken string) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

// Hasher is the one-way digest used for passwords and reset codes.
// Check never errors on mismatch, it only returns false.
type Hasher interface {
	Hash(plain string) (string, error)
	Check(hashed, plain string) bool
}

// TokenSource produces the two secrets of the reset flow.
type TokenSource interface {
	OTP() (string, error)
	Token() (string, error)
}

// ResetMailer is the hard-dependency send: failure aborts the request.
type ResetMailer interface {
	SendResetCodeEmail(toEmail, otp string) error
}

// EventPublisher dispatches best-effort notification events.
type EventPublisher interface {
	Publish(event events.AuthEvent)
}
