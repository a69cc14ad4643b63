package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPasswordResetExpired  = errors.New("password reset expired")
	ErrPasswordResetNotOpen  = errors.New("password reset not awaiting otp")
	ErrPasswordResetNotReady = errors.New("password reset not verified")
)

// PasswordResetTTL is how long a reset code stays valid after it is issued.
const PasswordResetTTL = 15 * time.Minute

type ResetState string

const (
	// ResetStatePending means a code was issued and not yet verified.
	ResetStatePending ResetState = "pending"
	// ResetStateVerified means the code was consumed and ResetToken now
	// holds the token authorizing the final password change.
	ResetStateVerified ResetState = "verified"
)

// PasswordReset is the single reset slot a user can hold. A new request
// overwrites the slot, superseding any flow still in flight.
type PasswordReset struct {
	gorm.Model
	UserID uint       `gorm:"not null;uniqueIndex"`
	State  ResetState `gorm:"type:enum('pending','verified');not null;default:'pending'"`
	// ResetToken is an opaque hex handle. While pending it correlates the
	// record with the request; after verification it is replaced with a
	// fresh value that the caller must present to change the password.
	ResetToken string `gorm:"type:varchar(64);not null"`
	// OtpHash is the bcrypt digest of the emailed code. Cleared on
	// verification; the plaintext code is never stored.
	OtpHash   string    `gorm:"type:varchar(255)"`
	ExpiresAt time.Time `gorm:"not null"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

func (r PasswordReset) IsExpired(reference time.Time) bool {
	if reference.IsZero() {
		reference = time.Now()
	}
	return !reference.Before(r.ExpiresAt)
}

// ValidatePending checks that the record can accept an OTP attempt.
func (r PasswordReset) ValidatePending(reference time.Time) error {
	if r.IsExpired(reference) {
		return ErrPasswordResetExpired
	}
	if r.State != ResetStatePending || r.OtpHash == "" {
		return ErrPasswordResetNotOpen
	}
	return nil
}

// ValidateVerified checks that the record authorizes a password change
// for the presented token.
func (r PasswordReset) ValidateVerified(token string, reference time.Time) error {
	if r.IsExpired(reference) {
		return ErrPasswordResetExpired
	}
	if r.State != ResetStateVerified {
		return ErrPasswordResetNotReady
	}
	if token == "" || r.ResetToken != token {
		return ErrPasswordResetNotReady
	}
	return nil
}
