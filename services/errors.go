package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	// ErrResetNotFound covers both a missing user and a missing reset
	// record; callers in the reset flow must not distinguish the two.
	ErrResetNotFound = errors.New("no active password reset")
	ErrOTPExpired    = errors.New("otp has expired")
	ErrOTPInvalid    = errors.New("invalid otp")
	ErrResetInvalid  = errors.New("invalid or expired reset token")

	// ErrEmailDispatch marks the one hard email dependency, the reset
	// code delivery.
	ErrEmailDispatch = errors.New("failed to send email")
)
