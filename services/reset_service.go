package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/certainlyMohneeesh/AuthSys/models"
	"github.com/certainlyMohneeesh/AuthSys/repository"
	"github.com/certainlyMohneeesh/AuthSys/utils"
	"github.com/certainlyMohneeesh/AuthSys/utils/events"
)

// ResetService drives the three-step password reset flow:
// request a code, verify the code, set the new password. Each step is a
// separate HTTP request; the PasswordReset record carries the state in
// between. A fresh request always supersedes whatever was in flight.
type ResetService struct {
	users  UserStore
	resets ResetStore
	hasher Hasher
	tokens TokenSource
	mailer ResetMailer
	bus    EventPublisher
	now    func() time.Time
}

func NewResetService(users UserStore, resets ResetStore, hasher Hasher, tokens TokenSource, mailer ResetMailer, bus EventPublisher) *ResetService {
	return &ResetService{
		users:  users,
		resets: resets,
		hasher: hasher,
		tokens: tokens,
		mailer: mailer,
		bus:    bus,
		now:    time.Now,
	}
}

// RequestReset issues a reset code for the account behind email. An
// unknown email returns nil so the caller's response is identical
// either way; existence of accounts must not be observable here.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("look up user: %w", err)
	}

	otp, err := s.tokens.OTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	resetToken, err := s.tokens.Token()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	otpHash, err := s.hasher.Hash(otp)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}

	record := &models.PasswordReset{
		UserID:     user.ID,
		State:      models.ResetStatePending,
		ResetToken: resetToken,
		OtpHash:    otpHash,
		ExpiresAt:  s.now().Add(models.PasswordResetTTL),
	}
	if err := s.resets.Upsert(ctx, record); err != nil {
		return fmt.Errorf("store reset record: %w", err)
	}

	// The code email is the one hard email dependency: without it the
	// user cannot continue, so the request fails.
	if err := s.mailer.SendResetCodeEmail(user.Email, otp); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailDispatch, err)
	}

	return nil
}

// VerifyOTP checks the submitted code against the pending record and,
// on success, replaces it with a verified record holding a fresh token.
// The returned token authorizes exactly one ResetPassword call. It does
// not sign the caller in.
func (s *ResetService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	user, record, err := s.findUserRecord(ctx, email)
	if err != nil {
		return "", err
	}

	if record.IsExpired(s.now()) {
		return "", ErrOTPExpired
	}
	if err := record.ValidatePending(s.now()); err != nil {
		return "", ErrOTPInvalid
	}
	if !s.hasher.Check(record.OtpHash, otp) {
		return "", ErrOTPInvalid
	}

	// The verified token is freshly random rather than derived from the
	// pending token, so seeing the pending handle proves nothing.
	verifiedToken, err := s.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("generate verified token: %w", err)
	}

	if err := s.resets.MarkVerified(ctx, user.ID, record.ResetToken, verifiedToken); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A concurrent re-request replaced the record between our
			// read and write; the newer flow wins.
			return "", ErrOTPInvalid
		}
		return "", fmt.Errorf("mark reset verified: %w", err)
	}

	return verifiedToken, nil
}

// ResetPassword consumes a verified token and sets the new password.
// Deleting the record is what makes the token single use: a replay
// finds no record and fails.
func (s *ResetService) ResetPassword(ctx context.Context, email, verifiedToken, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("look up user: %w", err)
	}

	record, err := s.resets.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetInvalid
		}
		return fmt.Errorf("look up reset record: %w", err)
	}

	if err := record.ValidateVerified(verifiedToken, s.now()); err != nil {
		return ErrResetInvalid
	}

	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.resets.DeleteByUserID(ctx, user.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete reset record: %w", err)
	}

	s.bus.Publish(events.AuthEvent{
		Type:  events.PasswordChanged,
		Email: user.Email,
		Name:  user.DisplayName(),
	})

	return nil
}

func (s *ResetService) findUserRecord(ctx context.Context, email string) (*models.User, *models.PasswordReset, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrResetNotFound
		}
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}

	record, err := s.resets.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrResetNotFound
		}
		return nil, nil, fmt.Errorf("look up reset record: %w", err)
	}

	return user, record, nil
}
