package models

import (
	"errors"
	"testing"
	"time"
)

func pendingRecord(expiresAt time.Time) PasswordReset {
	return PasswordReset{
		UserID:     1,
		State:      ResetStatePending,
		ResetToken: "handle",
		OtpHash:    "digest",
		ExpiresAt:  expiresAt,
	}
}

func TestValidatePending(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	record := pendingRecord(now.Add(PasswordResetTTL))
	if err := record.ValidatePending(now); err != nil {
		t.Fatalf("fresh pending record must validate: %v", err)
	}

	expired := pendingRecord(now.Add(-time.Minute))
	if err := expired.ValidatePending(now); !errors.Is(err, ErrPasswordResetExpired) {
		t.Fatalf("expected expired error, got %v", err)
	}

	verified := pendingRecord(now.Add(PasswordResetTTL))
	verified.State = ResetStateVerified
	verified.OtpHash = ""
	if err := verified.ValidatePending(now); !errors.Is(err, ErrPasswordResetNotOpen) {
		t.Fatalf("verified record must not accept otp attempts, got %v", err)
	}
}

func TestValidateVerified(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	record := PasswordReset{
		UserID:     1,
		State:      ResetStateVerified,
		ResetToken: "verified-token",
		ExpiresAt:  now.Add(10 * time.Minute),
	}

	if err := record.ValidateVerified("verified-token", now); err != nil {
		t.Fatalf("matching token must validate: %v", err)
	}
	if err := record.ValidateVerified("other-token", now); !errors.Is(err, ErrPasswordResetNotReady) {
		t.Fatalf("wrong token must fail, got %v", err)
	}
	if err := record.ValidateVerified("", now); !errors.Is(err, ErrPasswordResetNotReady) {
		t.Fatalf("empty token must fail, got %v", err)
	}

	pending := pendingRecord(now.Add(10 * time.Minute))
	if err := pending.ValidateVerified(pending.ResetToken, now); !errors.Is(err, ErrPasswordResetNotReady) {
		t.Fatalf("pending handle must never authorize a change, got %v", err)
	}

	record.ExpiresAt = now.Add(-time.Second)
	if err := record.ValidateVerified("verified-token", now); !errors.Is(err, ErrPasswordResetExpired) {
		t.Fatalf("expected expired error, got %v", err)
	}
}

func TestIsExpiredBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record := pendingRecord(now)

	// Expiry is exclusive: a record expiring exactly now is expired.
	if !record.IsExpired(now) {
		t.Fatal("record expiring at the reference instant must count as expired")
	}
	if record.IsExpired(now.Add(-time.Nanosecond)) {
		t.Fatal("record must be live just before its expiry")
	}
}
