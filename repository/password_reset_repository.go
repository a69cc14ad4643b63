package repository

import (
	"context"
	"errors"

	"github.com/certainlyMohneeesh/AuthSys/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Upsert writes the user's single reset slot. A second request for the
// same user overwrites the previous record in place, invalidating any
// flow it belonged to.
func (r *PasswordResetRepository) Upsert(ctx context.Context, record *models.PasswordReset) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"state", "reset_token", "otp_hash", "expires_at", "updated_at",
		}),
	}).Create(record).Error
}

func (r *PasswordResetRepository) FindByUserID(ctx context.Context, userID uint) (*models.PasswordReset, error) {
	var record models.PasswordReset
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// MarkVerified transitions a pending record to the verified state,
// replacing its token. The WHERE clause guards against a concurrent
// re-request having already replaced the record.
func (r *PasswordResetRepository) MarkVerified(ctx context.Context, userID uint, oldToken, verifiedToken string) error {
	res := r.db.WithContext(ctx).Model(&models.PasswordReset{}).
		Where("user_id = ? AND state = ? AND reset_token = ?", userID, models.ResetStatePending, oldToken).
		Updates(map[string]any{
			"state":       models.ResetStateVerified,
			"reset_token": verifiedToken,
			"otp_hash":    "",
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUserID removes the slot. Deletion is what enforces single use
// of the verified token: a replay finds nothing.
func (r *PasswordResetRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ?", userID).
		Delete(&models.PasswordReset{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
