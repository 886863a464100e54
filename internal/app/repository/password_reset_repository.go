package repository

import (
	"context"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"gorm.io/gorm"
)

// PasswordResetRepository stores hashed reset tokens.
// Deletes are conditional and succeed when nothing matches.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindLatestByUser(ctx context.Context, userID uint) (*model.PasswordResetToken, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	DeleteByID(ctx context.Context, id uint) (int64, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	logger.Debug("Creating password reset token in database", map[string]interface{}{
		"user_id": token.UserID,
	})

	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		logger.Error("Failed to create password reset token in database", err, map[string]interface{}{
			"user_id": token.UserID,
		})
		return err
	}

	logger.Debug("Password reset token created in database", map[string]interface{}{
		"id":         token.ID,
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	return nil
}

// FindLatestByUser returns the most recently issued token for the user
func (r *passwordResetRepository) FindLatestByUser(ctx context.Context, userID uint) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		First(&token).Error
	if err != nil {
		logFindError("Failed to find password reset token in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &token, nil
}

func (r *passwordResetRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		logger.Error("Failed to delete password reset tokens from database", result.Error, map[string]interface{}{
			"user_id": userID,
		})
		return 0, result.Error
	}

	logger.Debug("Password reset tokens deleted from database", map[string]interface{}{
		"user_id": userID,
		"count":   result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *passwordResetRepository) DeleteByID(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		logger.Error("Failed to delete password reset token from database", result.Error, map[string]interface{}{
			"id": id,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
