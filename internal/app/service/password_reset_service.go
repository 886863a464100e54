package service

import (
	"context"
	"errors"
	"time"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/jobnest/jobnest-backend/pkg/mailer"
	"github.com/jobnest/jobnest-backend/pkg/util"
	"gorm.io/gorm"
)

// PasswordResetService runs the reset token lifecycle:
// Issued -> Valid -> Consumed | Expired | Invalidated.
type PasswordResetService interface {
	// Issue stores the hash of a new secret for the user and returns the plaintext
	Issue(ctx context.Context, userID uint) (string, time.Time, error)
	// Verify checks a secret against the user's latest token. A successful
	// verification leaves the token in place; the caller invalidates it.
	Verify(ctx context.Context, userID uint, secret string) error
	// Invalidate deletes every token of the user; it is a no-op when none exist
	Invalidate(ctx context.Context, userID uint) error

	RequestReset(ctx context.Context, email string) error
	VerifyForEmail(ctx context.Context, email, secret string) error
	ResetPassword(ctx context.Context, email, secret, newPassword string) error
}

type passwordResetService struct {
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
	mailer    mailer.Mailer
	ttl       time.Duration
	now       func() time.Time
}

func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
	m mailer.Mailer,
	ttl time.Duration,
) PasswordResetService {
	return &passwordResetService{
		resetRepo: resetRepo,
		userRepo:  userRepo,
		mailer:    m,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (s *passwordResetService) Issue(ctx context.Context, userID uint) (string, time.Time, error) {
	secret, err := util.GenerateSecret()
	if err != nil {
		logger.Error("Failed to generate reset secret", err, map[string]interface{}{
			"user_id": userID,
		})
		return "", time.Time{}, err
	}

	hash, err := util.HashSecret(secret)
	if err != nil {
		return "", time.Time{}, err
	}

	token := &model.PasswordResetToken{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.resetRepo.Create(ctx, token); err != nil {
		return "", time.Time{}, storageError(err)
	}

	logger.Info("Password reset token issued", map[string]interface{}{
		"user_id":    userID,
		"expires_at": token.ExpiresAt,
	})
	return secret, token.ExpiresAt, nil
}

func (s *passwordResetService) Verify(ctx context.Context, userID uint, secret string) error {
	_, err := s.verify(ctx, userID, secret)
	return err
}

// verify returns the matched token so a caller can consume exactly that row
func (s *passwordResetService) verify(ctx context.Context, userID uint, secret string) (*model.PasswordResetToken, error) {
	token, err := s.resetRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Reset token not found", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrTokenNotFound
		}
		return nil, storageError(err)
	}

	if token.IsExpired(s.now()) {
		if _, err := s.resetRepo.DeleteByUser(ctx, userID); err != nil {
			return nil, storageError(err)
		}
		logger.Warn("Reset token expired, removed", map[string]interface{}{
			"user_id":    userID,
			"expires_at": token.ExpiresAt,
		})
		return nil, ErrTokenExpired
	}

	if !util.VerifySecret(token.TokenHash, secret) {
		logger.Warn("Reset token mismatch", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrTokenInvalid
	}

	return token, nil
}

// consume deletes the verified token row. Only one of several concurrent
// callers holding the same token sees a row removed; the rest lose.
func (s *passwordResetService) consume(ctx context.Context, token *model.PasswordResetToken) error {
	n, err := s.resetRepo.DeleteByID(ctx, token.ID)
	if err != nil {
		return storageError(err)
	}
	if n != 1 {
		logger.Warn("Reset token already consumed", map[string]interface{}{
			"user_id":  token.UserID,
			"token_id": token.ID,
		})
		return ErrTokenNotFound
	}
	return nil
}

func (s *passwordResetService) Invalidate(ctx context.Context, userID uint) error {
	n, err := s.resetRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return storageError(err)
	}
	if n > 0 {
		logger.Info("Password reset tokens invalidated", map[string]interface{}{
			"user_id": userID,
			"count":   n,
		})
	}
	return nil
}

// RequestReset issues and mails a token. Unknown and deactivated emails
// succeed silently so callers cannot probe for accounts.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			return nil
		}
		return storageError(err)
	}
	if !user.Active {
		logger.Warn("Password reset requested for deactivated account", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil
	}

	secret, _, err := s.Issue(ctx, user.ID)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, secret); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

// VerifyForEmail resolves the user first; an unknown email reads as a missing token.
func (s *passwordResetService) VerifyForEmail(ctx context.Context, email, secret string) error {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}
	return s.Verify(ctx, user.ID, secret)
}

// ResetPassword verifies the secret and consumes that token before storing the
// new password. Remaining tokens of the user are deleted afterwards.
func (s *passwordResetService) ResetPassword(ctx context.Context, email, secret, newPassword string) error {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.verify(ctx, user.ID, secret)
	if err != nil {
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.consume(ctx, token); err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return storageError(err)
	}

	if err := s.Invalidate(ctx, user.ID); err != nil {
		logger.Error("Password updated but reset tokens were not removed", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Password reset successful", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (s *passwordResetService) resolveUser(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, storageError(err)
	}
	return user, nil
}
