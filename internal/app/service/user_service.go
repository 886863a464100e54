package service

import (
	"context"
	"errors"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserService holds the administrative operations on identities
type UserService interface {
	List(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error)
	UpdateRole(ctx context.Context, actorID, targetID uint, role model.UserRole) (*model.User, error)
	Deactivate(ctx context.Context, actorID, targetID uint) error
}

type userService struct {
	userRepo repository.UserRepository
	resets   PasswordResetService
}

func NewUserService(userRepo repository.UserRepository, resets PasswordResetService) UserService {
	return &userService{userRepo: userRepo, resets: resets}
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, 0, ErrInvalidRole
	}
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, storageError(err)
	}
	return users, total, nil
}

// UpdateRole promotes or demotes an identity. Sessions issued before the change
// keep their embedded role until they expire unless role revalidation is on.
func (s *userService) UpdateRole(ctx context.Context, actorID, targetID uint, role model.UserRole) (*model.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if actorID == targetID {
		logger.Warn("Role change rejected: actor targeted own account", map[string]interface{}{
			"user_id": actorID,
		})
		return nil, ErrSelfChange
	}

	if err := s.userRepo.UpdateRole(ctx, targetID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError(err)
	}

	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError(err)
	}

	logger.Info("User role updated", map[string]interface{}{
		"actor_id":  actorID,
		"target_id": targetID,
		"role":      role,
	})
	return user, nil
}

// Deactivate disables login for the target and invalidates its reset tokens
func (s *userService) Deactivate(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return ErrSelfChange
	}

	if err := s.userRepo.Deactivate(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return storageError(err)
	}

	if err := s.resets.Invalidate(ctx, targetID); err != nil {
		return err
	}

	logger.Info("User deactivated", map[string]interface{}{
		"actor_id":  actorID,
		"target_id": targetID,
	})
	return nil
}
