package repository

import (
	"context"
	"errors"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserFilter narrows List; zero values match everything
type UserFilter struct {
	Role   model.UserRole
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]model.User, int64, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	UpdateRole(ctx context.Context, id uint, role model.UserRole) error
	Deactivate(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		logFindError("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		logFindError("Failed to find user by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count users in database", err, map[string]interface{}{
			"role": filter.Role,
		})
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var users []model.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		logger.Error("Failed to list users in database", err, map[string]interface{}{
			"role": filter.Role,
		})
		return nil, 0, err
	}

	logger.Debug("Users listed from database", map[string]interface{}{
		"count": len(users),
		"total": total,
	})
	return users, total, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.updateColumn(ctx, id, "password_hash", passwordHash)
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role model.UserRole) error {
	return r.updateColumn(ctx, id, "role", role)
}

// Deactivate clears the active flag; identities are never deleted
func (r *userRepository) Deactivate(ctx context.Context, id uint) error {
	return r.updateColumn(ctx, id, "active", false)
}

// updateColumn returns gorm.ErrRecordNotFound when no row has the id
func (r *userRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	logger.Debug("Updating user column in database", map[string]interface{}{
		"user_id": id,
		"column":  column,
	})

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		logger.Error("Failed to update user in database", result.Error, map[string]interface{}{
			"user_id": id,
			"column":  column,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("User updated in database", map[string]interface{}{
		"user_id": id,
		"column":  column,
	})
	return nil
}

// logFindError keeps not-found lookups at debug level; they are expected on every failed login.
func logFindError(msg string, err error, fields map[string]interface{}) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}
