package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/jobnest/jobnest-backend/pkg/util"
	"gorm.io/gorm"
)

// SessionToken is a signed session credential and its expiry
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Role        model.UserRole
	CompanyName string
	Headline    string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, *SessionToken, error)
	Login(ctx context.Context, email, password string) (*model.User, *SessionToken, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
}

type authService struct {
	userRepo      repository.UserRepository
	resetRepo     repository.PasswordResetRepository
	jwtSecret     string
	sessionExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	jwtSecret string,
	sessionExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		resetRepo:     resetRepo,
		jwtSecret:     jwtSecret,
		sessionExpiry: sessionExpiry,
	}
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a job seeker or employer; staff roles are only granted by promotion.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, *SessionToken, error) {
	email := NormalizeEmail(input.Email)
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"role":  input.Role,
	})

	if input.Role != model.RoleJobSeeker && input.Role != model.RoleEmployer {
		logger.Warn("Registration failed: role not open for signup", map[string]interface{}{
			"email": email,
			"role":  input.Role,
		})
		return nil, nil, ErrInvalidRole
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, storageError(err)
	}
	if existing != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         input.Name,
		Role:         input.Role,
		Active:       true,
	}
	switch input.Role {
	case model.RoleEmployer:
		user.CompanyName = input.CompanyName
	case model.RoleJobSeeker:
		user.Headline = input.Headline
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, storageError(err)
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})
	return user, session, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *SessionToken, error) {
	email = NormalizeEmail(email)
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, storageError(err)
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	if !user.Active {
		logger.Warn("Login failed: account deactivated", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrAccountInactive
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, session, nil
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError(err)
	}
	return user, nil
}

// ChangePassword replaces the password of an authenticated user and drops any pending reset tokens.
func (s *authService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change failed: current password mismatch", map[string]interface{}{
			"user_id": userID,
		})
		return ErrInvalidCredentials
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return storageError(err)
	}

	if _, err := s.resetRepo.DeleteByUser(ctx, userID); err != nil {
		return storageError(err)
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *authService) issueSession(user *model.User) (*SessionToken, error) {
	token, expiresAt, err := util.GenerateSessionToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.sessionExpiry)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return &SessionToken{Token: token, ExpiresAt: expiresAt}, nil
}
