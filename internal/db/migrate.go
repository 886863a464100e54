package db

import (
	"errors"
	"fmt"

	"github.com/jobnest/jobnest-backend/config"
	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/jobnest/jobnest-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table managed by AutoMigrate
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.Document{},
	}
}

// Migrate runs database migrations
func Migrate(database *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := database.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedSuperadmin creates the bootstrap superadmin if configured and absent
func SeedSuperadmin(database *gorm.DB, cfg *config.BootstrapConfig) error {
	if cfg.SuperadminEmail == "" || cfg.SuperadminPassword == "" {
		logger.Debug("No bootstrap superadmin configured, skipping")
		return nil
	}

	var existing model.User
	err := database.Where("email = ?", cfg.SuperadminEmail).First(&existing).Error
	if err == nil {
		logger.Info("Bootstrap superadmin already exists, skipping", map[string]interface{}{
			"user_id": existing.ID,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up bootstrap superadmin: %w", err)
	}

	hash, err := util.HashPassword(cfg.SuperadminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap superadmin password: %w", err)
	}

	admin := &model.User{
		Email:        cfg.SuperadminEmail,
		PasswordHash: hash,
		Name:         "Superadmin",
		Role:         model.RoleSuperadmin,
		Active:       true,
	}
	if err := database.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create bootstrap superadmin: %w", err)
	}

	logger.Info("Bootstrap superadmin created", map[string]interface{}{
		"user_id": admin.ID,
		"email":   admin.Email,
	})
	return nil
}
