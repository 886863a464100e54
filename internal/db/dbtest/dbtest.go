package dbtest

import (
	"fmt"
	"testing"

	"github.com/jobnest/jobnest-backend/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a migrated in-memory SQLite database closed on test cleanup
func SetupTestDB(t testing.TB) (*gorm.DB, error) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get test database instance: %w", err)
	}
	// every :memory: connection is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db.Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database, nil
}
