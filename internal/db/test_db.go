package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The connection is closed automatically when the test finishes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = database.AutoMigrate(
		&model.User{},
		&model.Review{},
		&model.ReviewLike{},
		&model.Comment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := database.DB()
		if err != nil {
			return
		}
		sqlDB.Close()
	})

	return database
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(database *gorm.DB) error {
	tables := []string{"comments", "review_likes", "reviews", "users"}
	for _, table := range tables {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
