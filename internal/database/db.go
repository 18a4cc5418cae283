package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/luo-one/inbox-agent/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize creates and returns a database connection
func Initialize(dbPath string) (*gorm.DB, error) {
	return InitializeWithLogLevel(dbPath, "WARN")
}

// InitializeWithLogLevel opens the database with a GORM logger matching level
func InitializeWithLogLevel(dbPath, level string) (*gorm.DB, error) {
	// Ensure the directory exists
	if !isMemoryPath(dbPath) {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(level)),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// runMigrations runs all database migrations.
// Only operational logs are stored; email records live in memory.
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&models.Log{})
}

func isMemoryPath(dbPath string) bool {
	return dbPath == ":memory:" || strings.HasPrefix(dbPath, "file::memory:")
}

// gormLogLevel maps an application log level onto GORM's levels
func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return logger.Info
	case "INFO", "WARN", "WARNING":
		return logger.Warn
	case "ERROR":
		return logger.Error
	default:
		return logger.Warn
	}
}
