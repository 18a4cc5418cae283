package database

import (
	"path/filepath"
	"testing"

	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestInitializeCreatesLogTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "agent.db")

	db, err := Initialize(dbPath)
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	assert.True(t, db.Migrator().HasTable(&models.Log{}))
	require.NoError(t, db.Create(&models.Log{Level: "INFO", Module: "agent", Message: "hello"}).Error)

	var count int64
	db.Model(&models.Log{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLogLevel("debug"))
	assert.Equal(t, logger.Warn, gormLogLevel("INFO"))
	assert.Equal(t, logger.Error, gormLogLevel("error"))
	assert.Equal(t, logger.Warn, gormLogLevel("bogus"))
}
