// Package testutil provides a throwaway GORM database for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/database"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated sqlite database in the test's temp dir. Foreign
// keys are enforced so cascades behave as they do on Postgres.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nexo.db")
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts an account with a profile and returns it.
func CreateUser(t testing.TB, db *gorm.DB, email string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Email: email, Password: string(hash)}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Profile{ID: user.ID, FullName: "Test User"}).Error)
	return user
}

// CreateTag inserts a bare active tag without any mode row.
func CreateTag(t testing.TB, db *gorm.DB, owner uuid.UUID, code string, mode models.TagMode) models.Tag {
	t.Helper()

	tag := models.Tag{Code: code, UserID: owner, Label: "Test Tag", ActiveMode: mode, IsActive: true}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}
