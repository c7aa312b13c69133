// Package testutil holds helpers shared by tests
package testutil

import (
	"context"
	"testing"

	"bitwise74/recipe-api/db"
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/security"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to t
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	// Every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(context.Background(), gdb))

	return gdb
}

// FastArgon hashes with minimal cost so tests stay quick
func FastArgon() *security.ArgonHash {
	return &security.ArgonHash{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// NewUser inserts an active user with a random ID and email
func NewUser(t *testing.T, gdb *gorm.DB) *model.User {
	t.Helper()

	id := uuid.NewString()[:16]
	user := &model.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "unused",
		IsActive:     true,
	}

	require.NoError(t, gdb.Create(user).Error)
	return user
}
