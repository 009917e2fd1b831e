// Package testutil provides an in-memory database and fixtures shared by the
// repo and service tests.
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/types"
)

// OpenTestDB opens a fresh in-memory sqlite database with the full schema
// migrated. The pool is pinned to a single connection so the in-memory
// database survives for the whole test.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Address{},
		&types.Policy{},
		&types.PolicyHolder{},
		&types.Driver{},
		&types.Vehicle{},
		&types.VehicleCoverage{},
	); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// SeedUser inserts a user row and returns it.
func SeedUser(t *testing.T, db *gorm.DB, email string) *types.User {
	t.Helper()
	user := &types.User{
		Name:     "Test Agent",
		Email:    email,
		Password: "not-a-real-hash",
		Role:     "agent",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}
