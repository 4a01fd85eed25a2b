package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nick19y/PizzApp-sub001/internal/models"
)

func TestIsUniqueViolationDetectsDuplicateInsert(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	first := models.User{Name: "Ana", Email: "dup@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	require.NoError(t, db.Create(&first).Error)

	second := models.User{Name: "Bia", Email: "dup@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	err = db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolationClassification(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
}
