package database_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storehub/pkg/database"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := database.Open("sqlite", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, database.IsNotFound(gorm.ErrRecordNotFound))
	assert.True(t, database.IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, database.IsUniqueViolation(errors.New("UNIQUE constraint failed: categories.store_id, categories.slug")))
	assert.True(t, database.IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, database.IsUniqueViolation(nil))
	assert.False(t, database.IsForeignKeyViolation(errors.New("disk I/O error")))
}
