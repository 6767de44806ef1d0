package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/shashiranjanraj/storehub/database/migrations"
	"github.com/shashiranjanraj/storehub/pkg/database"
	"github.com/shashiranjanraj/storehub/pkg/migration"
)

func TestRunRollbackStatus(t *testing.T) {
	db, err := database.Open("sqlite", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	runner := migration.New(db)

	applied, err := runner.Run()
	require.NoError(t, err)
	assert.Len(t, applied, 5)
	for _, table := range []string{"stores", "users", "categories", "products", "product_categories", "orders", "order_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	again, err := runner.Run()
	require.NoError(t, err)
	assert.Empty(t, again, "second run has nothing pending")

	status, err := runner.Status()
	require.NoError(t, err)
	for _, s := range status {
		assert.True(t, s.Ran, s.Name)
		assert.Equal(t, 1, s.Batch)
	}

	undone, err := runner.Rollback()
	require.NoError(t, err)
	assert.Len(t, undone, 5)
	assert.False(t, db.Migrator().HasTable("orders"))
	assert.False(t, db.Migrator().HasTable("stores"))
}
