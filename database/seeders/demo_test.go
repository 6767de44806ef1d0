package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/database/seeders"
	"github.com/shashiranjanraj/storehub/pkg/testkit"
)

func TestDemoSeederIsIdempotent(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, db, &out, "demo"))
	require.NoError(t, seeders.RunAll(ctx, db, &out, "demo"))
	assert.Contains(t, out.String(), "Running seeder: demo")

	var stores, users, products int64
	require.NoError(t, db.Model(&models.Store{}).Count(&stores).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 1, stores)
	assert.EqualValues(t, 3, users)
	assert.EqualValues(t, 4, products)

	var foreign int64
	require.NoError(t, db.Model(&models.Product{}).Where("store_id <> (SELECT id FROM stores WHERE slug = ?)", "demo").Count(&foreign).Error)
	assert.Zero(t, foreign)
}

func TestRunAllUnknownNameRunsNothing(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(context.Background(), testkit.NewDB(t), &out, "nope"))
	assert.Contains(t, out.String(), "no seeders ran")
	assert.Contains(t, seeders.Names(), "demo")
}
