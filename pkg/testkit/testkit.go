// Package testkit holds fixtures shared by package tests: an isolated
// in-memory database with the full schema, principals, and signed tokens.
package testkit

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/pkg/auth"
	"github.com/shashiranjanraj/storehub/pkg/database"
	"github.com/shashiranjanraj/storehub/pkg/rbac"
)

var dbSeq atomic.Int64

// NewDB returns a fresh in-memory sqlite database with every model migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testkit_%d?mode=memory&cache=private&_foreign_keys=on", dbSeq.Add(1))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "testkit: open sqlite")
	require.NoError(t, db.AutoMigrate(models.All()...), "testkit: migrate")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Store inserts a store with the given slug.
func Store(t testing.TB, db *gorm.DB, slug string, opts ...func(*models.Store)) *models.Store {
	t.Helper()
	s := &models.Store{Name: slug, Slug: slug, Currency: "USD"}
	for _, o := range opts {
		o(s)
	}
	require.NoError(t, db.Create(s).Error, "testkit: create store")
	return s
}

// Product inserts an active product owned by storeID.
func Product(t testing.TB, db *gorm.DB, storeID, sku string, priceCents int64, opts ...func(*models.Product)) *models.Product {
	t.Helper()
	p := &models.Product{
		StoreID:    storeID,
		SKU:        sku,
		Title:      "Product " + sku,
		Slug:       "product-" + sku,
		PriceCents: priceCents,
		Currency:   "USD",
		Stock:      10,
		Active:     true,
		ImageURL:   "https://cdn.example.com/" + sku + ".jpg",
	}
	for _, o := range opts {
		o(p)
	}
	require.NoError(t, db.Create(p).Error, "testkit: create product")
	return p
}

// Category inserts a category owned by storeID.
func Category(t testing.TB, db *gorm.DB, storeID, slug string) *models.Category {
	t.Helper()
	c := &models.Category{StoreID: storeID, Title: slug, Slug: slug}
	require.NoError(t, db.Create(c).Error, "testkit: create category")
	return c
}

// Admin returns an auth context for an ADMIN bound to storeID.
func Admin(storeID string) rbac.AuthContext {
	return As(rbac.RoleAdmin, &storeID)
}

// Staff returns an auth context for a STAFF user bound to storeID.
func Staff(storeID string) rbac.AuthContext {
	return As(rbac.RoleStaff, &storeID)
}

// Super returns an auth context for a SUPER_ADMIN.
func Super() rbac.AuthContext {
	return As(rbac.RoleSuperAdmin, nil)
}

// As builds an auth context for any role.
func As(role rbac.Role, storeID *string) rbac.AuthContext {
	return rbac.NewAuthContext(principal(role, storeID))
}

// Bearer returns an Authorization header value for role/storeID.
func Bearer(t testing.TB, role rbac.Role, storeID *string) string {
	t.Helper()
	token, err := auth.GenerateToken(*principal(role, storeID), time.Hour)
	require.NoError(t, err, "testkit: sign token")
	return "Bearer " + token
}

func principal(role rbac.Role, storeID *string) *rbac.Principal {
	id := "user-" + string(role)
	if storeID != nil {
		id += "-" + *storeID
	}
	return &rbac.Principal{ID: id, Email: id + "@example.com", Role: role, StoreID: storeID}
}
