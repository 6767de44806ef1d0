// Package models declares the persisted records. Every catalogue and order
// row belongs to exactly one store.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base gives a record an opaque string id and timestamps.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36"   json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an id when the caller did not.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All lists every model in dependency order, for migrations and test setup.
func All() []interface{} {
	return []interface{}{
		&Store{},
		&User{},
		&Category{},
		&Product{},
		&Order{},
		&OrderItem{},
	}
}
