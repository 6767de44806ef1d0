// Package repositories is the gorm data-access layer. Repositories know
// nothing about principals or tenants' rights; the services decide what to
// ask for.
package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repos bundles every repository bound to one connection or transaction.
type Repos struct {
	db *gorm.DB

	Stores     StoreRepository
	Users      UserRepository
	Categories CategoryRepository
	Products   ProductRepository
	Orders     OrderRepository
}

// New binds all repositories to db.
func New(db *gorm.DB) *Repos {
	return &Repos{
		db:         db,
		Stores:     NewStoreRepository(db),
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		Orders:     NewOrderRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction. Any
// error returned by fn rolls everything back.
func (r *Repos) Transaction(ctx context.Context, fn func(tx *Repos) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Page normalises pagination input: page ≥ 1, 1 ≤ limit ≤ 100 (default 20).
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalised() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = 20
	case p.Limit > 100:
		p.Limit = 100
	}
	return p
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	n := p.normalised()
	return (n.Page - 1) * n.Limit
}

// Normalised exposes the clamped page for callers building pagination meta.
func (p Page) Normalised() Page { return p.normalised() }

func paginate(db *gorm.DB, p Page) *gorm.DB {
	n := p.normalised()
	return db.Offset(n.Offset()).Limit(n.Limit)
}
