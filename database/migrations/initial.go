package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_stores_table", table(&models.Store{}, "stores"))
	migration.Register("20260301000001_create_users_table", table(&models.User{}, "users"))
	migration.Register("20260301000002_create_categories_table", table(&models.Category{}, "categories"))
	migration.Register("20260301000003_create_products_table", migration.Func{
		UpFn: func(db *gorm.DB) error { return db.AutoMigrate(&models.Product{}) },
		DownFn: func(db *gorm.DB) error {
			return db.Migrator().DropTable("product_categories", "products")
		},
	})
	migration.Register("20260301000004_create_orders_table", migration.Func{
		UpFn: func(db *gorm.DB) error { return db.AutoMigrate(&models.Order{}, &models.OrderItem{}) },
		DownFn: func(db *gorm.DB) error {
			return db.Migrator().DropTable("order_items", "orders")
		},
	})
}

func table(model interface{}, name string) migration.Func {
	return migration.Func{
		UpFn:   func(db *gorm.DB) error { return db.AutoMigrate(model) },
		DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable(name) },
	}
}
