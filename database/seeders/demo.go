package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/pkg/database"
	"github.com/shashiranjanraj/storehub/pkg/rbac"
)

func init() {
	Register("demo", SeedDemo)
}

const demoPassword = "password123"

// SeedDemo creates a "demo" store with a super admin, a store admin, two
// categories and a few products. It does nothing if the store exists.
func SeedDemo(ctx context.Context, db *gorm.DB) error {
	repos := repositories.New(db)
	if _, err := repos.Stores.GetBySlug(ctx, "demo"); err == nil {
		return nil
	} else if !database.IsNotFound(err) {
		return err
	}

	svc := services.NewSet(repos, services.Options{})

	store, err := svc.Stores.Create(ctx, services.StoreInput{
		Name:             "Demo Store",
		Slug:             "demo",
		Currency:         "USD",
		DeliveryFeeCents: 500,
		TaxRateBps:       825,
	})
	if err != nil {
		return err
	}

	users := []services.UserInput{
		{Name: "Root", Email: "root@storehub.test", Password: demoPassword, Role: string(rbac.RoleSuperAdmin)},
		{Name: "Demo Admin", Email: "admin@storehub.test", Password: demoPassword, Role: string(rbac.RoleAdmin), StoreID: store.ID},
		{Name: "Demo Staff", Email: "staff@storehub.test", Password: demoPassword, Role: string(rbac.RoleStaff), StoreID: store.ID},
	}
	for _, u := range users {
		if _, err := repos.Users.GetByEmail(ctx, u.Email); err == nil {
			continue
		}
		if _, err := svc.Auth.CreateUser(ctx, u); err != nil {
			return err
		}
	}

	admin := rbac.NewAuthContext(&rbac.Principal{ID: "seeder", Role: rbac.RoleAdmin, StoreID: &store.ID})

	mugs, err := svc.Categories.Create(ctx, admin, services.CategoryInput{Title: "Mugs"})
	if err != nil {
		return err
	}
	tea, err := svc.Categories.Create(ctx, admin, services.CategoryInput{Title: "Tea"})
	if err != nil {
		return err
	}

	products := []services.ProductInput{
		{SKU: "MUG-001", Title: "Enamel Mug", PriceCents: 1200, Stock: 40, CategoryIDs: []string{mugs.ID}},
		{SKU: "MUG-002", Title: "Stoneware Mug", PriceCents: 1800, Stock: 15, Featured: true, CategoryIDs: []string{mugs.ID}},
		{SKU: "TEA-001", Title: "Earl Grey 100g", PriceCents: 950, Stock: 100, CategoryIDs: []string{tea.ID}},
		{SKU: "SET-001", Title: "Tea Set", PriceCents: 3900, Stock: 5, CategoryIDs: []string{mugs.ID, tea.ID}},
	}
	for _, p := range products {
		if _, err := svc.Products.Create(ctx, admin, p); err != nil {
			return err
		}
	}
	return nil
}
