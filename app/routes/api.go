// Package routes declares the API route table.
package routes

import (
	"github.com/shashiranjanraj/storehub/app/controllers"
	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/pkg/middleware"
	"github.com/shashiranjanraj/storehub/pkg/router"
)

// RegisterAPI mounts every /api route. strict, when not nil, guards the
// unauthenticated write endpoints (login and checkout).
func RegisterAPI(r *router.Router, svc services.Set, strict router.Middleware) {
	authController := controllers.NewAuthController(svc.Auth)
	categories := controllers.NewCategoryController(svc.Categories)
	products := controllers.NewProductController(svc.Products)
	orders := controllers.NewOrderController(svc.Orders)

	var limited []router.Middleware
	if strict != nil {
		limited = append(limited, strict)
	}

	public := r.Group("/api", middleware.Identify)
	public.Post("/auth/login", "auth.login", authController.Login, limited...)
	public.Get("/categories", "categories.index", categories.PublicIndex)
	public.Get("/products", "products.index", products.PublicIndex)
	public.Get("/products/{id}", "products.show", products.PublicShow)
	public.Post("/orders", "orders.checkout", orders.Checkout, limited...)
	public.Get("/orders/track/{orderNumber}", "orders.track", orders.Track)

	admin := r.Group("/api/admin", middleware.Authenticate)

	admin.Get("/categories", "admin.categories.index", categories.Index)
	admin.Post("/categories", "admin.categories.store", categories.Store)
	admin.Get("/categories/{id}", "admin.categories.show", categories.Show)
	admin.Put("/categories/{id}", "admin.categories.update", categories.Update)
	admin.Delete("/categories/{id}", "admin.categories.destroy", categories.Destroy)

	admin.Get("/products", "admin.products.index", products.Index)
	admin.Post("/products", "admin.products.store", products.Store)
	admin.Get("/products/{id}", "admin.products.show", products.Show)
	admin.Put("/products/{id}", "admin.products.update", products.Update)
	admin.Delete("/products/{id}", "admin.products.destroy", products.Destroy)

	admin.Get("/orders", "admin.orders.index", orders.Index)
	admin.Post("/orders", "admin.orders.store", orders.Store)
	admin.Get("/orders/{id}", "admin.orders.show", orders.Show)
	admin.Patch("/orders/{id}/status", "admin.orders.status", orders.UpdateStatus)
}
