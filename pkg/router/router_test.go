package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storehub/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func tag(v string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", v)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupsComposePrefixAndMiddleware(t *testing.T) {
	r := router.New()
	api := r.Group("/api", tag("api"))
	admin := api.Group("admin/", tag("admin"))
	admin.Patch("/orders/{id}/status", "admin.orders.status", ok, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/admin/orders/42/status", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"api", "admin", "route"}, rec.Header().Values("X-Chain"))
}

func TestURLAndRoutes(t *testing.T) {
	r := router.New()
	g := r.Group("/api")
	g.Get("/products/{id}", "products.show", ok)
	g.Delete("/products/{id}", "", ok)
	r.Get("/health", "health", ok)

	url, err := r.URL("products.show", map[string]string{"id": "p1"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/p1", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)

	assert.Equal(t, []router.Route{
		{Method: http.MethodDelete, Path: "/api/products/{id}"},
		{Method: http.MethodGet, Path: "/api/products/{id}", Name: "products.show"},
		{Method: http.MethodGet, Path: "/health", Name: "health"},
	}, r.Routes())
}
