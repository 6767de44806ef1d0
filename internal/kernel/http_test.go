package kernel_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/internal/kernel"
	"github.com/shashiranjanraj/storehub/pkg/middleware"
	"github.com/shashiranjanraj/storehub/pkg/testkit"
)

func newKernel(t *testing.T, opts kernel.Options) http.Handler {
	t.Helper()
	db := testkit.NewDB(t)
	opts.DB = db
	opts.Services = services.NewSet(repositories.New(db), services.Options{})
	if opts.CORS.AllowedOrigins == nil {
		opts.CORS = middleware.CORSFromConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return kernel.NewHTTPKernel(ctx, opts)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(newKernel(t, kernel.Options{}), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "up", body.Data["database"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	h := newKernel(t, kernel.Options{})

	rec := get(h, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":404,"message":"Not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/products", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newKernel(t, kernel.Options{})
	get(h, "/api/products")

	rec := get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `storehub_http_requests_total`)
	assert.Contains(t, rec.Body.String(), `route="/api/products"`)
}

func TestStrictLimiterGuardsCheckout(t *testing.T) {
	h := newKernel(t, kernel.Options{StrictPerMinute: 1})

	post := func() int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusBadRequest, post(), "first request reaches the handler")
	assert.Equal(t, http.StatusTooManyRequests, post())

	assert.Equal(t, http.StatusOK, get(h, "/api/products").Code, "reads are not strictly limited")
}

func TestRouteTable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := kernel.NewRouter(ctx, kernel.Options{})

	path, ok := r.Path("admin.orders.status")
	require.True(t, ok)
	assert.Equal(t, "/api/admin/orders/{id}/status", path)

	url, err := r.URL("orders.track", map[string]string{"orderNumber": "ORD-20260101-ABCDEF"})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/track/ORD-20260101-ABCDEF", url)
	assert.NotEmpty(t, r.Routes())
}
