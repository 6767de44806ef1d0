package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/app/routes"
	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/pkg/rbac"
	"github.com/shashiranjanraj/storehub/pkg/response"
	"github.com/shashiranjanraj/storehub/pkg/router"
	"github.com/shashiranjanraj/storehub/pkg/testkit"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type api struct {
	t       *testing.T
	db      *gorm.DB
	svc     services.Set
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db := testkit.NewDB(t)
	svc := services.NewSet(repositories.New(db), services.Options{})

	r := router.New()
	r.NotFound(response.NotFound)
	routes.RegisterAPI(r, svc, nil)
	return &api{t: t, db: db, svc: svc, handler: r.Handler()}
}

func (a *api) do(method, path, bearer string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestCheckoutAndTrack(t *testing.T) {
	a := newAPI(t)
	s1 := testkit.Store(t, a.db, "s1")
	admin := testkit.Bearer(t, rbac.RoleAdmin, &s1.ID)

	rec, env := a.do(http.MethodPost, "/api/admin/products", admin, map[string]any{
		"sku": "SKU-1", "title": "Mug", "priceCents": 1000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	product := decode[models.Product](t, env.Data)
	assert.Equal(t, s1.ID, product.StoreID)

	rec, env = a.do(http.MethodPost, "/api/orders", "", map[string]any{
		"customerName":    "Ada",
		"customerPhone":   "555",
		"shippingAddress": "1 Way",
		"items":           []map[string]any{{"productId": product.ID, "quantity": 2, "unitPriceCents": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	order := decode[models.Order](t, env.Data)
	assert.EqualValues(t, 2000, order.SubtotalCents)
	assert.Equal(t, s1.ID, order.StoreID)
	require.Len(t, order.Items, 1)
	assert.EqualValues(t, 1000, order.Items[0].UnitPriceCents)

	rec, env = a.do(http.MethodGet, "/api/orders/track/"+order.OrderNumber, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, string(env.Data), "555")
	assert.Contains(t, string(env.Data), `"status":"PENDING"`)

	rec, env = a.do(http.MethodPatch, "/api/admin/orders/"+order.ID+"/status", admin, map[string]string{"status": "PAID"})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	assert.Equal(t, models.OrderPaid, decode[models.Order](t, env.Data).Status)

	rec, env = a.do(http.MethodPatch, "/api/admin/orders/"+order.ID+"/status", admin, map[string]string{"status": "PENDING"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "Cannot change order status")
}

func TestCheckoutValidationErrors(t *testing.T) {
	a := newAPI(t)

	rec, env := a.do(http.MethodPost, "/api/orders", "", map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "customerName")
	assert.Contains(t, env.Errors, "items")

	rec, env = a.do(http.MethodPost, "/api/orders", "", `{"customerName":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", env.Message)
}

func TestCrossStoreCheckoutWritesNothing(t *testing.T) {
	a := newAPI(t)
	s1 := testkit.Store(t, a.db, "s1")
	s2 := testkit.Store(t, a.db, "s2")
	p1 := testkit.Product(t, a.db, s1.ID, "A", 100)
	p2 := testkit.Product(t, a.db, s2.ID, "B", 100)

	rec, _ := a.do(http.MethodPost, "/api/orders", "", map[string]any{
		"customerName": "x", "customerPhone": "1", "shippingAddress": "y",
		"items": []map[string]any{{"productId": p1.ID, "quantity": 1}, {"productId": p2.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var n int64
	require.NoError(t, a.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestForeignOrderIsForbiddenWithoutLeaking(t *testing.T) {
	a := newAPI(t)
	s1 := testkit.Store(t, a.db, "s1")
	s2 := testkit.Store(t, a.db, "s2")
	p := testkit.Product(t, a.db, s2.ID, "B", 100)

	order, err := a.svc.Orders.CreateStorefront(context.Background(), services.StorefrontOrderInput{
		CustomerName: "Secret Customer", CustomerPhone: "1", ShippingAddress: "Hidden Street",
		Items: []services.StorefrontOrderLine{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	rec, env := a.do(http.MethodGet, "/api/admin/orders/"+order.ID, testkit.Bearer(t, rbac.RoleAdmin, &s1.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You do not own this resource or store", env.Message)
	assert.Empty(t, env.Data)
	assert.NotContains(t, rec.Body.String(), "Secret Customer")
	assert.NotContains(t, rec.Body.String(), "Hidden Street")
	assert.NotContains(t, rec.Body.String(), order.OrderNumber)
}

func TestAdminRoutesNeedAToken(t *testing.T) {
	a := newAPI(t)

	for _, path := range []string{"/api/admin/orders", "/api/admin/products", "/api/admin/categories"} {
		rec, _ := a.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec, _ = a.do(http.MethodGet, path, "Bearer forged", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	customer := testkit.Bearer(t, rbac.RoleCustomer, nil)
	rec, env := a.do(http.MethodGet, "/api/admin/orders", customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required", env.Message)
}

func TestSuperAdminMustNameAStore(t *testing.T) {
	a := newAPI(t)
	s1 := testkit.Store(t, a.db, "s1")
	super := testkit.Bearer(t, rbac.RoleSuperAdmin, nil)

	rec, _ := a.do(http.MethodPost, "/api/admin/categories", super, map[string]string{"title": "Mugs"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := a.do(http.MethodPost, "/api/admin/categories", super, map[string]string{"title": "Mugs", "storeId": s1.ID})
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	assert.Equal(t, s1.ID, decode[models.Category](t, env.Data).StoreID)
}

func TestCategoryLifecycle(t *testing.T) {
	a := newAPI(t)
	s1 := testkit.Store(t, a.db, "s1")
	s2 := testkit.Store(t, a.db, "s2")
	admin := testkit.Bearer(t, rbac.RoleAdmin, &s1.ID)
	other := testkit.Bearer(t, rbac.RoleAdmin, &s2.ID)

	rec, env := a.do(http.MethodPost, "/api/admin/categories", admin, map[string]string{"title": "Mugs", "storeId": s2.ID})
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	category := decode[models.Category](t, env.Data)
	assert.Equal(t, s1.ID, category.StoreID, "payload storeId is ignored")

	rec, _ = a.do(http.MethodPost, "/api/admin/categories", admin, map[string]string{"title": "Mugs"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = a.do(http.MethodPost, "/api/admin/categories", other, map[string]string{"title": "Mugs"})
	assert.Equal(t, http.StatusCreated, rec.Code, "same slug in another store")

	rec, _ = a.do(http.MethodPut, "/api/admin/categories/"+category.ID, other, map[string]string{"title": "Stolen"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = a.do(http.MethodPost, "/api/admin/products", admin, map[string]any{
		"sku": "MUG", "title": "Mug", "priceCents": 100, "categoryIds": []string{category.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = a.do(http.MethodDelete, "/api/admin/categories/"+category.ID, admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = a.do(http.MethodGet, "/api/categories?storeId="+s1.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Items      []models.Category   `json:"items"`
		Pagination response.Pagination `json:"pagination"`
	}](t, env.Data)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Mugs", page.Items[0].Title)
	assert.EqualValues(t, 1, page.Pagination.Total)
	assert.Equal(t, 20, page.Pagination.Limit)
}

func TestPublicProductQueryParams(t *testing.T) {
	a := newAPI(t)
	s1 := testkit.Store(t, a.db, "s1")
	testkit.Product(t, a.db, s1.ID, "A", 100)
	testkit.Product(t, a.db, s1.ID, "B", 100, func(p *models.Product) { p.Featured = true })
	testkit.Product(t, a.db, s1.ID, "C", 100, func(p *models.Product) { p.Active = false })

	rec, env := a.do(http.MethodGet, "/api/products?storeId="+s1.ID+"&featured=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"sku":"B"`)
	assert.NotContains(t, string(env.Data), `"sku":"A"`)

	rec, env = a.do(http.MethodGet, "/api/products?storeId="+s1.ID+"&limit=1&page=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"total":2`)

	rec, env = a.do(http.MethodGet, "/api/products?featured=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "featured")

	rec, _ = a.do(http.MethodGet, "/api/products?page=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	a := newAPI(t)
	s1 := testkit.Store(t, a.db, "s1")
	_, err := a.svc.Auth.CreateUser(context.Background(), services.UserInput{
		Email: "admin@shop.test", Password: "password1", Role: "ADMIN", StoreID: s1.ID,
	})
	require.NoError(t, err)

	rec, env := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@shop.test", "password": "password1"})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	res := decode[services.LoginResult](t, env.Data)
	require.NotEmpty(t, res.Token)

	rec, _ = a.do(http.MethodGet, "/api/admin/categories", "Bearer "+res.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@shop.test", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", env.Message)
}
