package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/pkg/auth"
	"github.com/shashiranjanraj/storehub/pkg/bind"
	"github.com/shashiranjanraj/storehub/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Checkout is the anonymous storefront order.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	var in services.StorefrontOrderInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	order, err := c.service.CreateStorefront(r.Context(), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, order)
}

func (c *OrderController) Track(w http.ResponseWriter, r *http.Request) {
	view, err := c.service.Track(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, view)
}

func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	q := r.URL.Query()
	list, total, err := c.service.List(r.Context(), auth.FromContext(r.Context()), services.OrderQuery{
		StoreID: q.Get("storeId"),
		Status:  models.OrderStatus(q.Get("status")),
		Page:    page,
	})
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	paginated(w, list, page, total)
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.Get(r.Context(), auth.FromContext(r.Context()), id(r))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, order)
}

// Store is the back-office order entry.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.AdminOrderInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	order, err := c.service.CreateAdmin(r.Context(), auth.FromContext(r.Context()), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, order)
}

type statusInput struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in statusInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	order, err := c.service.UpdateStatus(r.Context(), auth.FromContext(r.Context()), id(r), in.Status)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, order)
}
