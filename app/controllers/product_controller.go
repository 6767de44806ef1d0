package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/pkg/auth"
	"github.com/shashiranjanraj/storehub/pkg/bind"
	"github.com/shashiranjanraj/storehub/pkg/response"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// PublicIndex lists active products. Filters: storeId, categoryId,
// featured, q, page, limit.
func (c *ProductController) PublicIndex(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	q := r.URL.Query()
	featured, err := boolParam(q.Get("featured"), "featured")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	list, total, err := c.service.PublicList(r.Context(), services.PublicProductQuery{
		StoreID:    q.Get("storeId"),
		CategoryID: q.Get("categoryId"),
		Featured:   featured,
		Search:     q.Get("q"),
		Page:       page,
	})
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	paginated(w, list, page, total)
}

func (c *ProductController) PublicShow(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.PublicGet(r.Context(), id(r))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	q := r.URL.Query()
	list, total, err := c.service.List(r.Context(), auth.FromContext(r.Context()), q.Get("storeId"), q.Get("q"), page)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	paginated(w, list, page, total)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.Get(r.Context(), auth.FromContext(r.Context()), id(r))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	product, err := c.service.Create(r.Context(), auth.FromContext(r.Context()), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, product)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ProductUpdate
	if err := bind.JSON(w, r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	product, err := c.service.Update(r.Context(), auth.FromContext(r.Context()), id(r), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), auth.FromContext(r.Context()), id(r)); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Message(w, "Product deleted")
}
