package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/pkg/auth"
	"github.com/shashiranjanraj/storehub/pkg/bind"
	"github.com/shashiranjanraj/storehub/pkg/response"
)

type CategoryController struct {
	service *services.CategoryService
}

func NewCategoryController(service *services.CategoryService) *CategoryController {
	return &CategoryController{service: service}
}

// PublicIndex lists a store's categories for the storefront.
func (c *CategoryController) PublicIndex(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	list, total, err := c.service.PublicList(r.Context(), r.URL.Query().Get("storeId"), page)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	paginated(w, list, page, total)
}

func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	ac := auth.FromContext(r.Context())
	list, total, err := c.service.List(r.Context(), ac, r.URL.Query().Get("storeId"), page)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	paginated(w, list, page, total)
}

func (c *CategoryController) Show(w http.ResponseWriter, r *http.Request) {
	category, err := c.service.Get(r.Context(), auth.FromContext(r.Context()), id(r))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, category)
}

func (c *CategoryController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	category, err := c.service.Create(r.Context(), auth.FromContext(r.Context()), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, category)
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryUpdate
	if err := bind.JSON(w, r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	category, err := c.service.Update(r.Context(), auth.FromContext(r.Context()), id(r), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, category)
}

func (c *CategoryController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), auth.FromContext(r.Context()), id(r)); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Message(w, "Category deleted")
}
