// Package controllers adapts HTTP requests to service calls. Handlers decode
// input, read the caller's auth context and write the response envelope;
// every rule lives in app/services.
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
	"github.com/shashiranjanraj/storehub/pkg/response"
)

func pageFrom(r *http.Request) (repositories.Page, error) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), "page")
	if err != nil {
		return repositories.Page{}, err
	}
	limit, err := intParam(q.Get("limit"), "limit")
	if err != nil {
		return repositories.Page{}, err
	}
	return repositories.Page{Page: page, Limit: limit}, nil
}

func intParam(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.WithFields("Validation failed", map[string]string{name: name + " must be a positive integer"})
	}
	return n, nil
}

func boolParam(raw, name string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.WithFields("Validation failed", map[string]string{name: name + " must be true or false"})
	}
	return &b, nil
}

func paginated(w http.ResponseWriter, items interface{}, page repositories.Page, total int64) {
	n := page.Normalised()
	response.Paginated(w, items, response.NewPagination(n.Page, n.Limit, total))
}

func id(r *http.Request) string { return chi.URLParam(r, "id") }
