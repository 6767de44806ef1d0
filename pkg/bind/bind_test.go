package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storehub/pkg/apperr"
	"github.com/shashiranjanraj/storehub/pkg/bind"
)

type line struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int64  `json:"quantity"  validate:"gte=1"`
}

type input struct {
	Email string `json:"email" validate:"required,email"`
	Items []line `json:"items" validate:"required,min=1,dive"`
}

func request(body string) (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestJSONValid(t *testing.T) {
	w, r := request(`{"email":"a@b.co","items":[{"productId":"p1","quantity":2}]}`)
	var in input
	require.NoError(t, bind.JSON(w, r, &in))
	assert.Equal(t, int64(2), in.Items[0].Quantity)
}

func TestJSONFieldErrorsUseJSONNames(t *testing.T) {
	w, r := request(`{"email":"nope","items":[{"productId":"","quantity":0}]}`)
	var in input
	err := bind.JSON(w, r, &in)

	require.True(t, apperr.Is(err, apperr.Validation))
	fields := apperr.FieldsOf(err)
	assert.Equal(t, "email must be a valid email address", fields["email"])
	assert.Equal(t, "productId is required", fields["items[0].productId"])
	assert.Equal(t, "quantity must be at least 1", fields["items[0].quantity"])
}

func TestJSONEmptyItems(t *testing.T) {
	w, r := request(`{"email":"a@b.co","items":[]}`)
	var in input
	err := bind.JSON(w, r, &in)
	require.True(t, apperr.Is(err, apperr.Validation))
	assert.Contains(t, apperr.FieldsOf(err), "items")
}

func TestJSONMalformed(t *testing.T) {
	w, r := request(`{"email":`)
	var in input
	err := bind.JSON(w, r, &in)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Empty(t, apperr.FieldsOf(err))
}
