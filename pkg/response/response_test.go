package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storehub/pkg/apperr"
	"github.com/shashiranjanraj/storehub/pkg/metrics"
	"github.com/shashiranjanraj/storehub/pkg/response"
)

type body struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) body {
	t.Helper()
	var b body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestFailMapsKinds(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.New(apperr.Unauthenticated, "Authentication required"), 401, "Authentication required"},
		{apperr.New(apperr.Forbidden, "nope"), 403, "nope"},
		{apperr.New(apperr.Configuration, "no store"), 400, "no store"},
		{apperr.New(apperr.NotFound, "Order not found"), 404, "Order not found"},
		{apperr.New(apperr.Conflict, "slug taken"), 409, "slug taken"},
		{errors.New("dial tcp: secret host"), 500, "Internal Server Error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		response.Fail(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tc.err)

		b := decode(t, rec)
		assert.Equal(t, tc.status, rec.Code)
		assert.Equal(t, tc.status, b.Status)
		assert.Equal(t, tc.message, b.Message)
	}
}

func TestFailIncludesFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Fail(rec, httptest.NewRequest(http.MethodPost, "/x", nil),
		apperr.WithFields("Validation failed", map[string]string{"email": "email is required"}))

	b := decode(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email is required", b.Errors["email"])
}

func TestFailCountsDenials(t *testing.T) {
	before := testutil.ToFloat64(metrics.AuthzDenials.WithLabelValues("forbidden"))
	response.Fail(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil), apperr.New(apperr.Forbidden, "no"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AuthzDenials.WithLabelValues("forbidden"))-before)
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Paginated(rec, []string{"a"}, response.NewPagination(2, 10, 21))

	var b struct {
		Data struct {
			Items      []string            `json:"items"`
			Pagination response.Pagination `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, []string{"a"}, b.Data.Items)
	assert.Equal(t, int64(3), b.Data.Pagination.Pages)
}
