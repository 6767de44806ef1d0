package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storehub/pkg/apperr"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.Unauthenticated: http.StatusUnauthorized,
		apperr.Forbidden:       http.StatusForbidden,
		apperr.Validation:      http.StatusBadRequest,
		apperr.Configuration:   http.StatusBadRequest,
		apperr.NotFound:        http.StatusNotFound,
		apperr.Conflict:        http.StatusConflict,
		apperr.Unexpected:      http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, apperr.HTTPStatus(apperr.New(kind, "x")), kind)
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("order service: %w", apperr.New(apperr.Conflict, "slug taken"))

	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.True(t, apperr.Is(err, apperr.Conflict))
	assert.Equal(t, "slug taken", apperr.PublicMessage(err))
}

func TestUntypedErrorsAreOpaque(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.1:5432: connection refused")

	assert.Equal(t, apperr.Unexpected, apperr.KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(err))
	assert.Equal(t, "Internal Server Error", apperr.PublicMessage(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := apperr.Wrap(apperr.Unexpected, cause, "could not save order")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal Server Error", apperr.PublicMessage(err))
}
