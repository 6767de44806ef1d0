package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storehub/app/models"
)

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to models.OrderStatus }{
		{models.OrderPending, models.OrderPaid},
		{models.OrderPending, models.OrderCancelled},
		{models.OrderPaid, models.OrderFulfilled},
		{models.OrderPaid, models.OrderCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to models.OrderStatus }{
		{models.OrderPending, models.OrderFulfilled},
		{models.OrderPending, models.OrderPending},
		{models.OrderPaid, models.OrderPending},
		{models.OrderFulfilled, models.OrderCancelled},
		{models.OrderCancelled, models.OrderPending},
		{models.OrderCancelled, models.OrderPaid},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	assert.True(t, models.OrderFulfilled.Terminal())
	assert.True(t, models.OrderCancelled.Terminal())
	assert.False(t, models.OrderPaid.Terminal())
}

func TestProductMediaURLs(t *testing.T) {
	p := models.Product{ImageURL: "https://cdn/a.jpg", GalleryURLs: []string{"https://cdn/b.jpg", ""}}
	assert.Equal(t, []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}, p.MediaURLs())
}
