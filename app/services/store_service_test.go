package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
)

func TestStoreService(t *testing.T) {
	_, repos := setup(t)
	svc := services.NewStoreService(repos, "usd")
	ctx := context.Background()

	store, err := svc.Create(ctx, services.StoreInput{Name: "Café Crème", TaxRateBps: 825})
	require.NoError(t, err)
	assert.Equal(t, "cafe-creme", store.Slug)
	assert.Equal(t, "USD", store.Currency)
	assert.EqualValues(t, 825, store.TaxRateBps)

	_, err = svc.Create(ctx, services.StoreInput{Name: "Other", Slug: "Cafe Creme"})
	assert.True(t, apperr.Is(err, apperr.Conflict))

	_, err = svc.Create(ctx, services.StoreInput{Name: "!!!"})
	assert.True(t, apperr.Is(err, apperr.Validation))

	_, err = svc.Create(ctx, services.StoreInput{Name: "Bad", Currency: "EURO"})
	assert.True(t, apperr.Is(err, apperr.Validation))

	eur, err := svc.Create(ctx, services.StoreInput{Name: "Euro Shop", Currency: "eur", DeliveryFeeCents: 450})
	require.NoError(t, err)
	assert.Equal(t, "EUR", eur.Currency)

	byID, err := svc.Find(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ID, byID.ID)

	bySlug, err := svc.Find(ctx, "euro-shop")
	require.NoError(t, err)
	assert.Equal(t, eur.ID, bySlug.ID)

	_, err = svc.Find(ctx, "nowhere")
	assert.True(t, apperr.Is(err, apperr.NotFound))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
