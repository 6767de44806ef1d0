package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
	"github.com/shashiranjanraj/storehub/pkg/bind"
)

// StoreInput provisions a tenant.
type StoreInput struct {
	Name             string `json:"name"             validate:"required,max=255"`
	Slug             string `json:"slug"             validate:"omitempty,max=255"`
	Currency         string `json:"currency"         validate:"omitempty,len=3"`
	DeliveryFeeCents int64  `json:"deliveryFeeCents" validate:"gte=0"`
	TaxRateBps       int64  `json:"taxRateBps"       validate:"gte=0,lte=100000"`
}

// StoreService provisions tenants. It is an operator tool, reached from the
// CLI and seeders only.
type StoreService struct {
	repos           *repositories.Repos
	defaultCurrency string
}

func NewStoreService(repos *repositories.Repos, defaultCurrency string) *StoreService {
	return &StoreService{repos: repos, defaultCurrency: strings.ToUpper(defaultCurrency)}
}

// Create adds a store. Slugs are globally unique.
func (s *StoreService) Create(ctx context.Context, in StoreInput) (*models.Store, error) {
	if err := bind.Struct(&in); err != nil {
		return nil, err
	}

	store := &models.Store{
		Name:             strings.TrimSpace(in.Name),
		Slug:             Slugify(in.Slug),
		Currency:         strings.ToUpper(in.Currency),
		DeliveryFeeCents: in.DeliveryFeeCents,
		TaxRateBps:       in.TaxRateBps,
	}
	if store.Slug == "" {
		store.Slug = Slugify(store.Name)
	}
	if store.Slug == "" {
		return nil, apperr.WithFields("Validation failed", map[string]string{"slug": "slug must contain letters or digits"})
	}
	if store.Currency == "" {
		store.Currency = s.defaultCurrency
	}

	if _, err := s.repos.Stores.GetBySlug(ctx, store.Slug); err == nil {
		return nil, apperr.Newf(apperr.Conflict, "A store with slug %q already exists", store.Slug)
	}
	if err := s.repos.Stores.Create(ctx, store); err != nil {
		return nil, storeErr(err, "Store")
	}
	return store, nil
}

// Find resolves a store by id or slug.
func (s *StoreService) Find(ctx context.Context, idOrSlug string) (*models.Store, error) {
	if store, err := s.repos.Stores.GetByID(ctx, idOrSlug); err == nil {
		return store, nil
	}
	store, err := s.repos.Stores.GetBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, storeErr(err, "Store")
	}
	return store, nil
}

// List returns every store.
func (s *StoreService) List(ctx context.Context) ([]models.Store, error) {
	stores, err := s.repos.Stores.List(ctx)
	if err != nil {
		return nil, storeErr(err, "Store")
	}
	return stores, nil
}
