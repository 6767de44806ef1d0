package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
	"github.com/shashiranjanraj/storehub/pkg/bind"
	"github.com/shashiranjanraj/storehub/pkg/logger"
	"github.com/shashiranjanraj/storehub/pkg/metrics"
	"github.com/shashiranjanraj/storehub/pkg/rbac"
	"github.com/shashiranjanraj/storehub/pkg/storage"
	"github.com/shashiranjanraj/storehub/pkg/workerpool"
)

// ProductInput creates a product. StoreID is honoured only for SUPER_ADMIN.
type ProductInput struct {
	StoreID            string                 `json:"storeId"`
	SKU                string                 `json:"sku"                validate:"required,max=100"`
	Title              string                 `json:"title"              validate:"required,max=255"`
	Slug               string                 `json:"slug"               validate:"omitempty,max=255"`
	Description        string                 `json:"description"`
	PriceCents         int64                  `json:"priceCents"         validate:"gte=0"`
	PreviousPriceCents *int64                 `json:"previousPriceCents" validate:"omitempty,gte=0"`
	Currency           string                 `json:"currency"           validate:"omitempty,len=3"`
	Stock              int64                  `json:"stock"              validate:"gte=0"`
	Active             *bool                  `json:"active"`
	Featured           bool                   `json:"featured"`
	ImageURL           string                 `json:"imageUrl"           validate:"omitempty,url"`
	GalleryURLs        []string               `json:"galleryUrls"        validate:"omitempty,dive,url"`
	Options            []models.ProductOption `json:"options"`
	CategoryIDs        []string               `json:"categoryIds"`
}

// ProductUpdate changes only the fields that are set.
type ProductUpdate struct {
	StoreID            *string                 `json:"storeId"`
	SKU                *string                 `json:"sku"                validate:"omitempty,min=1,max=100"`
	Title              *string                 `json:"title"              validate:"omitempty,min=1,max=255"`
	Slug               *string                 `json:"slug"               validate:"omitempty,min=1,max=255"`
	Description        *string                 `json:"description"`
	PriceCents         *int64                  `json:"priceCents"         validate:"omitempty,gte=0"`
	PreviousPriceCents *int64                  `json:"previousPriceCents" validate:"omitempty,gte=0"`
	Currency           *string                 `json:"currency"           validate:"omitempty,len=3"`
	Stock              *int64                  `json:"stock"              validate:"omitempty,gte=0"`
	Active             *bool                   `json:"active"`
	Featured           *bool                   `json:"featured"`
	ImageURL           *string                 `json:"imageUrl"           validate:"omitempty,url"`
	GalleryURLs        *[]string               `json:"galleryUrls"`
	Options            *[]models.ProductOption `json:"options"`
	CategoryIDs        *[]string               `json:"categoryIds"`
}

// PublicProductQuery filters the storefront listing.
type PublicProductQuery struct {
	StoreID    string
	CategoryID string
	Featured   *bool
	Search     string
	repositories.Page
}

// Submitter runs background tasks. *workerpool.Pool satisfies it.
type Submitter interface {
	Submit(task workerpool.Task) error
}

type ProductService struct {
	repos *repositories.Repos
	disk  storage.Disk
	pool  Submitter
}

// NewProductService wires the product protocol. disk or pool may be nil, in
// which case deleted products' media is left in place.
func NewProductService(repos *repositories.Repos, disk storage.Disk, pool Submitter) *ProductService {
	return &ProductService{repos: repos, disk: disk, pool: pool}
}

// PublicList returns active products.
func (s *ProductService) PublicList(ctx context.Context, q PublicProductQuery) ([]models.Product, int64, error) {
	list, total, err := s.repos.Products.List(ctx, repositories.ProductFilter{
		StoreID:    strings.TrimSpace(q.StoreID),
		CategoryID: strings.TrimSpace(q.CategoryID),
		Featured:   q.Featured,
		Search:     strings.TrimSpace(q.Search),
		ActiveOnly: true,
		Page:       q.Page,
	})
	if err != nil {
		return nil, 0, storeErr(err, "Product")
	}
	return list, total, nil
}

// PublicGet returns an active product by id.
func (s *ProductService) PublicGet(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Product")
	}
	if !product.Active {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	return product, nil
}

// List is the back-office listing, scoped to the caller's tenant.
func (s *ProductService) List(ctx context.Context, ac rbac.AuthContext, storeID, search string, page repositories.Page) ([]models.Product, int64, error) {
	tenant, err := rbac.ListingTenant(ac, storeID)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repos.Products.List(ctx, repositories.ProductFilter{StoreID: tenant, Search: strings.TrimSpace(search), Page: page})
	if err != nil {
		return nil, 0, storeErr(err, "Product")
	}
	return list, total, nil
}

// Get returns one product the caller may manage.
func (s *ProductService) Get(ctx context.Context, ac rbac.AuthContext, id string) (*models.Product, error) {
	return s.load(ctx, s.repos, ac, id)
}

func (s *ProductService) load(ctx context.Context, repos *repositories.Repos, ac rbac.AuthContext, id string) (*models.Product, error) {
	if err := rbac.RequireAdmin(ac); err != nil {
		return nil, err
	}
	product, err := repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Product")
	}
	if err := rbac.AuthorizeResource(ac, product.StoreID); err != nil {
		return nil, err
	}
	return product, nil
}

// Create adds a product to the effective tenant.
func (s *ProductService) Create(ctx context.Context, ac rbac.AuthContext, in ProductInput) (*models.Product, error) {
	storeID, err := rbac.CreationTenant(ac, in.StoreID)
	if err != nil {
		return nil, err
	}
	if err := bind.Struct(&in); err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	product := &models.Product{
		StoreID:            storeID,
		SKU:                strings.TrimSpace(in.SKU),
		Title:              strings.TrimSpace(in.Title),
		Slug:               Slugify(in.Slug),
		Description:        in.Description,
		PriceCents:         in.PriceCents,
		PreviousPriceCents: in.PreviousPriceCents,
		Currency:           strings.ToUpper(in.Currency),
		Stock:              in.Stock,
		Active:             active,
		Featured:           in.Featured,
		ImageURL:           in.ImageURL,
		GalleryURLs:        in.GalleryURLs,
		Options:            in.Options,
	}
	if product.Slug == "" {
		product.Slug = Slugify(product.Title)
	}
	if product.Slug == "" {
		return nil, apperr.WithFields("Validation failed", map[string]string{"slug": "slug must contain letters or digits"})
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		store, err := loadStore(ctx, tx, storeID)
		if err != nil {
			return err
		}
		if product.Currency == "" {
			product.Currency = store.Currency
		}
		if err := productSlugFree(ctx, tx, storeID, product.Slug, ""); err != nil {
			return err
		}
		product.Categories, err = resolveCategories(ctx, tx, storeID, in.CategoryIDs)
		if err != nil {
			return err
		}
		return storeErr(tx.Products.Create(ctx, product), "Product")
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("product created", "product_id", product.ID, "store_id", storeID, "user_id", ac.UserID())
	return product, nil
}

// Update edits a product in place. Its store never changes.
func (s *ProductService) Update(ctx context.Context, ac rbac.AuthContext, id string, in ProductUpdate) (*models.Product, error) {
	var product *models.Product
	err := s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		var err error
		product, err = s.load(ctx, tx, ac, id)
		if err != nil {
			return err
		}
		if err := rejectStoreChange(in.StoreID, product.StoreID); err != nil {
			return err
		}
		if err := bind.Struct(&in); err != nil {
			return err
		}

		applyProductUpdate(product, in)

		if in.Slug != nil {
			slug := Slugify(*in.Slug)
			if slug == "" {
				return apperr.WithFields("Validation failed", map[string]string{"slug": "slug must contain letters or digits"})
			}
			if slug != product.Slug {
				if err := productSlugFree(ctx, tx, product.StoreID, slug, product.ID); err != nil {
					return err
				}
			}
			product.Slug = slug
		}

		var categories []models.Category
		if in.CategoryIDs != nil {
			categories, err = resolveCategories(ctx, tx, product.StoreID, *in.CategoryIDs)
			if err != nil {
				return err
			}
			if categories == nil {
				categories = []models.Category{}
			}
		}
		return storeErr(tx.Products.Update(ctx, product, categories), "Product")
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func applyProductUpdate(p *models.Product, in ProductUpdate) {
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.PriceCents != nil {
		p.PriceCents = *in.PriceCents
	}
	if in.PreviousPriceCents != nil {
		p.PreviousPriceCents = in.PreviousPriceCents
	}
	if in.Currency != nil {
		p.Currency = strings.ToUpper(*in.Currency)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.GalleryURLs != nil {
		p.GalleryURLs = *in.GalleryURLs
	}
	if in.Options != nil {
		p.Options = *in.Options
	}
}

// Delete removes a product and its category links, then queues a purge of
// its media. The purge never affects the outcome of the delete.
func (s *ProductService) Delete(ctx context.Context, ac rbac.AuthContext, id string) error {
	var media []string
	err := s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		product, err := s.load(ctx, tx, ac, id)
		if err != nil {
			return err
		}
		media = product.MediaURLs()
		return storeErr(tx.Products.Delete(ctx, product), "Product")
	})
	if err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("product deleted", "product_id", id, "user_id", ac.UserID(), "media", len(media))
	s.purgeMedia(ctx, id, media)
	return nil
}

func (s *ProductService) purgeMedia(ctx context.Context, productID string, urls []string) {
	if s.disk == nil || s.pool == nil || len(urls) == 0 {
		return
	}
	log := logger.WithCtx(ctx).With("product_id", productID)
	disk := s.disk

	err := s.pool.Submit(func(ctx context.Context) {
		deleted, err := storage.Purge(ctx, disk, urls)
		metrics.MediaPurged.WithLabelValues("deleted").Add(float64(deleted))
		if err != nil {
			metrics.MediaPurged.WithLabelValues("failed").Inc()
			log.Warn("media purge incomplete", "deleted", deleted, "error", err.Error())
		}
	})
	if err != nil {
		metrics.MediaPurged.WithLabelValues("dropped").Inc()
		log.Warn("media purge dropped", "error", err.Error(), "urls", len(urls))
	}
}

func productSlugFree(ctx context.Context, repos *repositories.Repos, storeID, slug, exceptID string) error {
	taken, err := repos.Products.SlugTaken(ctx, storeID, slug, exceptID)
	if err != nil {
		return storeErr(err, "Product")
	}
	if taken {
		return apperr.Newf(apperr.Conflict, "A product with slug %q already exists in this store", slug)
	}
	return nil
}

// resolveCategories loads ids and checks they all exist in storeID.
func resolveCategories(ctx context.Context, repos *repositories.Repos, storeID string, ids []string) ([]models.Category, error) {
	ids = dedupe(ids)
	categories, err := repos.Categories.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "Category")
	}
	if len(categories) != len(ids) {
		return nil, apperr.New(apperr.Validation, "One or more categories do not exist")
	}
	for _, c := range categories {
		if c.StoreID != storeID {
			return nil, apperr.New(apperr.Validation, "Categories must belong to the product's store")
		}
	}
	return categories, nil
}
