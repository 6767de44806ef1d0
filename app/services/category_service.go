package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storehub/app/models"
	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
	"github.com/shashiranjanraj/storehub/pkg/bind"
	"github.com/shashiranjanraj/storehub/pkg/database"
	"github.com/shashiranjanraj/storehub/pkg/logger"
	"github.com/shashiranjanraj/storehub/pkg/rbac"
)

// CategoryInput creates a category. StoreID is honoured only for SUPER_ADMIN.
type CategoryInput struct {
	StoreID     string  `json:"storeId"`
	Title       string  `json:"title"       validate:"required,max=255"`
	Slug        string  `json:"slug"        validate:"omitempty,max=255"`
	Description *string `json:"description"`
	IconURL     *string `json:"iconUrl"     validate:"omitempty,url"`
}

// CategoryUpdate changes only the fields that are set.
type CategoryUpdate struct {
	StoreID     *string `json:"storeId"`
	Title       *string `json:"title"       validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug"        validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	IconURL     *string `json:"iconUrl"     validate:"omitempty,url"`
}

type CategoryService struct {
	repos *repositories.Repos
}

func NewCategoryService(repos *repositories.Repos) *CategoryService {
	return &CategoryService{repos: repos}
}

// PublicList lists categories of one store, or of all stores when storeID is empty.
func (s *CategoryService) PublicList(ctx context.Context, storeID string, page repositories.Page) ([]models.Category, int64, error) {
	list, total, err := s.repos.Categories.List(ctx, repositories.CategoryFilter{StoreID: strings.TrimSpace(storeID), Page: page})
	if err != nil {
		return nil, 0, storeErr(err, "Category")
	}
	return list, total, nil
}

// List is the back-office listing, scoped to the caller's tenant.
func (s *CategoryService) List(ctx context.Context, ac rbac.AuthContext, storeID string, page repositories.Page) ([]models.Category, int64, error) {
	tenant, err := rbac.ListingTenant(ac, storeID)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repos.Categories.List(ctx, repositories.CategoryFilter{StoreID: tenant, Page: page})
	if err != nil {
		return nil, 0, storeErr(err, "Category")
	}
	return list, total, nil
}

// Get returns one category the caller may see.
func (s *CategoryService) Get(ctx context.Context, ac rbac.AuthContext, id string) (*models.Category, error) {
	return s.load(ctx, s.repos, ac, id)
}

func (s *CategoryService) load(ctx context.Context, repos *repositories.Repos, ac rbac.AuthContext, id string) (*models.Category, error) {
	if err := rbac.RequireAdmin(ac); err != nil {
		return nil, err
	}
	category, err := repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Category")
	}
	if err := rbac.AuthorizeResource(ac, category.StoreID); err != nil {
		return nil, err
	}
	return category, nil
}

// Create adds a category to the effective tenant.
func (s *CategoryService) Create(ctx context.Context, ac rbac.AuthContext, in CategoryInput) (*models.Category, error) {
	storeID, err := rbac.CreationTenant(ac, in.StoreID)
	if err != nil {
		return nil, err
	}
	if err := bind.Struct(&in); err != nil {
		return nil, err
	}

	category := &models.Category{
		StoreID:     storeID,
		Title:       strings.TrimSpace(in.Title),
		Slug:        Slugify(in.Slug),
		Description: in.Description,
		IconURL:     in.IconURL,
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Title)
	}
	if category.Slug == "" {
		return nil, apperr.WithFields("Validation failed", map[string]string{"slug": "slug must contain letters or digits"})
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		if _, err := loadStore(ctx, tx, storeID); err != nil {
			return err
		}
		if err := categorySlugFree(ctx, tx, storeID, category.Slug, ""); err != nil {
			return err
		}
		return storeErr(tx.Categories.Create(ctx, category), "Category")
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("category created", "category_id", category.ID, "store_id", storeID, "user_id", ac.UserID())
	return category, nil
}

// Update edits a category in place. Its store never changes.
func (s *CategoryService) Update(ctx context.Context, ac rbac.AuthContext, id string, in CategoryUpdate) (*models.Category, error) {
	var category *models.Category
	err := s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		var err error
		category, err = s.load(ctx, tx, ac, id)
		if err != nil {
			return err
		}
		if err := rejectStoreChange(in.StoreID, category.StoreID); err != nil {
			return err
		}
		if err := bind.Struct(&in); err != nil {
			return err
		}

		if in.Title != nil {
			category.Title = strings.TrimSpace(*in.Title)
		}
		if in.Slug != nil {
			slug := Slugify(*in.Slug)
			if slug == "" {
				return apperr.WithFields("Validation failed", map[string]string{"slug": "slug must contain letters or digits"})
			}
			if slug != category.Slug {
				if err := categorySlugFree(ctx, tx, category.StoreID, slug, category.ID); err != nil {
					return err
				}
			}
			category.Slug = slug
		}
		if in.Description != nil {
			category.Description = in.Description
		}
		if in.IconURL != nil {
			category.IconURL = in.IconURL
		}
		return storeErr(tx.Categories.Update(ctx, category), "Category")
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category that no product uses.
func (s *CategoryService) Delete(ctx context.Context, ac rbac.AuthContext, id string) error {
	err := s.repos.Transaction(ctx, func(tx *repositories.Repos) error {
		category, err := s.load(ctx, tx, ac, id)
		if err != nil {
			return err
		}
		n, err := tx.Categories.CountProducts(ctx, category.ID)
		if err != nil {
			return storeErr(err, "Category")
		}
		if n > 0 {
			return apperr.Newf(apperr.Conflict, "Category is used by %d product(s)", n)
		}
		if err := tx.Categories.Delete(ctx, category.ID); err != nil {
			if database.IsForeignKeyViolation(err) {
				return apperr.Wrap(apperr.Conflict, err, "Category is still in use")
			}
			return storeErr(err, "Category")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("category deleted", "category_id", id, "user_id", ac.UserID())
	return nil
}

func categorySlugFree(ctx context.Context, repos *repositories.Repos, storeID, slug, exceptID string) error {
	taken, err := repos.Categories.SlugTaken(ctx, storeID, slug, exceptID)
	if err != nil {
		return storeErr(err, "Category")
	}
	if taken {
		return apperr.Newf(apperr.Conflict, "A category with slug %q already exists in this store", slug)
	}
	return nil
}

// loadStore fetches the target store of a write. A missing store is the
// caller's input problem, not a missing resource.
func loadStore(ctx context.Context, repos *repositories.Repos, storeID string) (*models.Store, error) {
	store, err := repos.Stores.GetByID(ctx, storeID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.New(apperr.Validation, "Store not found")
		}
		return nil, storeErr(err, "Store")
	}
	return store, nil
}

func rejectStoreChange(requested *string, current string) error {
	if requested == nil {
		return nil
	}
	if r := strings.TrimSpace(*requested); r != "" && r != current {
		return apperr.New(apperr.Validation, "Moving records between stores is not supported")
	}
	return nil
}
