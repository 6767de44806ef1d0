package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storehub/app/models"
)

// CategoryFilter narrows a category listing. An empty StoreID lists every store.
type CategoryFilter struct {
	StoreID string
	Page
}

// CategoryRepository handles database operations for Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CategoryFilter) ([]models.Category, int64, error)
	SlugTaken(ctx context.Context, storeID, slug, exceptID string) (bool, error)
	CountProducts(ctx context.Context, id string) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

func (r *categoryRepository) List(ctx context.Context, filter CategoryFilter) ([]models.Category, int64, error) {
	var (
		categories []models.Category
		total      int64
	)

	db := r.db.WithContext(ctx).Model(&models.Category{})
	if filter.StoreID != "" {
		db = db.Where("store_id = ?", filter.StoreID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(db, filter.Page).Order("title ASC").Find(&categories).Error
	return categories, total, err
}

func (r *categoryRepository) SlugTaken(ctx context.Context, storeID, slug, exceptID string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&models.Category{}).Where("store_id = ? AND slug = ?", storeID, slug)
	if exceptID != "" {
		db = db.Where("id <> ?", exceptID)
	}
	err := db.Count(&n).Error
	return n > 0, err
}

// CountProducts counts product links to the category.
func (r *categoryRepository) CountProducts(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("product_categories").Where("category_id = ?", id).Count(&n).Error
	return n, err
}
