package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storehub/app/models"
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	StoreID    string // empty = every store
	CategoryID string
	Featured   *bool
	ActiveOnly bool
	Search     string
	Page
}

// ProductRepository handles database operations for Product.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product, categories []models.Category) error
	Delete(ctx context.Context, product *models.Product) error
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	SlugTaken(ctx context.Context, storeID, slug, exceptID string) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts the product and its category links.
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Categories").Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// Update saves scalar columns. A non-nil categories slice replaces the
// product's links; nil leaves them alone.
func (r *productRepository) Update(ctx context.Context, product *models.Product, categories []models.Category) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(product).Error; err != nil {
		return err
	}
	if categories == nil {
		return nil
	}
	assoc := db.Model(product).Association("Categories")
	if len(categories) == 0 {
		if err := assoc.Clear(); err != nil {
			return err
		}
	} else if err := assoc.Replace(categories); err != nil {
		return err
	}
	product.Categories = categories
	return nil
}

// Delete removes the product row and its category links.
func (r *productRepository) Delete(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Select("Categories").Delete(product).Error
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	var (
		products []models.Product
		total    int64
	)

	db := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.StoreID != "" {
		db = db.Where("products.store_id = ?", filter.StoreID)
	}
	if filter.ActiveOnly {
		db = db.Where("products.active = ?", true)
	}
	if filter.Featured != nil {
		db = db.Where("products.featured = ?", *filter.Featured)
	}
	if filter.CategoryID != "" {
		db = db.Where("products.id IN (?)",
			r.db.Table("product_categories").Select("product_id").Where("category_id = ?", filter.CategoryID))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("products.title LIKE ? OR products.sku LIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(db, filter.Page).
		Preload("Categories").
		Order("products.created_at DESC").
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) SlugTaken(ctx context.Context, storeID, slug, exceptID string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&models.Product{}).Where("store_id = ? AND slug = ?", storeID, slug)
	if exceptID != "" {
		db = db.Where("id <> ?", exceptID)
	}
	err := db.Count(&n).Error
	return n > 0, err
}
