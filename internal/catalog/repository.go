package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/bdshop/storefront-backend/internal/repo"
	"github.com/bdshop/storefront-backend/pkg/db/models"
	"github.com/bdshop/storefront-backend/pkg/enums"
)

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Query    string
	Category string
	Sort     enums.ProductSort
}

const categoryExistsClause = `EXISTS (
  SELECT 1 FROM product_categories pc
  JOIN categories c ON c.id = pc.category_id
  WHERE pc.product_id = products.id AND c.slug = ?
)`

const searchClause = `(LOWER(products.title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(products.description, '')) LIKE ? ESCAPE '\')`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository runs read-only catalog queries.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListProducts returns products matching filter. Without a sort the listing is
// ordered by title; a missing price sorts as 0.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	qb := r.DB(ctx).Model(&models.Product{}).Preload("Categories")

	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		qb = qb.Where(searchClause, pattern, pattern)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		qb = qb.Where(categoryExistsClause, strings.ToLower(category))
	}

	switch filter.Sort {
	case enums.ProductSortPriceLow:
		qb = qb.Order("COALESCE(products.price, 0) ASC").Order("products.title ASC")
	case enums.ProductSortPriceHigh:
		qb = qb.Order("COALESCE(products.price, 0) DESC").Order("products.title ASC")
	case enums.ProductSortNewest:
		qb = qb.Order("products.created_at DESC").Order("products.id DESC")
	default:
		qb = qb.Order("products.title ASC")
	}

	var products []models.Product
	if err := qb.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.first(ctx, "slug = ?", strings.TrimSpace(slug))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.first(ctx, "id = ?", strings.TrimSpace(id))
}

func (r *Repository) first(ctx context.Context, where string, arg any) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).Preload("Categories").Where(where, arg).First(&product).Error
	if err != nil {
		return nil, repo.NotFound(err, "product not found")
	}
	return &product, nil
}

// ListCategories returns every category ordered by title.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB(ctx).Order("title ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ActiveSaleByCoupon returns the active sale for code with the latest valid_until.
func (r *Repository) ActiveSaleByCoupon(ctx context.Context, code string) (*models.Sale, error) {
	var sale models.Sale
	err := r.DB(ctx).
		Where("is_active = ? AND coupon_code = ?", true, code).
		Order("valid_until DESC NULLS LAST").
		First(&sale).Error
	if err != nil {
		return nil, repo.NotFound(err, "no active sale for coupon")
	}
	return &sale, nil
}

func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
