package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/bdshop/storefront-backend/pkg/db/models"
	"github.com/bdshop/storefront-backend/pkg/enums"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
)

type repository interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ActiveSaleByCoupon(ctx context.Context, code string) (*models.Sale, error)
	CountProducts(ctx context.Context) (int64, error)
}

// ListProductsInput carries raw listing parameters from the HTTP layer.
type ListProductsInput struct {
	Query    string
	Sort     string
	Category string
}

// Service exposes catalog reads.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, error)
	GetProduct(ctx context.Context, slug string) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	SaleByCoupon(ctx context.Context, code string) (*SaleDTO, error)
	CountProducts(ctx context.Context) (int64, error)
}

type service struct {
	repo repository
}

// NewService builds a catalog service backed by repo.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, error) {
	sort, err := enums.ParseProductSort(input.Sort)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort option").WithDetails(map[string]any{
			"sort": input.Sort,
		})
	}
	products, err := s.repo.ListProducts(ctx, ProductFilter{
		Query:    input.Query,
		Category: input.Category,
		Sort:     sort,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductDTO(p))
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, slug string) (*ProductDTO, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, passThrough(err, "get product")
	}
	dto := NewProductDTO(*product)
	return &dto, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, NewCategoryDTO(c))
	}
	return out, nil
}

func (s *service) SaleByCoupon(ctx context.Context, code string) (*SaleDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	sale, err := s.repo.ActiveSaleByCoupon(ctx, code)
	if err != nil {
		return nil, passThrough(err, "get sale")
	}
	dto := NewSaleDTO(*sale)
	return &dto, nil
}

func (s *service) CountProducts(ctx context.Context) (int64, error) {
	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	return count, nil
}

func passThrough(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
