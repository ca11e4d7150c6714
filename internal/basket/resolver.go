package basket

import (
	"context"
	"fmt"

	"github.com/bdshop/storefront-backend/pkg/db/models"
)

// ProductResolver turns a product id into the ProductRef stored in the basket.
type ProductResolver interface {
	ResolveProduct(ctx context.Context, productID string) (ProductRef, error)
}

type productLoader interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

type catalogResolver struct {
	products productLoader
}

// NewCatalogResolver resolves ProductRefs from catalog products.
func NewCatalogResolver(products productLoader) (ProductResolver, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &catalogResolver{products: products}, nil
}

func (r *catalogResolver) ResolveProduct(ctx context.Context, productID string) (ProductRef, error) {
	product, err := r.products.GetByID(ctx, productID)
	if err != nil {
		return ProductRef{}, err
	}
	return RefFromProduct(product), nil
}

// RefFromProduct copies the fields the basket keeps from a catalog product.
func RefFromProduct(p *models.Product) ProductRef {
	if p == nil {
		return ProductRef{}
	}
	ref := ProductRef{
		ID:    p.ID,
		Title: p.Title,
		Price: p.PriceFloat(),
		Slug:  p.Slug,
	}
	if p.ImageURL != nil {
		ref.Image = *p.ImageURL
	}
	return ref
}
