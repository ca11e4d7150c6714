package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bdshop/storefront-backend/pkg/db/models"
	"github.com/bdshop/storefront-backend/pkg/enums"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
)

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatalf("expected nil repository to be rejected")
	}
}

func TestListProductsRejectsUnknownSort(t *testing.T) {
	repo := &stubRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.ListProducts(context.Background(), ListProductsInput{Sort: "cheapest"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.listCalls != 0 {
		t.Fatalf("repository should not be queried on invalid sort")
	}
}

func TestListProductsPassesFilterAndMapsDTO(t *testing.T) {
	gender := enums.ProductGenderFemale
	repo := &stubRepository{
		products: []models.Product{{
			ID:         "p-saree",
			Title:      "Red Saree",
			Slug:       "red-saree",
			Price:      decimal.NewNullDecimal(decimal.RequireFromString("3200.50")),
			Gender:     &gender,
			Stock:      2,
			Categories: []models.Category{{ID: "cat-women", Title: "Women", Slug: "women"}},
		}, {
			ID:    "p-free",
			Title: "Gift Card",
			Slug:  "gift-card",
		}},
	}
	svc, _ := NewService(repo)

	products, err := svc.ListProducts(context.Background(), ListProductsInput{Query: "saree", Sort: " Price-High ", Category: "women"})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if repo.lastFilter.Sort != enums.ProductSortPriceHigh || repo.lastFilter.Query != "saree" || repo.lastFilter.Category != "women" {
		t.Fatalf("unexpected filter %+v", repo.lastFilter)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	saree := products[0]
	if saree.Price == nil || *saree.Price != 3200.5 {
		t.Fatalf("unexpected price %v", saree.Price)
	}
	if saree.Gender == nil || *saree.Gender != "female" {
		t.Fatalf("unexpected gender %v", saree.Gender)
	}
	if !saree.InStock || len(saree.Categories) != 1 || saree.Categories[0].Slug != "women" {
		t.Fatalf("unexpected dto %+v", saree)
	}

	gift := products[1]
	if gift.Price != nil {
		t.Fatalf("expected missing price to stay nil, got %v", *gift.Price)
	}
	if gift.InStock {
		t.Fatalf("zero stock must not be in stock")
	}
	if gift.Categories == nil {
		t.Fatalf("categories should be an empty slice, not nil")
	}
}

func TestListProductsWrapsRepositoryFailure(t *testing.T) {
	svc, _ := NewService(&stubRepository{err: errors.New("connection reset")})

	_, err := svc.ListProducts(context.Background(), ListProductsInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGetProductKeepsNotFound(t *testing.T) {
	svc, _ := NewService(&stubRepository{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")})

	_, err := svc.GetProduct(context.Background(), "missing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := svc.GetProduct(context.Background(), "  "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank slug, got %v", err)
	}
}

func TestSaleByCouponTrimsCode(t *testing.T) {
	repo := &stubRepository{sale: &models.Sale{ID: "s1", Title: "Eid", CouponCode: "EID25", DiscountAmount: decimal.NewFromInt(25), IsActive: true}}
	svc, _ := NewService(repo)

	sale, err := svc.SaleByCoupon(context.Background(), " EID25 ")
	if err != nil {
		t.Fatalf("sale by coupon: %v", err)
	}
	if repo.lastCoupon != "EID25" {
		t.Fatalf("expected trimmed coupon, got %q", repo.lastCoupon)
	}
	if sale.DiscountAmount != 25 || !sale.IsActive {
		t.Fatalf("unexpected sale %+v", sale)
	}

	if _, err := svc.SaleByCoupon(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty coupon, got %v", err)
	}
}

type stubRepository struct {
	products   []models.Product
	sale       *models.Sale
	err        error
	listCalls  int
	lastFilter ProductFilter
	lastCoupon string
}

func (s *stubRepository) ListProducts(_ context.Context, filter ProductFilter) ([]models.Product, error) {
	s.listCalls++
	s.lastFilter = filter
	return s.products, s.err
}

func (s *stubRepository) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].Slug == slug {
			return &s.products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubRepository) ListCategories(context.Context) ([]models.Category, error) {
	return nil, s.err
}

func (s *stubRepository) ActiveSaleByCoupon(_ context.Context, code string) (*models.Sale, error) {
	s.lastCoupon = code
	if s.err != nil {
		return nil, s.err
	}
	if s.sale == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active sale for coupon")
	}
	return s.sale, nil
}

func (s *stubRepository) CountProducts(context.Context) (int64, error) {
	return int64(len(s.products)), s.err
}
