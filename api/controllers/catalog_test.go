package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bdshop/storefront-backend/internal/catalog"
	"github.com/bdshop/storefront-backend/pkg/config"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
)

type stubCatalogService struct {
	input catalog.ListProductsInput
	code  string
}

func (s *stubCatalogService) ListProducts(_ context.Context, input catalog.ListProductsInput) ([]catalog.ProductDTO, error) {
	s.input = input
	if input.Sort == "cheapest" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort option")
	}
	return []catalog.ProductDTO{{ID: "p-1", Title: "Cotton Panjabi", Slug: "cotton-panjabi"}}, nil
}

func (s *stubCatalogService) GetProduct(_ context.Context, slug string) (*catalog.ProductDTO, error) {
	if slug != "cotton-panjabi" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &catalog.ProductDTO{ID: "p-1", Slug: slug}, nil
}

func (s *stubCatalogService) ListCategories(context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{{ID: "c-1", Slug: "men"}}, nil
}

func (s *stubCatalogService) SaleByCoupon(_ context.Context, code string) (*catalog.SaleDTO, error) {
	s.code = code
	return &catalog.SaleDTO{CouponCode: code, DiscountAmount: 10}, nil
}

func (s *stubCatalogService) CountProducts(context.Context) (int64, error) {
	return 1, nil
}

func TestListProductsPassesFilters(t *testing.T) {
	svc := &stubCatalogService{}
	rec := httptest.NewRecorder()
	ListProducts(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?query=%20panjabi%20&sort=price-low&category=men", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.input.Query != "panjabi" || svc.input.Sort != "price-low" || svc.input.Category != "men" {
		t.Fatalf("unexpected filters %+v", svc.input)
	}

	rec = httptest.NewRecorder()
	ListProducts(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?sort=cheapest", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid sort got %d", rec.Code)
	}
}

func TestGetProductBySlug(t *testing.T) {
	svc := &stubCatalogService{}
	rec := httptest.NewRecorder()
	GetProduct(svc, testLogger()).ServeHTTP(rec, profileRequest(http.MethodGet, "/api/v1/products/unknown", "", nil, map[string]string{"slug": "unknown"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	GetProduct(svc, testLogger()).ServeHTTP(rec, profileRequest(http.MethodGet, "/api/v1/products/cotton-panjabi", "", nil, map[string]string{"slug": "cotton-panjabi"}))
	var product catalog.ProductDTO
	decodeEnvelope(t, rec, &product)
	if product.Slug != "cotton-panjabi" {
		t.Fatalf("unexpected product %+v", product)
	}
}

func TestSaleByCoupon(t *testing.T) {
	svc := &stubCatalogService{}
	rec := httptest.NewRecorder()
	SaleByCoupon(svc, testLogger()).ServeHTTP(rec, profileRequest(http.MethodGet, "/api/v1/sales/coupons/EID25", "", nil, map[string]string{"code": "EID25"}))
	if rec.Code != http.StatusOK || svc.code != "EID25" {
		t.Fatalf("unexpected response %d for code %q", rec.Code, svc.code)
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	rec := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": stubPinger{}, "redis": nil}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get(envHeader) != "test" {
		t.Fatalf("expected env header")
	}

	rec = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": stubPinger{err: context.DeadlineExceeded}}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}
