package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bdshop/storefront-backend/api/controllers"
	"github.com/bdshop/storefront-backend/api/middleware"
	"github.com/bdshop/storefront-backend/internal/admin"
	"github.com/bdshop/storefront-backend/internal/basket"
	"github.com/bdshop/storefront-backend/internal/catalog"
	"github.com/bdshop/storefront-backend/internal/checkout"
	"github.com/bdshop/storefront-backend/internal/identity"
	"github.com/bdshop/storefront-backend/internal/orders"
	pkgAuth "github.com/bdshop/storefront-backend/pkg/auth"
	"github.com/bdshop/storefront-backend/pkg/config"
	"github.com/bdshop/storefront-backend/pkg/db/models"
	"github.com/bdshop/storefront-backend/pkg/logger"
	"github.com/bdshop/storefront-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (m *memoryCache) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memoryCache) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

type memoryRepo struct {
	mu     sync.Mutex
	states map[string]basket.State
}

func (m *memoryRepo) Load(_ context.Context, profileID string) (basket.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[profileID], nil
}

func (m *memoryRepo) Save(_ context.Context, profileID string, state basket.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[profileID] = state
	return nil
}

type stubResolver struct{}

func (stubResolver) ResolveProduct(_ context.Context, productID string) (basket.ProductRef, error) {
	price := 1500.0
	return basket.ProductRef{ID: productID, Title: "Cotton Panjabi", Price: &price}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(context.Context, catalog.ListProductsInput) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

func (stubCatalogService) GetProduct(_ context.Context, slug string) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{Slug: slug}, nil
}

func (stubCatalogService) ListCategories(context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{}, nil
}

func (stubCatalogService) SaleByCoupon(_ context.Context, code string) (*catalog.SaleDTO, error) {
	return &catalog.SaleDTO{CouponCode: code}, nil
}

func (stubCatalogService) CountProducts(context.Context) (int64, error) {
	return 0, nil
}

type stubCheckoutService struct {
	mu      sync.Mutex
	created int
}

func (s *stubCheckoutService) CreateSession(context.Context, string, *identity.User, checkout.CreateSessionInput) (*checkout.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
	return &checkout.SessionResult{SessionID: fmt.Sprintf("cs_test_%d", s.created), URL: "https://checkout.stripe.com/pay"}, nil
}

func (s *stubCheckoutService) GetSession(_ context.Context, _ *identity.User, id string) (*checkout.SessionDetails, error) {
	return &checkout.SessionDetails{ID: id}, nil
}

func (s *stubCheckoutService) Complete(context.Context, string, *identity.User, string) (*checkout.CompleteResult, error) {
	return &checkout.CompleteResult{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Record(context.Context, orders.RecordInput) (*models.Order, bool, error) {
	return nil, false, nil
}

func (stubOrdersService) List(context.Context, int) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrdersService) ListAll(context.Context) ([]models.Order, error) {
	return nil, nil
}

func (stubOrdersService) Delete(context.Context, string) error {
	return nil
}

type stubAdminService struct{}

func (stubAdminService) Dashboard(context.Context) (*admin.Dashboard, error) {
	return &admin.Dashboard{}, nil
}

func (stubAdminService) DeleteOrder(context.Context, string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		Identity: config.IdentityConfig{
			JWTSecret:   "secret",
			Issuer:      "identity-test",
			AdminEmails: []string{"owner@example.com"},
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"https://shop.example.com"}},
	}
}

type testRouter struct {
	http.Handler
	checkout *stubCheckoutService
	registry *prometheus.Registry
}

func newTestRouter(t *testing.T, cfg *config.Config) *testRouter {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	baskets, err := basket.NewService(&memoryRepo{states: map[string]basket.State{}}, stubResolver{}, logg)
	if err != nil {
		t.Fatalf("basket service: %v", err)
	}
	reg := prometheus.NewRegistry()
	metrics.NewCheckoutMetrics(reg).IncSessionCreated()
	checkoutSvc := &stubCheckoutService{}
	router := NewRouter(
		cfg,
		logg,
		map[string]controllers.Pinger{"db": stubPinger{}},
		&memoryCache{data: map[string]string{}},
		reg,
		stubCatalogService{},
		baskets,
		checkoutSvc,
		stubOrdersService{},
		stubAdminService{},
	)
	return &testRouter{Handler: router, checkout: checkoutSvc, registry: reg}
}

func buildToken(t *testing.T, cfg *config.Config, email string) string {
	t.Helper()
	token, err := pkgAuth.MintIdentityToken(cfg.Identity, time.Now(), time.Hour, pkgAuth.IdentityPayload{
		UserID: "user_test",
		Email:  email,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestMetricsEndpointExposesCheckoutCounters(t *testing.T) {
	router := newTestRouter(t, testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "checkout_sessions_created_total") {
		t.Fatalf("expected checkout counter in exposition, got %s", resp.Body.String())
	}
}

func TestPublicCatalogNeedsNoAuth(t *testing.T) {
	router := newTestRouter(t, testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products?sort=newest", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestBasketRoutesIssueProfile(t *testing.T) {
	router := newTestRouter(t, testConfig())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/basket/items", strings.NewReader(`{"productId":"p-panjabi"}`)))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	profile := resp.Header().Get(middleware.ProfileHeader)
	if profile == "" {
		t.Fatalf("expected issued profile header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/basket/items/p-panjabi", nil)
	req.Header.Set(middleware.ProfileHeader, profile)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if !strings.Contains(resp.Body.String(), `"quantity":1`) {
		t.Fatalf("expected basket to persist across requests, got %s", resp.Body.String())
	}
}

func TestCheckoutRequiresIdentity(t *testing.T) {
	router := newTestRouter(t, testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout/sessions", strings.NewReader(`{}`)))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCheckoutSessionReplaysIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)
	token := buildToken(t, cfg, "buyer@example.com")

	var bodies []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/sessions", strings.NewReader(`{"shipping":{}}`))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(middleware.ProfileHeader, "profile-1")
		req.Header.Set("Idempotency-Key", "checkout-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
		}
		bodies = append(bodies, resp.Body.String())
	}
	if router.checkout.created != 1 {
		t.Fatalf("expected one session created, got %d", router.checkout.created)
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("expected replayed body, got %s and %s", bodies[0], bodies[1])
	}
}

func TestMeRoute(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "Owner@Example.com"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"isAdmin":true`) {
		t.Fatalf("unexpected me response %d %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminEmail(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "buyer@example.com"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	adminReq := httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	adminReq.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "owner@example.com"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, adminReq)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}

	anonymous := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/orders/abc", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, anonymous)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/basket", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	req.Header.Set("Access-Control-Request-Headers", middleware.ProfileHeader)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}
}
