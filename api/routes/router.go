package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bdshop/storefront-backend/api/controllers"
	"github.com/bdshop/storefront-backend/api/middleware"
	"github.com/bdshop/storefront-backend/internal/admin"
	"github.com/bdshop/storefront-backend/internal/basket"
	"github.com/bdshop/storefront-backend/internal/catalog"
	"github.com/bdshop/storefront-backend/internal/checkout"
	"github.com/bdshop/storefront-backend/internal/identity"
	"github.com/bdshop/storefront-backend/internal/orders"
	"github.com/bdshop/storefront-backend/pkg/config"
	"github.com/bdshop/storefront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	responseCache middleware.ResponseCache,
	gatherer prometheus.Gatherer,
	catalogService catalog.Service,
	basketService basket.Service,
	checkoutService checkout.Service,
	ordersService orders.Service,
	adminService admin.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	adminPolicy := identity.NewAdminPolicy(cfg.Identity.AdminEmails)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(catalogService, logg))
		r.Get("/products/{slug}", controllers.GetProduct(catalogService, logg))
		r.Get("/categories", controllers.ListCategories(catalogService, logg))
		r.Get("/sales/coupons/{code}", controllers.SaleByCoupon(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Profile(logg))

			r.Route("/basket", func(r chi.Router) {
				r.Get("/", controllers.BasketFetch(basketService, logg))
				r.Delete("/", controllers.BasketClear(basketService, logg))
				r.Post("/items", controllers.BasketAddItem(basketService, logg))
				r.Get("/items/{productId}", controllers.BasketItemCount(basketService, logg))
				r.Delete("/items/{productId}", controllers.BasketDecrement(basketService, logg))
				r.Delete("/items/{productId}/all", controllers.BasketRemoveItem(basketService, logg))
			})
			r.Route("/orders/history", func(r chi.Router) {
				r.Get("/", controllers.OrderHistory(basketService, logg))
				r.Post("/cleanup", controllers.OrderHistoryCleanup(basketService, logg))
				r.Delete("/", controllers.OrderHistoryClear(basketService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.Identity, logg))
				r.Use(middleware.Idempotency(responseCache, logg))

				r.Get("/me", controllers.Me(adminPolicy, logg))
				r.Route("/checkout", func(r chi.Router) {
					r.Post("/sessions", controllers.CheckoutCreateSession(checkoutService, logg))
					r.Get("/sessions/{sessionId}", controllers.CheckoutGetSession(checkoutService, logg))
					r.Post("/complete", controllers.CheckoutComplete(checkoutService, logg))
					r.Get("/cancel", controllers.CheckoutCancel(logg))
				})
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Identity, logg))
		r.Use(middleware.RequireAdmin(adminPolicy, logg))
		r.Use(middleware.Idempotency(responseCache, logg))

		r.Get("/dashboard", controllers.AdminDashboard(adminService, logg))
		r.Get("/orders", controllers.AdminListOrders(ordersService, logg))
		r.Delete("/orders/{orderId}", controllers.AdminDeleteOrder(adminService, logg))
	})

	return r
}
