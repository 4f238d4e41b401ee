package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberwick/emberwick-backend/api/controllers"
	"github.com/emberwick/emberwick-backend/api/middleware"
	cartsvc "github.com/emberwick/emberwick-backend/internal/cart"
	"github.com/emberwick/emberwick-backend/internal/catalog"
	checkoutsvc "github.com/emberwick/emberwick-backend/internal/checkout"
	"github.com/emberwick/emberwick-backend/internal/coupons"
	"github.com/emberwick/emberwick-backend/internal/customers"
	"github.com/emberwick/emberwick-backend/internal/dashboard"
	"github.com/emberwick/emberwick-backend/internal/orders"
	"github.com/emberwick/emberwick-backend/pkg/config"
	"github.com/emberwick/emberwick-backend/pkg/db"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/metrics"
	pkgredis "github.com/emberwick/emberwick-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.Client
	Redis       *pkgredis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Catalog       catalog.Service
	CatalogAdmin  catalog.AdminService
	Cart          cartsvc.Service
	Checkout      checkoutsvc.Service
	CouponAdmin   coupons.AdminService
	OrderAdmin    orders.AdminService
	CustomerAdmin customers.AdminService
	Dashboard     dashboard.Service
}

// NewRouter assembles the full HTTP surface: storefront under /api/v1,
// back office under /api/admin/v1, plus health and metrics.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Get("/{slug}", controllers.ProductGet(deps.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartToken(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(deps.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
				r.Post("/coupon", controllers.CartApplyCoupon(deps.Cart, logg))
				r.Delete("/coupon", controllers.CartRemoveCoupon(deps.Cart, logg))
			})

			r.With(middleware.Idempotency(deps.Redis, cfg.Checkout.IdempotencyTTL, logg)).
				Post("/checkout", controllers.CheckoutPlaceOrder(deps.Checkout, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(deps.CatalogAdmin, logg))
			r.Post("/", controllers.AdminProductCreate(deps.CatalogAdmin, logg))
			r.Get("/{id}", controllers.AdminProductGet(deps.CatalogAdmin, logg))
			r.Patch("/{id}", controllers.AdminProductUpdate(deps.CatalogAdmin, logg))
			r.Delete("/{id}", controllers.AdminProductDelete(deps.CatalogAdmin, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminCouponList(deps.CouponAdmin, logg))
			r.Post("/", controllers.AdminCouponCreate(deps.CouponAdmin, logg))
			r.Get("/{id}", controllers.AdminCouponGet(deps.CouponAdmin, logg))
			r.Patch("/{id}", controllers.AdminCouponUpdate(deps.CouponAdmin, logg))
			r.Delete("/{id}", controllers.AdminCouponDelete(deps.CouponAdmin, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.OrderAdmin, logg))
			r.Get("/{id}", controllers.AdminOrderGet(deps.OrderAdmin, logg))
			r.Patch("/{id}/status", controllers.AdminOrderUpdateStatus(deps.OrderAdmin, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCustomerList(deps.CustomerAdmin, logg))
			r.Get("/{id}", controllers.AdminCustomerGet(deps.CustomerAdmin, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", controllers.AdminDashboardSummary(deps.Dashboard, logg))
			r.Get("/top-products", controllers.AdminDashboardTopProducts(deps.Dashboard, logg))
			r.Get("/daily-revenue", controllers.AdminDashboardDailyRevenue(deps.Dashboard, logg))
		})
	})

	return r
}
