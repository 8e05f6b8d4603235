package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/woodkari/woodkari-backend/api/controllers"
	"github.com/woodkari/woodkari-backend/api/middleware"
	accountsvc "github.com/woodkari/woodkari-backend/internal/account"
	addresssvc "github.com/woodkari/woodkari-backend/internal/address"
	"github.com/woodkari/woodkari-backend/internal/auth"
	cartsvc "github.com/woodkari/woodkari-backend/internal/cart"
	"github.com/woodkari/woodkari-backend/internal/catalog"
	checkoutsvc "github.com/woodkari/woodkari-backend/internal/checkout"
	"github.com/woodkari/woodkari-backend/internal/media"
	ordersvc "github.com/woodkari/woodkari-backend/internal/orders"
	"github.com/woodkari/woodkari-backend/pkg/auth/session"
	"github.com/woodkari/woodkari-backend/pkg/config"
	"github.com/woodkari/woodkari-backend/pkg/enums"
	"github.com/woodkari/woodkari-backend/pkg/logger"
	"github.com/woodkari/woodkari-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	Metrics        prometheus.Gatherer

	Auth      auth.Service
	Reset     auth.ResetService
	Catalog   catalog.Service
	Admin     catalog.AdminService
	Cart      cartsvc.Service
	Checkout  checkoutsvc.Service
	Orders    ordersvc.Service
	Addresses addresssvc.Service
	Account   accountsvc.Service
	Media     *media.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		0,
	)
	forgotPolicy := middleware.NewAuthRateLimitPolicy(
		"forgot",
		cfg.AuthRateLimit.ForgotPasswordWindow,
		cfg.AuthRateLimit.ForgotPasswordIPLimit,
		cfg.AuthRateLimit.ForgotPasswordEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(forgotPolicy, deps.Redis, logg)).Post("/forgot-password", controllers.AuthForgotPassword(deps.Reset, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(deps.Reset, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", controllers.CatalogCategories(deps.Catalog, logg))
		r.Get("/products", controllers.CatalogProducts(deps.Catalog, logg))
		r.Get("/products/{slug}", controllers.CatalogProductDetail(deps.Catalog, logg))
		r.Get("/products/{slug}/related", controllers.CatalogRelatedProducts(deps.Catalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.AccountProfile(deps.Account, logg))
			r.Put("/", controllers.AccountUpdateProfile(deps.Account, logg))
			r.Delete("/", controllers.AccountDelete(deps.Account, logg))
			r.Put("/password", controllers.AccountChangePassword(deps.Account, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Post("/", controllers.CartAdd(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/merge", controllers.CartMerge(deps.Cart, logg))
			r.Patch("/{itemId}", controllers.CartSetQuantity(deps.Cart, logg))
			r.Delete("/{itemId}", controllers.CartRemove(deps.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(deps.Addresses, logg))
			r.Post("/", controllers.AddressCreate(deps.Addresses, logg))
			r.Put("/{addressId}", controllers.AddressUpdate(deps.Addresses, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(deps.Addresses, logg))
			r.Post("/{addressId}/default", controllers.AddressSetDefault(deps.Addresses, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Post("/upload", controllers.AdminUpload(deps.Media, logg))

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductsList(deps.Admin, logg))
			r.Post("/", controllers.AdminProductCreate(deps.Admin, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(deps.Admin, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(deps.Admin, logg))
			r.Post("/{productId}/status", controllers.AdminProductToggleStatus(deps.Admin, logg))
		})

		r.Route("/v1/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategoriesList(deps.Catalog, logg))
			r.Post("/", controllers.AdminCategoryCreate(deps.Admin, logg))
			r.Put("/{categoryId}", controllers.AdminCategoryUpdate(deps.Admin, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(deps.Admin, logg))
		})

		r.Get("/v1/orders", controllers.AdminOrdersList(deps.Orders, logg))
	})

	return r
}
