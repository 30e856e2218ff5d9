package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	admincontrollers "github.com/angelmondragon/storefront/api/controllers/admin"
	cartcontrollers "github.com/angelmondragon/storefront/api/controllers/cart"
	catalogcontrollers "github.com/angelmondragon/storefront/api/controllers/catalog"
	ordercontrollers "github.com/angelmondragon/storefront/api/controllers/orders"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/admin"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

// Dependencies bundles what the HTTP surface needs from cmd/api.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Ready    map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics
	Counters middleware.CounterStore

	Cart    cart.Service
	Orders  orders.Service
	Catalog catalog.Service
	Admin   admin.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App),
		middleware.Metrics(deps.HTTP),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogcontrollers.ListProducts(deps.Catalog, logg))
		r.Get("/products/{productId}", catalogcontrollers.GetProduct(deps.Catalog, logg))
		r.Get("/categories", catalogcontrollers.ListCategories(deps.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(deps.Cart, logg))
				r.Delete("/", cartcontrollers.CartClear(deps.Cart, logg))
				r.Put("/district", cartcontrollers.CartSelectDistrict(deps.Cart, logg))
				r.Post("/items", cartcontrollers.CartAddItem(deps.Cart, logg))
				r.Post("/items/{productId}/increment", cartcontrollers.CartIncrement(deps.Cart, logg))
				r.Post("/items/{productId}/decrement", cartcontrollers.CartDecrement(deps.Cart, logg))
				r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(deps.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.ListSubmissions(deps.Orders, logg))
				r.Post("/", ordercontrollers.PlaceCartOrder(deps.Orders, logg))
				r.Post("/direct", ordercontrollers.PlaceDirectOrder(deps.Orders, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(loginPolicy(cfg.RateLimit), deps.Counters, logg)).
			Post("/auth/login", admincontrollers.Login(deps.Admin, logg))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.AdminAuth(cfg.JWT, logg),
				middleware.RequireRole(adminRole(cfg.JWT), logg),
			)

			r.Get("/me", admincontrollers.Me(deps.Admin, logg))
			r.Patch("/me", admincontrollers.UpdateProfile(deps.Admin, logg))
			r.Post("/accounts/change-password", admincontrollers.ChangePassword(deps.Admin, logg))

			r.Get("/dashboard", admincontrollers.Dashboard(deps.Admin, logg))

			r.Post("/products", admincontrollers.CreateProduct(deps.Admin, logg))
			r.Patch("/products/{productId}", admincontrollers.UpdateProduct(deps.Admin, logg))
			r.Delete("/products/{productId}", admincontrollers.DeleteProduct(deps.Admin, logg))

			r.Post("/categories", admincontrollers.CreateCategory(deps.Admin, logg))
			r.Patch("/categories/{categoryId}", admincontrollers.UpdateCategory(deps.Admin, logg))
			r.Delete("/categories/{categoryId}", admincontrollers.DeleteCategory(deps.Admin, logg))

			r.Get("/orders", admincontrollers.ListOrders(deps.Admin, logg))
			r.Get("/orders/{orderId}", admincontrollers.GetOrder(deps.Admin, logg))
			r.Patch("/orders/{orderId}/status", admincontrollers.UpdateOrderStatus(deps.Admin, logg))
		})
	})

	return r
}

func adminRole(cfg config.JWTConfig) string {
	if cfg.AdminRole != "" {
		return cfg.AdminRole
	}
	return "admin"
}

func loginPolicy(cfg config.RateLimitConfig) middleware.LoginLimitPolicy {
	return middleware.LoginLimitPolicy{
		Scope:      "admin_login",
		Window:     cfg.LoginWindow,
		IPLimit:    cfg.LoginIPLimit,
		EmailLimit: cfg.LoginEmailLimit,
	}
}
