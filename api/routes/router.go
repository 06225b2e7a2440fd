package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calderapos/caldera-backend/api/controllers"
	"github.com/calderapos/caldera-backend/api/middleware"
	authsvc "github.com/calderapos/caldera-backend/internal/auth"
	"github.com/calderapos/caldera-backend/internal/cogs"
	"github.com/calderapos/caldera-backend/internal/discounts"
	"github.com/calderapos/caldera-backend/internal/inventory"
	"github.com/calderapos/caldera-backend/internal/locations"
	"github.com/calderapos/caldera-backend/internal/orders"
	"github.com/calderapos/caldera-backend/internal/products"
	"github.com/calderapos/caldera-backend/internal/reports"
	"github.com/calderapos/caldera-backend/internal/settings"
	"github.com/calderapos/caldera-backend/internal/terminals"
	"github.com/calderapos/caldera-backend/pkg/auth/session"
	"github.com/calderapos/caldera-backend/pkg/config"
	"github.com/calderapos/caldera-backend/pkg/csrf"
	"github.com/calderapos/caldera-backend/pkg/db"
	"github.com/calderapos/caldera-backend/pkg/enums"
	"github.com/calderapos/caldera-backend/pkg/logger"
	"github.com/calderapos/caldera-backend/pkg/metrics"
	"github.com/calderapos/caldera-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth      authsvc.Service
	Products  products.Service
	Inventory inventory.Service
	Discounts discounts.Service
	Cogs      cogs.Service
	Orders    orders.Service
	Settings  settings.Service
	Terminals terminals.Service
	Locations locations.Service
	Reports   reports.Service
}

// NewRouter assembles the HTTP surface: public health and auth endpoints,
// then the tenant-scoped API behind session, tenant, and CSRF middleware.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database *db.Client,
	redisClient *redis.Client,
	sessions *session.Manager,
	csrfStore *csrf.Store,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/users", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login/", controllers.Login(svcs.Auth, cfg.JWT, logg))
		r.Post("/token/refresh/", controllers.Refresh(svcs.Auth, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/logout/", controllers.Logout(svcs.Auth, cfg.JWT, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, sessions, logg),
			middleware.Tenant(logg),
			middleware.Location(logg),
			middleware.CSRF(csrfStore, logg),
		)

		r.Get("/security/csrf/", controllers.CSRFToken(csrfStore, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Post("/", controllers.ProductCreate(svcs.Products, logg))
			r.Get("/{productID}/", controllers.ProductGet(svcs.Products, logg))
			r.Patch("/{productID}/", controllers.ProductUpdate(svcs.Products, logg))
			r.Delete("/{productID}/", controllers.ProductDeactivate(svcs.Products, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(middleware.RequireLocation(logg))
			r.Get("/stock/", controllers.StockList(svcs.Inventory, logg))
			r.Get("/stock/low/", controllers.LowStockList(svcs.Inventory, logg))
			r.Get("/stock/{productID}/adjustments/", controllers.AdjustmentList(svcs.Inventory, logg))
			r.Post("/adjustments/", controllers.StockAdjust(svcs.Inventory, logg))
		})

		r.Route("/discounts", func(r chi.Router) {
			r.Get("/", controllers.DiscountList(svcs.Discounts, logg))
			r.Post("/", controllers.DiscountCreate(svcs.Discounts, logg))
			r.Get("/{discountID}/", controllers.DiscountGet(svcs.Discounts, logg))
			r.Patch("/{discountID}/", controllers.DiscountUpdate(svcs.Discounts, logg))
			r.Delete("/{discountID}/", controllers.DiscountDelete(svcs.Discounts, logg))
		})

		r.Route("/cogs", func(r chi.Router) {
			r.Get("/ingredients/", controllers.IngredientList(svcs.Cogs, logg))
			r.Post("/ingredients/", controllers.IngredientCreate(svcs.Cogs, logg))
			r.Patch("/ingredients/{ingredientID}/", controllers.IngredientUpdate(svcs.Cogs, logg))
			r.Delete("/ingredients/{ingredientID}/", controllers.IngredientDelete(svcs.Cogs, logg))
			r.Get("/menu-items/", controllers.MenuItemList(svcs.Cogs, logg))
			r.Get("/menu-items/{productID}/", controllers.MenuItemGet(svcs.Cogs, logg))
			r.Put("/menu-items/{productID}/recipe/", controllers.RecipePut(svcs.Cogs, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Get("/{orderID}/", controllers.OrderGet(svcs.Orders, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsGet(svcs.Settings, logg))
			r.With(middleware.RequireRole(logg, string(enums.UserRoleOwner), string(enums.UserRoleAdmin))).
				Put("/", controllers.SettingsUpdate(svcs.Settings, logg))
		})

		r.Route("/terminals", func(r chi.Router) {
			r.Get("/", controllers.TerminalList(svcs.Terminals, logg))
			r.Post("/", controllers.TerminalRegister(svcs.Terminals, logg))
			r.Delete("/{terminalID}/", controllers.TerminalDeactivate(svcs.Terminals, logg))
			r.Post("/{terminalID}/heartbeat/", controllers.TerminalHeartbeat(svcs.Terminals, logg))
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.LocationList(svcs.Locations, logg))
			r.With(middleware.RequireRole(logg, string(enums.UserRoleOwner), string(enums.UserRoleAdmin))).
				Post("/", controllers.LocationCreate(svcs.Locations, logg))
			r.Get("/{locationID}/", controllers.LocationGet(svcs.Locations, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales-summary/", controllers.SalesSummary(svcs.Reports, logg))
		})
	})

	return r
}
