package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fabrikline/wholesale-backend/api/controllers"
	"github.com/fabrikline/wholesale-backend/api/middleware"
	analyticssvc "github.com/fabrikline/wholesale-backend/internal/analytics"
	authsvc "github.com/fabrikline/wholesale-backend/internal/auth"
	companysvc "github.com/fabrikline/wholesale-backend/internal/companies"
	"github.com/fabrikline/wholesale-backend/internal/currency"
	pricingsvc "github.com/fabrikline/wholesale-backend/internal/pricing"
	productsvc "github.com/fabrikline/wholesale-backend/internal/products"
	chartsvc "github.com/fabrikline/wholesale-backend/internal/sizecharts"
	uploadsvc "github.com/fabrikline/wholesale-backend/internal/uploads"
	"github.com/fabrikline/wholesale-backend/pkg/auth/session"
	"github.com/fabrikline/wholesale-backend/pkg/config"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers. Optional entries
// may be nil; the affected endpoints then answer with an internal error.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Redis     *redis.Client
	Sessions  session.AccessSessionChecker
	Readiness map[string]controllers.Pinger

	Auth      authsvc.Service
	Products  productsvc.Service
	Charts    chartsvc.Service
	Pricing   pricingsvc.Service
	Rates     *currency.Store
	Analytics analyticssvc.Service
	Companies companysvc.Service
	Uploads   uploadsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.LoginThrottlePolicy(cfg.AuthRate)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})

	cartDeps := controllers.CartDeps{
		Redis:   deps.Redis,
		Pricing: deps.Pricing,
		Rates:   deps.Rates,
		Logger:  logg,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface
		r.With(middleware.Throttle(loginPolicy, deps.Redis, logg)).
			Post("/auth/login", controllers.AuthLogin(deps.Auth, logg))

		r.Get("/products", controllers.ProductsList(deps.Products, logg))
		r.Get("/products/{productID}", controllers.ProductDetail(deps.Products, logg))
		r.Get("/size-charts/{chartID}", controllers.SizeChartGet(deps.Charts, logg))

		r.Route("/exchange-rates", func(r chi.Router) {
			r.Get("/", controllers.ExchangeRatesGet(deps.Rates, logg))
			r.Get("/convert", controllers.ExchangeRateConvert(deps.Rates, logg))
			r.Put("/selected", controllers.ExchangeRateSelect(deps.Rates, logg))
		})

		// Authenticated surface
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Post("/auth/logout", controllers.AuthLogout(deps.Auth, logg))
			r.Get("/auth/profile", controllers.AuthProfile(deps.Auth, logg))

			r.Get("/pricing/quote", controllers.PricingQuote(deps.Pricing, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg,
					string(enums.UserRoleBuyer),
					string(enums.UserRoleCompanyAdmin),
				))

				r.Get("/", controllers.CartGet(cartDeps))
				r.Post("/items", controllers.CartAddItem(cartDeps))
				r.Put("/items", controllers.CartUpdateItem(cartDeps))
				r.Delete("/items", controllers.CartRemoveItem(cartDeps))
				r.Delete("/", controllers.CartClear(cartDeps))
			})

			r.Post("/analytics/track", controllers.AnalyticsTrack(deps.Analytics, logg))
			r.Post("/uploads", controllers.UploadCreate(deps.Uploads, cfg.Uploads.MaxUploadMB, logg))

			r.Route("/platform", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRolePlatformAdmin), logg))

				r.Get("/companies", controllers.PlatformCompaniesList(deps.Companies, logg))
				r.Get("/companies/export", controllers.PlatformCompaniesExport(deps.Companies, logg))
				r.Patch("/companies/{companyID}/status", controllers.PlatformCompanySetStatus(deps.Companies, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRolePlatformAdmin), logg))

				r.Put("/skus/{skuCode}/tiers", controllers.AdminReplaceTiers(deps.Pricing, logg))
			})
		})
	})

	return r
}
