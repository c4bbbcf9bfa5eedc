package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alihamzakhan/bazaargo-backend/api/controllers"
	"github.com/alihamzakhan/bazaargo-backend/api/middleware"
	"github.com/alihamzakhan/bazaargo-backend/internal/cart"
	"github.com/alihamzakhan/bazaargo-backend/internal/catalog"
	"github.com/alihamzakhan/bazaargo-backend/internal/orders"
	"github.com/alihamzakhan/bazaargo-backend/internal/packs"
	"github.com/alihamzakhan/bazaargo-backend/internal/session"
	"github.com/alihamzakhan/bazaargo-backend/pkg/config"
	"github.com/alihamzakhan/bazaargo-backend/pkg/db"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cache redis.Pinger,
	gatherer prometheus.Gatherer,
	verifier middleware.SessionVerifier,
	sessionService session.Service,
	catalogService catalog.Service,
	cartManager *cart.Manager,
	packsService packs.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.CORS(),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	authed := middleware.Auth(cfg.JWT, verifier, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cache))
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(sessionService, logg))
		r.With(authed).Post("/logout", controllers.AuthLogout(sessionService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authed)

		r.Route("/v1/catalog", func(r chi.Router) {
			r.Get("/search", controllers.CatalogSearch(catalogService, sessionService, logg))
		})

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartManager, sessionService, logg))
			r.Delete("/", controllers.CartClear(cartManager, sessionService, logg))
			r.Post("/items", controllers.CartAddItem(cartManager, sessionService, logg))
			r.Patch("/items/{lineId}", controllers.CartUpdateItem(cartManager, sessionService, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveItem(cartManager, sessionService, logg))
		})

		r.Route("/v1/packs", func(r chi.Router) {
			r.Get("/", controllers.PackList(packsService, logg))
			r.Post("/", controllers.PackSave(packsService, logg))
			r.Post("/quote", controllers.PackQuote(packsService, sessionService, logg))
			r.Delete("/{packId}", controllers.PackDelete(packsService, logg))
			r.Post("/{packId}/quote", controllers.PackQuoteSaved(packsService, sessionService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, sessionService, logg))
			r.Post("/", controllers.OrderSubmit(ordersService, sessionService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, sessionService, logg))
		})
	})

	return r
}
