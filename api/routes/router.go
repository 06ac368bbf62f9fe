package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/platewise/platewise-backend/api/controllers"
	"github.com/platewise/platewise-backend/api/middleware"
	"github.com/platewise/platewise-backend/internal/analytics"
	"github.com/platewise/platewise-backend/internal/ingest"
	"github.com/platewise/platewise-backend/internal/restaurants"
	"github.com/platewise/platewise-backend/internal/uploads"
	"github.com/platewise/platewise-backend/pkg/config"
	"github.com/platewise/platewise-backend/pkg/db"
	"github.com/platewise/platewise-backend/pkg/logger"
	"github.com/platewise/platewise-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	restaurantService restaurants.Service,
	ingestService ingest.Service,
	uploadsService uploads.Service,
	analyticsService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/restaurants", func(r chi.Router) {
			r.Post("/", controllers.RestaurantCreate(restaurantService, logg))
			r.Get("/", controllers.RestaurantList(restaurantService, logg))
			r.Route("/{restaurantId}", func(r chi.Router) {
				r.Get("/", controllers.RestaurantGet(restaurantService, logg))
				r.Put("/", controllers.RestaurantUpdate(restaurantService, logg))
				r.Delete("/", controllers.RestaurantDelete(restaurantService, logg))
				r.Get("/analytics", controllers.RestaurantAnalytics(analyticsService, logg))
				r.Get("/uploads", controllers.UploadList(uploadsService, logg))
			})
		})

		r.Route("/upload", func(r chi.Router) {
			r.Post("/csv", controllers.UploadCSV(ingestService, restaurantService, cfg.Upload, logg))
			r.Post("/preview-columns", controllers.PreviewColumns(ingestService, cfg.Upload, logg))
		})
	})

	return r
}
