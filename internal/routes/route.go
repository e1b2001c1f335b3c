package routes

import (
	"net/http"

	"installations-bknd/internal/config"
	"installations-bknd/internal/events"
	"installations-bknd/internal/handlers"
	"installations-bknd/internal/logger"
	"installations-bknd/internal/metrics"
	mdlwr "installations-bknd/internal/middleware"
	"installations-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uptrace/bun"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger, hub *events.Hub, m *metrics.Collector) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mdlwr.Metrics(m))

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	installationSvc := services.NewInstallationService(db)
	areaSvc := services.NewAreaService(db)

	installationHandler := handlers.NewInstallationHandler(installationSvc, hub, m, logr.Logger)
	areaHandler := handlers.NewAreaHandler(areaSvc, hub, m, logr.Logger)
	previewHandler := handlers.NewPreviewHandler(m, logr.Logger)

	submitLimit := mdlwr.RateLimit(cfg.SubmitRateLimit, cfg.SubmitRateWindow, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	if cfg.MetricsEnabled {
		r.Handle("/metrics", m.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/installations", func(r chi.Router) {
			r.With(submitLimit).Post("/", installationHandler.Submit)
			r.Get("/", installationHandler.QueryRegion)
			r.Get("/bbox", installationHandler.QueryBBox)
			r.Post("/bbox", installationHandler.QueryBBox)
		})

		r.Route("/areas", func(r chi.Router) {
			r.With(submitLimit).Post("/", areaHandler.Submit)
			r.Get("/bbox", areaHandler.QueryBBox)
			r.Post("/bbox", areaHandler.QueryBBox)
		})

		r.Get("/regions", handlers.GetRegions)
		r.Post("/geometry/preview", previewHandler.Preview)
		r.Get("/events", hub.ServeWS)
	})

	return r
}
