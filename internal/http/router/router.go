package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/tubetrade/rfq-api/internal/auth"
	"github.com/tubetrade/rfq-api/internal/config"
	"github.com/tubetrade/rfq-api/internal/database"
	"github.com/tubetrade/rfq-api/internal/http/handler"
	"github.com/tubetrade/rfq-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/tubetrade/rfq-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB // archive database, nil when archiving is disabled
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	rfqHandler     *handler.RFQHandler
	quoteHandler   *handler.QuoteHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	rfqHandler *handler.RFQHandler,
	quoteHandler *handler.QuoteHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		rfqHandler:     rfqHandler,
		quoteHandler:   quoteHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness probe. The session store is in-process, so the only external
	// dependency to check is the optional archive database.
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if rt.db == nil {
			checks["archive"] = map[string]interface{}{"status": "disabled"}
		} else if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Archive database health check failed", zap.Error(err))
			checks["archive"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["archive"] = map[string]interface{}{"status": "healthy"}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			status = "unhealthy"
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Archive database health check with pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if rt.db == nil {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "disabled",
				"service": "archive",
			})
			return
		}

		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Archive database health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "archive",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "archive",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
			},
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		if rt.cfg.Auth.Enabled {
			r.Use(rt.authMiddleware.Authenticate)
		}

		r.Route("/rfqs", func(r chi.Router) {
			r.Post("/parse", rt.rfqHandler.Parse)
			r.Post("/clarify", rt.rfqHandler.Clarify)
			r.Get("/{rfqId}", rt.rfqHandler.GetByID)
			r.Post("/{rfqId}/quotes", rt.quoteHandler.Submit)
			r.Get("/{rfqId}/quotes", rt.quoteHandler.List)
		})
	})

	return r
}
