// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/worldpulse/internal/middleware"
)

// Router binds the handler to its routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, cfg *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(cfg),
	}
}

// Setup builds the Chi route tree. API paths keep their trailing slash.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Applied to all routes, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/api/health/live", router.handler.HealthLive)
		r.Get("/api/health/ready", router.handler.HealthReady)
		r.Handle("/metrics", promhttp.Handler())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Compression)

		r.Get("/countries/", router.handler.Countries)
		r.Get("/countries/{code}/happiness/", router.handler.CountryHappiness)
		r.Get("/indicators/", router.handler.Indicators)
		r.Get("/regions/", router.handler.Regions)
		r.Get("/regions/{region}/countries/", router.handler.RegionCountries)

		r.Get("/worldbank-data/", router.handler.WorldBankData)
		r.Get("/happiness-data/", router.handler.HappinessData)
		r.Get("/regional-data/", router.handler.RegionalData)

		r.Get("/data-sources/", router.handler.DataSources)
		r.Get("/update-logs/", router.handler.UpdateLogs)

		r.Route("/visualizations", func(r chi.Router) {
			r.Get("/country-trends/", router.handler.CountryTrends)
			r.Get("/happiness-comparison/", router.handler.HappinessComparison)
			r.Get("/regional-happiness/", router.handler.RegionalHappiness)
			r.Get("/regional-snapshot/", router.handler.RegionalSnapshot)
			r.Get("/india-dashboard/", router.handler.CountryDashboard)
			r.Get("/dashboard/", router.handler.Dashboard)
		})
	})

	return r
}
