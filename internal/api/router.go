package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the chi router with middleware and all /v1 routes.
func NewRouter(h *Handler, corsAllowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/quality", func(r chi.Router) {
			r.Get("/domains", h.ListQualityDomains)
			r.Get("/reports", h.ListQualityReports)
			r.Post("/validate/{domain}", h.ValidateQuality)
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", h.ListContractDomains)
			r.Get("/results", h.ListContractResults)
			r.Get("/{domain}", h.GetContract)
			r.Post("/{domain}/validate", h.ValidateContract)
		})

		r.Route("/lineage", func(r chi.Router) {
			r.Post("/events", h.RecordLineageEvent)
			r.Get("/upstream", h.GetUpstreamLineage)
			r.Get("/downstream", h.GetDownstreamLineage)
		})
	})

	return r
}
