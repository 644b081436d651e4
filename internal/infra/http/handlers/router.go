package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyvewyre/lead-api/internal/infra/http/middleware"
)

type Router struct {
	Health      *HealthHandler
	Leads       *LeadHandler
	Imports     *ImportHandler
	DNC         *DNCHandler
	Settings    *SettingsHandler
	Catalog     *CatalogHandler
	Events      *EventsHandler
	ImportLimit *middleware.RateLimiter
	CORSOrigins []string
}

func (rt Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.UserHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	if rt.Health != nil {
		r.Get("/health", rt.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", rt.Leads.List)
			r.Post("/", rt.Leads.Create)

			r.Group(func(r chi.Router) {
				if rt.ImportLimit != nil {
					r.Use(rt.ImportLimit.PerUser)
				}
				r.Post("/parse", rt.Imports.Parse)
				r.Post("/import", rt.Imports.Import)
			})

			r.Post("/bulk-update", rt.Leads.BulkUpdate)
			r.Post("/bulk-delete", rt.Leads.BulkDelete)
			r.Post("/export", rt.Leads.Export)
			r.Post("/recalculate-scores", rt.Leads.RecalculateScores)

			r.Get("/{id}", rt.Leads.Get)
			r.Put("/{id}", rt.Leads.Update)
			r.Delete("/{id}", rt.Leads.Delete)
		})

		r.Get("/campaigns", rt.Catalog.Campaigns)
		r.Delete("/campaigns/{id}", rt.Catalog.DeleteCampaign)
		r.Get("/tags", rt.Catalog.Tags)

		r.Route("/dnc", func(r chi.Router) {
			r.Get("/stats", rt.DNC.Stats)
			r.Get("/list", rt.DNC.List)
			r.Get("/list/export", rt.DNC.Export)
			r.Get("/history", rt.DNC.History)
			r.Post("/add", rt.DNC.Add)
			r.Post("/bulk-add", rt.DNC.BulkAdd)
			r.Post("/remove", rt.DNC.Remove)
			r.Post("/check", rt.DNC.Check)
		})

		r.Get("/settings", rt.Settings.Get)
		r.Put("/settings", rt.Settings.Save)
		r.Get("/settings/quiet-hours", rt.Settings.GetQuietHours)
		r.Put("/settings/quiet-hours", rt.Settings.SaveQuietHours)

		r.Get("/telnyx/numbers", rt.Settings.SearchNumbers)
		r.Post("/number-pool/claim", rt.Settings.ClaimNumber)

		r.Get("/user/points", rt.Settings.Balance)
		r.Post("/user/points/spend", rt.Settings.Spend)

		if rt.Events != nil {
			r.Get("/events", rt.Events.Stream)
		}
	})

	return r
}
