package privateapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"embedhub/pkg/middleware"
)

// Handler builds the HTTP handler with routes and middleware.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(a.log))
	r.Use(middleware.Tracing("embedhub-private-api"))
	r.Use(middleware.Metrics())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/private", func(pr chi.Router) {
		pr.Post("/login", a.login)
		pr.Group(func(gr chi.Router) {
			gr.Use(a.requireToken)
			gr.Get("/reports", a.listReports)
			gr.Get("/report-config", a.reportConfig)
			gr.Post("/report-config", a.reportConfig)
		})
	})

	return r
}
