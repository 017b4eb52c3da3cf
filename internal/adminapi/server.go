package adminapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"embedhub/pkg/middleware"
)

// Handler builds the HTTP handler with routes and middleware.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(a.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(a.adminAuth)
		ar.Get("/empresas", a.listEmpresas)
		ar.Post("/empresas", a.createEmpresa)
		ar.Put("/empresas/{id}", a.updateEmpresa)
		ar.Delete("/empresas/{id}", a.deleteEmpresa)
		ar.Post("/empresas/{id}/regenerate-credentials", a.regenerateCredentials)
		ar.Post("/empresas/{id}/toggle-status", a.toggleStatus)
		ar.Get("/empresas/{id}/reports", a.listEmpresaReports)
		ar.Put("/empresas/{id}/reports", a.setEmpresaReports)
	})

	return r
}
