// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/pagepulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts at "/projects".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/delete", h.HandleDelete)
	})
	return r
}
