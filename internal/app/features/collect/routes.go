// internal/app/features/collect/routes.go
package collect

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Routes mounts at "/api/collect". Any origin may post; tracked sites are
// by definition other origins.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))
	r.Post("/", h.ServeCollect)
	return r
}
