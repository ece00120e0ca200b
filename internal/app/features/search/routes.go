// internal/app/features/search/routes.go
package search

import (
	"github.com/go-chi/chi/v5"

	"github.com/mdrews/courselens/internal/app/system/auth"
	"github.com/mdrews/courselens/internal/app/system/authz"
)

// Routes wires the search feature under its mount point (e.g. "/search").
// The page is for teaching staff: admins and instructors only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleAdmin, authz.RoleInstructor))

		pr.Get("/", h.ServeSearch)
		pr.Get("/export.xlsx", h.ServeExport)
	})

	return r
}
