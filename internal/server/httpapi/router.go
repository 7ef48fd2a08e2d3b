package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// contactsListRate allows 10 list requests per minute per client IP.
const contactsListRate = rate.Limit(10.0 / 60.0)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Get("/refresh_token", s.handleRefresh)
		r.Get("/confirmed_email/{token}", s.handleConfirmEmail)
		r.Post("/request_email", s.handleRequestEmail)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.RequireUser)

		r.Get("/api/users/me", s.handleMe)
		r.Patch("/api/users/avatar", s.handleUpdateAvatar)

		r.Route("/api/contacts", func(r chi.Router) {
			r.With(RateLimit(contactsListRate, 10)).Get("/", s.handleListContacts)
			r.Post("/", s.handleCreateContact)
			r.Get("/search", s.handleSearchContacts)
			r.Get("/birthdays", s.handleUpcomingBirthdays)
			r.Get("/{id}", s.handleGetContact)
			r.Put("/{id}", s.handleUpdateContact)
			r.Delete("/{id}", s.handleDeleteContact)
		})
	})

	return r
}
