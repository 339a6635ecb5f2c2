package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cardiolog/cardiolog-go/internal/middleware"
)

// NewRouter wires the HTTP surface. Every route except health, register and
// login goes through the bearer-token gate.
func NewRouter(authn middleware.Authenticator, auth *AuthHandler, readings *ReadingHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse("method not allowed"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", auth.HandleRegister)
		r.Post("/login", auth.HandleLogin)
		r.Get("/me", middleware.Authenticated(authn, auth.HandleMe))
		r.Put("/me", middleware.Authenticated(authn, auth.HandleUpdateMe))
	})

	r.Route("/readings", func(r chi.Router) {
		r.Post("/", middleware.Authenticated(authn, readings.HandleCreate))
		r.Get("/my", middleware.Authenticated(authn, readings.HandleListMine))
		r.Get("/stats", middleware.Authenticated(authn, readings.HandleStats))
		r.Delete("/{id}", middleware.Authenticated(authn, readings.HandleDelete))
	})

	return r
}
