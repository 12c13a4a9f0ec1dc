// Package router binds the YelpCamp routes to their handlers and wraps them in
// the middleware chain.
package router

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	handlers "yelpcamp/internal/handler"
	"yelpcamp/internal/middleware"
)

func New(h *handlers.Handlers, logOut io.Writer) http.Handler {
	r := mux.NewRouter()

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", handlers.StaticHandler())).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/", h.Home).Methods(http.MethodGet)

	r.HandleFunc("/register", h.RegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.LoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.Logout).Methods(http.MethodGet)

	c := r.PathPrefix("/campgrounds").Subrouter()
	c.HandleFunc("", h.ListCampgrounds).Methods(http.MethodGet)
	c.HandleFunc("", h.CreateCampground).Methods(http.MethodPost)
	c.HandleFunc("/new", h.NewCampgroundForm).Methods(http.MethodGet)
	c.HandleFunc("/{id}", h.ShowCampground).Methods(http.MethodGet)
	c.HandleFunc("/{id}", h.UpdateCampground).Methods(http.MethodPut)
	c.HandleFunc("/{id}", h.DeleteCampground).Methods(http.MethodDelete)
	c.HandleFunc("/{id}/edit", h.EditCampgroundForm).Methods(http.MethodGet)
	c.HandleFunc("/{id}/reviews", h.CreateReview).Methods(http.MethodPost)
	c.HandleFunc("/{id}/reviews/{reviewId}", h.DeleteReview).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.NotFound)

	var maxBody int64
	if h.Cfg != nil {
		maxBody = h.Cfg.MaxUploadSize * 4
	}

	return middleware.Chain(
		r,
		middleware.SessionMiddleware(h.Sessions, h.AuthService),
		middleware.Recovery(h.Panic),
		middleware.MethodOverride,
		middleware.LimitBody(maxBody),
		middleware.LoggingMiddleware(logOut),
	)
}
