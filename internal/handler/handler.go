package handlers

import (
	"context"

	"yelpcamp/internal/config"
	"yelpcamp/internal/service"
	"yelpcamp/internal/session"
	"yelpcamp/internal/validation"
)

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	CampgroundService service.CampgroundService
	ReviewService     service.ReviewService
	AuthService       service.AuthService
	Sessions          *session.Store
	Renderer          *Renderer
	DB                HealthChecker
	Cfg               *config.Config
	Validate          *validation.Validator
}

func NewHandlers(service *service.Service, sessions *session.Store, renderer *Renderer, health HealthChecker, config *config.Config) *Handlers {
	return &Handlers{
		CampgroundService: service.Campground,
		ReviewService:     service.Review,
		AuthService:       service.Auth,
		Sessions:          sessions,
		Renderer:          renderer,
		DB:                health,
		Cfg:               config,
		Validate:          validation.New(),
	}
}
